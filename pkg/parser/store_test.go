package parser

import (
	"sync"
	"testing"
)

func makeRecords(n, offset int) []Record {
	out := make([]Record, n)
	for i := range out {
		out[i] = Record{Message: "m", SourceLine: offset + i}
	}
	return out
}

func TestStore_AppendAndRead(t *testing.T) {
	s := NewStore()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", s.Len())
	}

	s.Append(makeRecords(3, 0))
	s.Append(nil)
	s.Append(makeRecords(2, 3))

	if s.Len() != 5 {
		t.Fatalf("Len() = %d, want 5", s.Len())
	}
	for i := 0; i < 5; i++ {
		rec, ok := s.At(i)
		if !ok || rec.SourceLine != i {
			t.Errorf("At(%d) = %+v, %v", i, rec, ok)
		}
	}
	if _, ok := s.At(5); ok {
		t.Error("At(5) should be out of range")
	}
	if _, ok := s.At(-1); ok {
		t.Error("At(-1) should be out of range")
	}
}

func TestStore_Slice(t *testing.T) {
	s := NewStore()
	s.Append(makeRecords(10, 0))

	tests := []struct {
		name     string
		from, to int
		want     int
	}{
		{"middle", 2, 5, 3},
		{"clamped end", 8, 100, 2},
		{"negative start", -3, 2, 2},
		{"empty", 5, 5, 0},
		{"inverted", 6, 2, 0},
		{"past end", 20, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Slice(tt.from, tt.to); len(got) != tt.want {
				t.Errorf("Slice(%d, %d) len = %d, want %d", tt.from, tt.to, len(got), tt.want)
			}
		})
	}
}

func TestStore_SliceIsCopy(t *testing.T) {
	s := NewStore()
	s.Append(makeRecords(3, 0))

	got := s.Snapshot()
	got[0].Message = "changed"

	rec, _ := s.At(0)
	if rec.Message != "m" {
		t.Error("modifying a snapshot changed the store")
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	s.Append(makeRecords(4, 0))
	s.Reset()
	if s.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", s.Len())
	}
	s.Append(makeRecords(1, 0))
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_ConcurrentReaders(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			s.Append(makeRecords(50, i*50))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prev := 0
			for i := 0; i < 200; i++ {
				n := s.Len()
				if n < prev {
					t.Errorf("Len() decreased from %d to %d", prev, n)
					return
				}
				prev = n
				for j, rec := range s.Slice(n-10, n) {
					if rec.SourceLine != n-10+j && n >= 10 {
						t.Errorf("record at %d has SourceLine %d", n-10+j, rec.SourceLine)
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	if s.Len() != 5000 {
		t.Errorf("Len() = %d, want 5000", s.Len())
	}
}
