package parser

import (
	"strconv"
	"strings"
	"testing"
)

func TestDecode_BracketExample(t *testing.T) {
	d := NewDecoder(GrammarBracket)
	line := "[15:21:49.586][ DEBUG]: Swapchain created with 2 images. | Helix.cpp -> initSwapchain(): 421"

	got, ok := d.Decode(line)
	if !ok {
		t.Fatalf("Decode(%q) returned no record", line)
	}

	want := Record{
		Timestamp:      "15:21:49.586",
		Level:          LevelDebug,
		Message:        "Swapchain created with 2 images.",
		SourceFile:     "Helix.cpp",
		SourceFunction: "initSwapchain",
		SourceLine:     421,
	}
	if got != want {
		t.Errorf("Decode() = %+v, want %+v", got, want)
	}
}

func TestDecode_Bracket(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Record
		wantOK bool
	}{
		{
			name: "padded message",
			line: "[2024-01-15 10:00:00.001][  INFO]: Device ready                     | Device.cpp -> init(): 12",
			want: Record{
				Timestamp: "2024-01-15 10:00:00.001", Level: LevelInfo, Message: "Device ready",
				SourceFile: "Device.cpp", SourceFunction: "init", SourceLine: 12,
			},
			wantOK: true,
		},
		{
			name: "continuation separator",
			line: "[10:00:00.000][  WARN]> second half of a wrapped message | Queue.cpp -> submit(): 7",
			want: Record{
				Timestamp: "10:00:00.000", Level: LevelWarn, Message: "second half of a wrapped message",
				SourceFile: "Queue.cpp", SourceFunction: "submit", SourceLine: 7,
			},
			wantOK: true,
		},
		{
			name: "no separator",
			line: "[10:00:00.000][ERROR]boom| a.cpp -> f(): 1",
			want: Record{
				Timestamp: "10:00:00.000", Level: LevelError, Message: "boom",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 1,
			},
			wantOK: true,
		},
		{
			name: "header and footer",
			line: "[10:00:00.000][HEADER]: ===== Frame ===== | main.cpp -> loop(): 99",
			want: Record{
				Timestamp: "10:00:00.000", Level: LevelHeader, Message: "===== Frame =====",
				SourceFile: "main.cpp", SourceFunction: "loop", SourceLine: 99,
			},
			wantOK: true,
		},
		{
			name: "message containing pipe splits at final pipe",
			line: "[t][INFO]: a | b | x.cpp -> y(): 3",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "a | b",
				SourceFile: "x.cpp", SourceFunction: "y", SourceLine: 3,
			},
			wantOK: true,
		},
		{
			name: "qualified function",
			line: "[t][INFO]: msg | Renderer.cpp -> Renderer::draw(): 55",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "msg",
				SourceFile: "Renderer.cpp", SourceFunction: "Renderer::draw", SourceLine: 55,
			},
			wantOK: true,
		},
		{
			name: "unknown level defaults to debug",
			line: "[t][NOTICE]: msg | a.cpp -> f(): 1",
			want: Record{
				Timestamp: "t", Level: LevelDebug, Message: "msg",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 1,
			},
			wantOK: true,
		},
		{
			name: "line number overflow falls back",
			line: "[t][INFO]: msg | a.cpp -> f(): 99999999999999999999999",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "msg",
				SourceFile: "a.cpp -> f(): 99999999999999999999999", SourceFunction: UnknownFunction, SourceLine: 0,
			},
			wantOK: true,
		},
		{name: "empty line", line: "", wantOK: false},
		{name: "plain text", line: "just some text", wantOK: false},
		{name: "lowercase level", line: "[t][info]: msg | a.cpp -> f(): 1", wantOK: false},
		{name: "missing source", line: "[t][INFO]: msg without source", wantOK: false},
		{name: "missing arrow", line: "[t][INFO]: msg | a.cpp f(): 1", wantOK: false},
		{name: "non-numeric line", line: "[t][INFO]: msg | a.cpp -> f(): abc", wantOK: false},
		{name: "missing timestamp", line: "[INFO]: msg | a.cpp -> f(): 1", wantOK: false},
	}

	d := NewDecoder(GrammarBracket)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Decode(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Decode(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode_Separator(t *testing.T) {
	fs := FieldSeparator
	tests := []struct {
		name   string
		line   string
		want   Record
		wantOK bool
	}{
		{
			name: "well formed",
			line: "15:21:49.586" + fs + "DEBUG" + fs + "Swapchain created" + fs + "Helix.cpp -> initSwapchain(): 421",
			want: Record{
				Timestamp: "15:21:49.586", Level: LevelDebug, Message: "Swapchain created",
				SourceFile: "Helix.cpp", SourceFunction: "initSwapchain", SourceLine: 421,
			},
			wantOK: true,
		},
		{
			name: "level trimmed",
			line: "t" + fs + " \tWARN \t" + fs + "m" + fs + "a.cpp -> f(): 2",
			want: Record{
				Timestamp: "t", Level: LevelWarn, Message: "m",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 2,
			},
			wantOK: true,
		},
		{
			name: "trailing separator",
			line: "t" + fs + "INFO" + fs + "m" + fs + "a.cpp -> f(): 2" + fs,
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "m",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 2,
			},
			wantOK: true,
		},
		{
			name: "source fallback",
			line: "t" + fs + "ERROR" + fs + "m" + fs + "weird.cpp no arrow",
			want: Record{
				Timestamp: "t", Level: LevelError, Message: "m",
				SourceFile: "weird.cpp no arrow", SourceFunction: UnknownFunction, SourceLine: 0,
			},
			wantOK: true,
		},
		{
			name: "non-numeric line number falls back",
			line: "t" + fs + "INFO" + fs + "m" + fs + "a.cpp -> f(): x",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "m",
				SourceFile: "a.cpp -> f(): x", SourceFunction: UnknownFunction, SourceLine: 0,
			},
			wantOK: true,
		},
		{
			name: "line number overflow falls back",
			line: "t" + fs + "INFO" + fs + "m" + fs + "a.cpp -> f(): 99999999999999999999999",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "m",
				SourceFile: "a.cpp -> f(): 99999999999999999999999", SourceFunction: UnknownFunction, SourceLine: 0,
			},
			wantOK: true,
		},
		{
			name: "unknown level defaults to debug",
			line: "t" + fs + "VERBOSE" + fs + "m" + fs + "a.cpp -> f(): 1",
			want: Record{
				Timestamp: "t", Level: LevelDebug, Message: "m",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 1,
			},
			wantOK: true,
		},
		{
			name: "extra fields ignored",
			line: "t" + fs + "INFO" + fs + "m" + fs + "a.cpp -> f(): 1" + fs + "extra",
			want: Record{
				Timestamp: "t", Level: LevelInfo, Message: "m",
				SourceFile: "a.cpp", SourceFunction: "f", SourceLine: 1,
			},
			wantOK: true,
		},
		{
			name: "empty fields",
			line: fs + fs + fs + "src",
			want: Record{
				Level: LevelDebug, SourceFile: "src", SourceFunction: UnknownFunction,
			},
			wantOK: true,
		},
		{name: "empty line", line: "", wantOK: false},
		{name: "three fields", line: "t" + fs + "INFO" + fs + "m", wantOK: false},
		{name: "three fields and trailing separator", line: "t" + fs + "INFO" + fs + "m" + fs, wantOK: false},
		{name: "bracket line", line: "[t][INFO]: m | a.cpp -> f(): 1", wantOK: false},
	}

	d := NewDecoder(GrammarSeparator)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := d.Decode(tt.line)
			if ok != tt.wantOK {
				t.Fatalf("Decode(%q) ok = %v, want %v", tt.line, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Decode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecode_GrammarsAgree(t *testing.T) {
	events := []Record{
		{Timestamp: "15:21:49.586", Level: LevelDebug, Message: "Swapchain created with 2 images.", SourceFile: "Helix.cpp", SourceFunction: "initSwapchain", SourceLine: 421},
		{Timestamp: "2024-01-15 10:00:00.000", Level: LevelError, Message: "vkQueueSubmit failed: -4", SourceFile: "Queue.cpp", SourceFunction: "Queue::submit", SourceLine: 88},
		{Timestamp: "00:00:00.000", Level: LevelFooter, Message: "shutdown", SourceFile: "main.cpp", SourceFunction: "main", SourceLine: 1},
	}

	bracket := NewDecoder(GrammarBracket)
	separator := NewDecoder(GrammarSeparator)

	for _, ev := range events {
		a := "[" + ev.Timestamp + "][" + ev.Level.Label() + "]: " + ev.Message + " | " +
			ev.SourceFile + " -> " + ev.SourceFunction + "(): " + strconv.Itoa(ev.SourceLine)
		b := strings.Join([]string{
			ev.Timestamp, ev.Level.String(), ev.Message,
			ev.SourceFile + " -> " + ev.SourceFunction + "(): " + strconv.Itoa(ev.SourceLine),
		}, FieldSeparator)

		gotA, okA := bracket.Decode(a)
		gotB, okB := separator.Decode(b)
		if !okA || !okB {
			t.Fatalf("Decode() ok = %v/%v for %q / %q", okA, okB, a, b)
		}
		if gotA != gotB {
			t.Errorf("grammars disagree:\n bracket   %+v\n separator %+v", gotA, gotB)
		}
		if gotA != ev {
			t.Errorf("Decode() = %+v, want %+v", gotA, ev)
		}
	}
}

func TestDecode_UnknownGrammar(t *testing.T) {
	d := NewDecoder(Grammar(42))
	if _, ok := d.Decode("[t][INFO]: m | a.cpp -> f(): 1"); ok {
		t.Error("Decode() with unknown grammar returned a record")
	}
}

func TestParseGrammar(t *testing.T) {
	tests := []struct {
		in      string
		want    Grammar
		wantErr bool
	}{
		{in: "bracket", want: GrammarBracket},
		{in: "A", want: GrammarBracket},
		{in: " separator ", want: GrammarSeparator},
		{in: "b", want: GrammarSeparator},
		{in: "json", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseGrammar(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGrammar(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseGrammar(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, level := range Levels {
		got, ok := ParseLevel(level.String())
		if !ok || got != level {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, true", level.String(), got, ok, level)
		}
	}

	for _, token := range []string{"debug", "Info", "TRACE", "", " WARN"} {
		got, ok := ParseLevel(token)
		if ok || got != LevelDebug {
			t.Errorf("ParseLevel(%q) = %v, %v; want DEBUG, false", token, got, ok)
		}
	}
}

func TestLevel_Label(t *testing.T) {
	if got := LevelInfo.Label(); got != "  INFO" {
		t.Errorf("Label() = %q, want %q", got, "  INFO")
	}
	if got := LevelFooter.Label(); got != "FOOTER" {
		t.Errorf("Label() = %q, want %q", got, "FOOTER")
	}
}

func TestLevel_UnmarshalText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("ERROR")); err != nil || l != LevelError {
		t.Errorf("UnmarshalText(ERROR) = %v, %v", l, err)
	}
	if err := l.UnmarshalText([]byte("bogus")); err == nil {
		t.Error("UnmarshalText(bogus) expected error")
	}
}
