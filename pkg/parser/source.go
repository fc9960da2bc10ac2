package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// ErrEmptyPath is returned when a run is requested without a file path.
var ErrEmptyPath = errors.New("no log file path given")

// Line length bounds. Lines longer than the configured maximum are read
// to their end and skipped.
const (
	readBufferSize     = 64 * 1024
	DefaultMaxLineSize = 1024 * 1024
)

// countingReader counts bytes read from the underlying file. Compressed
// input measures progress with it, so it only ever grows.
type countingReader struct {
	r io.Reader
	n atomic.Int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n.Add(int64(n))
	return n, err
}

// logFile is an open log file positioned at its first line. It is read
// by one goroutine at a time.
type logFile struct {
	path        string
	size        int64 // 0 when the size is unknown
	raw         *countingReader
	compressed  bool
	reader      *bufio.Reader
	maxLineSize int
	closers     []io.Closer

	// lineBytes counts the bytes of every line returned so far,
	// terminators included.
	lineBytes int64

	line    []byte
	tooLong bool
	err     error
}

// openLog opens path for sequential line reading. Files ending in .zst,
// .zstd or .gz are decompressed on the fly; progress is then measured
// against the bytes of the file on disk.
func openLog(path string, maxLineSize int) (*logFile, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	lf := &logFile{
		path:    path,
		raw:     &countingReader{r: f},
		closers: []io.Closer{f},
	}

	// A failed size query leaves size at 0: progress then reads 0% until
	// the run completes.
	if info, err := f.Stat(); err == nil {
		lf.size = info.Size()
	}

	var r io.Reader = lf.raw
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		dec, err := zstd.NewReader(lf.raw)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("opening zstd stream %s: %w", path, err)
		}
		lf.closers = append(lf.closers, zstdCloser{dec})
		lf.compressed = true
		r = dec
	case ".gz":
		gz, err := gzip.NewReader(lf.raw)
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("opening gzip stream %s: %w", path, err)
		}
		lf.closers = append(lf.closers, gz)
		lf.compressed = true
		r = gz
	}

	if maxLineSize <= 0 {
		maxLineSize = DefaultMaxLineSize
	}
	lf.maxLineSize = maxLineSize
	lf.reader = bufio.NewReaderSize(r, min(readBufferSize, maxLineSize+2))

	return lf, nil
}

// Scan advances to the next line and reports whether there is one. A line
// longer than the maximum is consumed whole and returned with TooLong set
// and no text. Scan returns false at end of input or on a read error.
func (lf *logFile) Scan() bool {
	lf.line = lf.line[:0]
	lf.tooLong = false

	var n int64
	for {
		chunk, err := lf.reader.ReadSlice('\n')
		n += int64(len(chunk))
		if !lf.tooLong {
			lf.line = append(lf.line, chunk...)
			// Two bytes of slack for a CRLF terminator.
			if len(lf.line) > lf.maxLineSize+2 {
				lf.tooLong = true
				lf.line = lf.line[:0]
			}
		}

		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if errors.Is(err, io.EOF) && n == 0 {
			return false
		}
		if err != nil && !errors.Is(err, io.EOF) {
			lf.err = err
			return false
		}
		break
	}

	lf.lineBytes += n
	lf.line = dropTerminator(lf.line)
	if len(lf.line) > lf.maxLineSize {
		lf.tooLong = true
		lf.line = lf.line[:0]
	}
	return true
}

// dropTerminator strips a trailing "\n" or "\r\n".
func dropTerminator(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}

// Text returns the current line without its terminator.
func (lf *logFile) Text() string {
	return string(lf.line)
}

// TooLong reports whether the current line exceeded the maximum length.
func (lf *logFile) TooLong() bool {
	return lf.tooLong
}

// Err returns the read error that stopped Scan, if any.
func (lf *logFile) Err() error {
	return lf.err
}

// consumed returns the number of bytes read so far: the bytes of the lines
// returned for plain files, the on-disk bytes for compressed ones.
func (lf *logFile) consumed() int64 {
	if lf.compressed {
		return lf.raw.n.Load()
	}
	return lf.lineBytes
}

// percent returns floor(consumed*100/size), capped at 100. An unknown or
// zero size reads as 0.
func (lf *logFile) percent() int {
	if lf.size <= 0 {
		return 0
	}
	p := lf.consumed() * 100 / lf.size
	if p > 100 {
		p = 100
	}
	return int(p)
}

// Close releases the decompressor and the file, innermost first.
func (lf *logFile) Close() error {
	var firstErr error
	for i := len(lf.closers) - 1; i >= 0; i-- {
		if err := lf.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	lf.closers = nil
	return firstErr
}

// zstdCloser adapts zstd.Decoder, whose Close returns nothing.
type zstdCloser struct {
	dec *zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.dec.Close()
	return nil
}

// Head returns up to n non-blank lines from the start of path, reading
// compressed files the same way a run does.
func Head(path string, n int) ([]string, error) {
	lf, err := openLog(path, DefaultMaxLineSize)
	if err != nil {
		return nil, err
	}
	defer lf.Close()

	var lines []string
	for len(lines) < n && lf.Scan() {
		if lf.TooLong() {
			continue
		}
		line := lf.Text()
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if err := lf.Err(); err != nil {
		return lines, fmt.Errorf("reading %s: %w", path, err)
	}
	return lines, nil
}
