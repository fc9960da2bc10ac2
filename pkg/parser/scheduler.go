package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize is the number of input lines, decoded or not, read
// between two flushes.
const DefaultBatchSize = 5000

// Scheduler streams one file per run, decodes each line and hands decoded
// records to a Sink in batches.
type Scheduler struct {
	decoder     *Decoder
	batchSize   int
	maxLineSize int
	logger      *slog.Logger
}

// Option configures a Scheduler (and the Controller that owns it).
type Option func(*Scheduler)

// WithBatchSize sets the flush threshold in input lines.
func WithBatchSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithMaxLineSize sets the longest line, in bytes, a run accepts.
func WithMaxLineSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxLineSize = n
		}
	}
}

// WithLogger sets the diagnostic sink. Each run logs through a child
// logger carrying its run ID and path. Without this option diagnostics are
// dropped.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScheduler returns a scheduler decoding with decoder.
func NewScheduler(decoder *Decoder, opts ...Option) *Scheduler {
	s := &Scheduler{
		decoder:     decoder,
		batchSize:   DefaultBatchSize,
		maxLineSize: DefaultMaxLineSize,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BatchSize returns the flush threshold in input lines.
func (s *Scheduler) BatchSize() int {
	return s.batchSize
}

// batch is one flush: the records decoded since the previous flush and the
// progress report to emit once they are in the sink.
type batch struct {
	records []Record
	status  Status
}

// runCounts is written by the producer and read after it has been joined.
type runCounts struct {
	lines   int
	matched int
}

// Run streams path into sink until end of file, cancellation of ctx or a
// read failure. Every flush appends to sink and then calls progress; the
// terminal status is reported through progress and returned.
//
// An open failure reports StatusFailed without touching sink. On
// cancellation the partial batch is dropped and StatusCancelled reported.
func (s *Scheduler) Run(ctx context.Context, runID uuid.UUID, path string, sink Sink, progress ProgressFunc) Status {
	if progress == nil {
		progress = func(Status) {}
	}
	log := s.logger.With("run_id", runID.String(), "path", path)

	lf, err := openLog(path, s.maxLineSize)
	if err != nil {
		log.Error("cannot open log file", "error", err)
		st := Status{RunID: runID, Kind: StatusFailed, Err: err}
		progress(st)
		return st
	}
	defer func() {
		if err := lf.Close(); err != nil {
			log.Warn("closing log file", "error", err)
		}
	}()

	log.Info("parse started", "bytes", lf.size, "grammar", s.decoder.Grammar().String(), "batch_size", s.batchSize)

	var counts runCounts
	batches := make(chan batch)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(batches)
		return s.produce(gctx, runID, lf, batches, &counts, log)
	})

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("sink panicked: %v", r)
			}
		}()
		for b := range batches {
			sink.Append(b.records)
			progress(b.status)
			// Let the consumer of progress reports catch up.
			runtime.Gosched()
		}
		return nil
	})

	err = g.Wait()

	st := Status{RunID: runID, Lines: counts.lines, Matched: counts.matched}
	switch {
	case err == nil:
		st.Kind = StatusCompleted
		st.Percent = 100
		log.Info("parse finished", "lines", counts.lines, "matched", counts.matched)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		st.Kind = StatusCancelled
		st.Percent = lf.percent()
		log.Info("parse cancelled", "lines", counts.lines, "matched", counts.matched)
	default:
		st.Kind = StatusFailed
		st.Percent = lf.percent()
		st.Err = err
		log.Error("parse failed", "lines", counts.lines, "matched", counts.matched, "error", err)
	}

	progress(st)
	return st
}

// produce reads lines and sends full batches on out. It returns ctx.Err()
// when cancelled and a wrapped read error when the file cannot be read to
// the end.
func (s *Scheduler) produce(ctx context.Context, runID uuid.UUID, lf *logFile, out chan<- batch, counts *runCounts, log *slog.Logger) error {
	records := make([]Record, 0, s.batchSize)
	pending := 0

	flush := func() error {
		// Cancellation wins over a consumer that happens to be ready.
		if err := ctx.Err(); err != nil {
			return err
		}
		b := batch{
			records: records,
			status: Status{
				RunID:   runID,
				Kind:    StatusProgress,
				Percent: lf.percent(),
				Lines:   counts.lines,
				Matched: counts.matched,
			},
		}
		select {
		case out <- b:
		case <-ctx.Done():
			return ctx.Err()
		}
		log.Debug("batch flushed", "records", len(records), "lines", counts.lines, "percent", b.status.Percent)
		records = make([]Record, 0, s.batchSize)
		pending = 0
		return nil
	}

	for lf.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		counts.lines++
		pending++
		if lf.TooLong() {
			log.Warn("skipping line over the size limit", "line", counts.lines, "max_line_size", s.maxLineSize)
		} else if rec, ok := s.decoder.Decode(lf.Text()); ok {
			records = append(records, rec)
			counts.matched++
		}
		if pending >= s.batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := lf.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", lf.path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if pending > 0 {
		return flush()
	}
	return nil
}

// ParseAll decodes the whole file on the calling goroutine and returns the
// records in file order. There is no batching, no progress and no
// cancellation.
func (s *Scheduler) ParseAll(path string) ([]Record, error) {
	records, st := s.ParseAllStatus(path)
	return records, st.Err
}

// ParseAllStatus is ParseAll that also returns the terminal status of the
// parse: Completed with the line and record counts, or Failed. On a read
// failure the records decoded before it are returned.
func (s *Scheduler) ParseAllStatus(path string) ([]Record, Status) {
	lf, err := openLog(path, s.maxLineSize)
	if err != nil {
		return nil, Status{Kind: StatusFailed, Err: err}
	}
	defer lf.Close()

	var records []Record
	lines := 0
	for lf.Scan() {
		lines++
		if lf.TooLong() {
			continue
		}
		if rec, ok := s.decoder.Decode(lf.Text()); ok {
			records = append(records, rec)
		}
	}

	st := Status{Kind: StatusCompleted, Percent: 100, Lines: lines, Matched: len(records)}
	if err := lf.Err(); err != nil {
		st.Kind = StatusFailed
		st.Percent = lf.percent()
		st.Err = fmt.Errorf("reading %s: %w", path, err)
	}
	return records, st
}
