// Package detector guesses which line grammar a log file is written in.
package detector

import (
	"context"
	"sort"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// DefaultSampleSize is the number of non-blank lines sampled from a file.
const DefaultSampleSize = 100

// DetectionResult holds the result of analyzing a log file.
type DetectionResult struct {
	Matches       []FormatMatch // Grammars that decoded at least one line, by confidence descending
	SampledLines  int           // Number of lines sampled
	ParsedLines   int           // Number of lines decoded by the best grammar
	AmbiguityNote string        // Set when the two best grammars tie
}

// FormatMatch represents a grammar that matched with its confidence score.
type FormatMatch struct {
	Format     *GrammarFormat
	Confidence float64       // 0.0 to 1.0 (share of sampled lines decoded)
	MatchCount int           // Number of lines decoded
	SampleLine string        // First decoded line
	Sample     parser.Record // Record decoded from SampleLine
}

// Detector samples log files and decodes the sample with every grammar.
type Detector struct {
	formats    []*GrammarFormat
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 100).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// New creates a new Detector with default formats.
func New(opts ...Option) *Detector {
	d := &Detector{
		formats:    DefaultFormats(),
		sampleSize: DefaultSampleSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples the head of a log file and detects its grammar.
// Compressed files are sampled after decompression.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, err := parser.Head(path, d.sampleSize)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines decodes every line with every grammar. Blank lines are
// expected to be filtered out by the caller.
func (d *Detector) DetectFromLines(lines []string) *DetectionResult {
	result := &DetectionResult{
		SampledLines: len(lines),
	}

	if len(lines) == 0 {
		return result
	}

	for _, format := range d.formats {
		dec := parser.NewDecoder(format.Grammar)
		match := FormatMatch{Format: format}

		for _, line := range lines {
			rec, ok := dec.Decode(line)
			if !ok {
				continue
			}
			if match.MatchCount == 0 {
				match.SampleLine = line
				match.Sample = rec
			}
			match.MatchCount++
		}

		if match.MatchCount == 0 {
			continue
		}
		match.Confidence = float64(match.MatchCount) / float64(len(lines))
		result.Matches = append(result.Matches, match)
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})

	if len(result.Matches) > 0 {
		result.ParsedLines = result.Matches[0].MatchCount
	}

	if len(result.Matches) > 1 && result.Matches[0].Confidence == result.Matches[1].Confidence {
		result.AmbiguityNote = "Several grammars decode the sample equally well. " +
			"The grammar applies to the whole file; pick one with --grammar."
	}

	return result
}

// BestMatch returns the highest confidence match, or nil if none found.
func (r *DetectionResult) BestMatch() *FormatMatch {
	if len(r.Matches) == 0 {
		return nil
	}
	return &r.Matches[0]
}

// HasMatch returns true if at least one grammar matched.
func (r *DetectionResult) HasMatch() bool {
	return len(r.Matches) > 0
}

// Recommended returns the grammar of the best match, falling back to the
// bracket grammar when nothing matched.
func (r *DetectionResult) Recommended() parser.Grammar {
	if best := r.BestMatch(); best != nil {
		return best.Format.Grammar
	}
	return parser.GrammarBracket
}
