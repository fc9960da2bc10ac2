// Package parser decodes HelixDebug-style log files into typed records.
//
// Files are streamed line by line by a background run supervised by a
// Controller; decoded records are appended in file order to a caller-owned
// Store while a display may read it concurrently.
package parser

import "fmt"

// Level is the severity of a record.
type Level int

// Levels in declaration order. Unknown tokens resolve to LevelDebug.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelHeader
	LevelFooter
)

// Levels lists every level in declaration order.
var Levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelHeader, LevelFooter}

var levelTokens = map[string]Level{
	"DEBUG":  LevelDebug,
	"INFO":   LevelInfo,
	"WARN":   LevelWarn,
	"ERROR":  LevelError,
	"HEADER": LevelHeader,
	"FOOTER": LevelFooter,
}

// ParseLevel maps a level token to a Level. The match is case-sensitive
// and exact; ok is false for unknown tokens, which map to LevelDebug.
func ParseLevel(token string) (level Level, ok bool) {
	level, ok = levelTokens[token]
	if !ok {
		return LevelDebug, false
	}
	return level, true
}

// String returns the level token as it appears in log files.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelHeader:
		return "HEADER"
	case LevelFooter:
		return "FOOTER"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Label returns the token right-aligned to six columns, the width used by
// the HelixDebug writer.
func (l Level) Label() string {
	return fmt.Sprintf("%6s", l.String())
}

// MarshalText encodes the level as its token.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText decodes a level token. Unknown tokens are rejected here,
// unlike ParseLevel, because text input comes from configuration.
func (l *Level) UnmarshalText(text []byte) error {
	level, ok := ParseLevel(string(text))
	if !ok {
		return fmt.Errorf("unknown level %q", string(text))
	}
	*l = level
	return nil
}

// UnknownFunction is the source function of a record whose source
// information could not be decoded.
const UnknownFunction = "unknown"

// Record is one decoded log event. Records are values and are never
// modified after decoding.
type Record struct {
	// Timestamp is the timestamp text exactly as written.
	Timestamp string `json:"timestamp"`

	Level   Level  `json:"level"`
	Message string `json:"message"`

	SourceFile     string `json:"source_file"`
	SourceFunction string `json:"source_function"`

	// SourceLine is the source line number; 0 means unknown.
	SourceLine int `json:"source_line"`
}

// SourceLocation formats the record origin as file:line.
func (r Record) SourceLocation() string {
	return fmt.Sprintf("%s:%d", r.SourceFile, r.SourceLine)
}
