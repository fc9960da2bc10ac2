package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Grammar selects the line encoding a Decoder accepts. A deployment picks
// one grammar; lines are never auto-detected individually.
type Grammar int

const (
	// GrammarBracket decodes
	//   [<timestamp>][<LEVEL>]: <message> | <file> -> <function>(): <line>
	GrammarBracket Grammar = iota

	// GrammarSeparator decodes
	//   <timestamp><FS><LEVEL><FS><message><FS><file> -> <function>(): <line>
	// where FS is FieldSeparator.
	GrammarSeparator
)

// FieldSeparator is the ASCII unit separator used by GrammarSeparator.
const FieldSeparator = "\x1f"

// minSeparatorFields is timestamp, level, message and source info.
const minSeparatorFields = 4

// ParseGrammar resolves a grammar name. Accepted names are "bracket" and
// "separator" and their short forms "a" and "b".
func ParseGrammar(name string) (Grammar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bracket", "a":
		return GrammarBracket, nil
	case "separator", "b":
		return GrammarSeparator, nil
	default:
		return 0, fmt.Errorf("unknown grammar %q (must be bracket or separator)", name)
	}
}

// String returns the grammar name accepted by ParseGrammar.
func (g Grammar) String() string {
	switch g {
	case GrammarBracket:
		return "bracket"
	case GrammarSeparator:
		return "separator"
	default:
		return fmt.Sprintf("Grammar(%d)", int(g))
	}
}

// MarshalText encodes the grammar name.
func (g Grammar) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText decodes a grammar name.
func (g *Grammar) UnmarshalText(text []byte) error {
	parsed, err := ParseGrammar(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

var (
	// bracketLine splits a bracket line at its final '|'.
	bracketLine = regexp.MustCompile(`^\[([^\]]+)\]\[\s*([A-Z]+)\s*\](?:[>:]|\s)*(.*)\|([^|]*)$`)

	// sourceInfo matches "<file> -> <function>(): <number>".
	sourceInfo = regexp.MustCompile(`^\s*(.*?)\s*->\s*(.*)\(\):\s*(\d+)\s*$`)
)

// Decoder turns raw lines into records under a single grammar.
// A Decoder holds no mutable state and is safe for concurrent use.
type Decoder struct {
	grammar Grammar
}

// NewDecoder returns a decoder for the given grammar.
func NewDecoder(grammar Grammar) *Decoder {
	return &Decoder{grammar: grammar}
}

// Grammar returns the grammar the decoder was built with.
func (d *Decoder) Grammar() Grammar {
	return d.grammar
}

// Decode parses one line. ok is false when the line does not have the
// shape of the decoder's grammar; such lines are meant to be skipped.
// Decode never panics on malformed input.
func (d *Decoder) Decode(line string) (rec Record, ok bool) {
	switch d.grammar {
	case GrammarBracket:
		return decodeBracket(line)
	case GrammarSeparator:
		return decodeSeparator(line)
	default:
		return Record{}, false
	}
}

func decodeBracket(line string) (Record, bool) {
	m := bracketLine.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	segment := strings.TrimSpace(m[4])
	file, function, lineNum, matched := splitSourceInfo(segment)
	if !matched {
		return Record{}, false
	}

	level, _ := ParseLevel(m[2])
	return Record{
		Timestamp:      m[1],
		Level:          level,
		Message:        strings.TrimSpace(m[3]),
		SourceFile:     file,
		SourceFunction: function,
		SourceLine:     lineNum,
	}, true
}

func decodeSeparator(line string) (Record, bool) {
	fields := strings.Split(line, FieldSeparator)
	// A trailing separator does not open an empty final field.
	if n := len(fields); n > 1 && fields[n-1] == "" {
		fields = fields[:n-1]
	}
	if len(fields) < minSeparatorFields {
		return Record{}, false
	}

	file, function, lineNum, matched := splitSourceInfo(fields[3])
	if !matched {
		file, function, lineNum = fields[3], UnknownFunction, 0
	}

	level, _ := ParseLevel(strings.Trim(fields[1], " \t"))
	return Record{
		Timestamp:      fields[0],
		Level:          level,
		Message:        fields[2],
		SourceFile:     file,
		SourceFunction: function,
		SourceLine:     lineNum,
	}, true
}

// splitSourceInfo decodes "<file> -> <function>(): <number>". matched is
// false when the text does not have that shape. A number too large for an
// int is treated like a shape mismatch of the source info alone: the
// segment becomes the file, the function is unknown and the line is 0.
func splitSourceInfo(s string) (file, function string, line int, matched bool) {
	m := sourceInfo.FindStringSubmatch(s)
	if m == nil {
		return "", "", 0, false
	}
	n, err := strconv.Atoi(m[3])
	if err != nil {
		return s, UnknownFunction, 0, true
	}
	return m[1], m[2], n, true
}
