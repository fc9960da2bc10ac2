package detector

import "github.com/ccollicutt/hxlog/pkg/parser"

// GrammarFormat describes a line grammar the detector tries.
type GrammarFormat struct {
	Grammar     parser.Grammar
	Name        string // Name accepted by --grammar
	Description string
	Example     string
}

// DefaultFormats returns the grammars to detect in declaration order. Ties
// in confidence are broken by this order.
func DefaultFormats() []*GrammarFormat {
	return []*GrammarFormat{
		{
			Grammar:     parser.GrammarBracket,
			Name:        parser.GrammarBracket.String(),
			Description: "[timestamp][LEVEL]: message | file -> function(): line",
			Example:     "[15:21:49.123][  INFO]: Engine initialized | Engine.cpp -> init(): 42",
		},
		{
			Grammar:     parser.GrammarSeparator,
			Name:        parser.GrammarSeparator.String(),
			Description: "timestamp, level, message and source joined by the 0x1F unit separator",
			Example:     "15:21:49.123\x1fINFO\x1fEngine initialized\x1fEngine.cpp -> init(): 42",
		},
	}
}
