package formats

import (
	"sort"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

// Parser turns one grammar's raw text into canonical questions. Parsers are
// total: malformed input yields fewer questions and diagnostics, never an error.
type Parser interface {
	Parse(text string, opts Options) quiz.Result
}

// Options tune a single parse.
type Options struct {
	// Unresolved overrides the grammar's own policy for answer keys that match
	// no option. The zero value keeps the grammar default.
	Unresolved quiz.UnresolvedPolicy
}

// ParserFunc adapts a plain function to Parser.
type ParserFunc func(text string, opts Options) quiz.Result

func (f ParserFunc) Parse(text string, opts Options) quiz.Result { return f(text, opts) }

// Registry of parsers by format kind.
var registry = map[quiz.FormatKind]Parser{}

// Register a grammar parser. Call from init() in subpackages.
func Register(kind quiz.FormatKind, p Parser) { registry[kind] = p }

// Lookup returns the registered parser for a format kind.
func Lookup(kind quiz.FormatKind) (Parser, bool) { p, ok := registry[kind]; return p, ok }

// Kinds lists registered format kinds in name order.
func Kinds() []quiz.FormatKind {
	out := make([]quiz.FormatKind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
