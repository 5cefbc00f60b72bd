// Package pipeline turns a raw quiz document into formatted canonical
// questions: detect the grammar, parse it, then normalise inline markup.
package pipeline

import (
	"github.com/mind-engage/quizdoc/internal/formats"
	_ "github.com/mind-engage/quizdoc/internal/formats/cmpe"
	_ "github.com/mind-engage/quizdoc/internal/formats/plaintext"
	_ "github.com/mind-engage/quizdoc/internal/formats/sectioned"
	"github.com/mind-engage/quizdoc/internal/logger"
	"github.com/mind-engage/quizdoc/internal/markup"
	"github.com/mind-engage/quizdoc/internal/quiz"
)

type Options struct {
	// Format forces a grammar; zero means detect from text and filename.
	Format quiz.FormatKind
	// BlockMath emits $$...$$ instead of \(...\).
	BlockMath bool
	// BracketMath rewrites [expr] to math before the dollar pass.
	BracketMath bool
	// UnresolvedKey overrides each grammar's policy for unmatched answer keys.
	UnresolvedKey quiz.UnresolvedPolicy
	// Logger may be nil.
	Logger *logger.Logger
}

// Parse runs the whole pipeline. It never fails: an unknown forced format
// falls back to detection, and degraded questions show up as diagnostics.
func Parse(text, filename string, opts Options) quiz.Result {
	log := opts.Logger.With("filename", filename)

	kind := opts.Format
	p, ok := formats.Lookup(kind)
	if !ok {
		if kind != "" {
			log.Warn("unknown format requested, detecting instead", "format", kind)
		}
		kind = formats.Detect(text, filename)
		p, _ = formats.Lookup(kind)
	}

	res := p.Parse(text, formats.Options{Unresolved: opts.UnresolvedKey})
	res.Format = kind
	res.Questions = markup.Formatter{BlockMath: opts.BlockMath, BracketMath: opts.BracketMath}.Questions(res.Questions)
	if res.Sections == nil {
		res.Sections = quiz.SectionMetadata{}
	}

	for _, d := range res.Diagnostics {
		log.Debug("degraded question", "code", d.Code, "line", d.Line, "index", d.Index, "detail", d.Message)
	}
	log.Info("document parsed",
		"format", kind,
		"questions", len(res.Questions),
		"diagnostics", len(res.Diagnostics),
	)
	return res
}

// Document parses a quiz.Document, honouring its Format when set.
func Document(doc quiz.Document, opts Options) quiz.Result {
	if doc.Format != "" && opts.Format == "" {
		opts.Format = doc.Format
	}
	return Parse(doc.Text, doc.Filename, opts)
}
