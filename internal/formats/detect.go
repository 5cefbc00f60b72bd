package formats

import (
	"path/filepath"
	"strings"

	"github.com/mind-engage/quizdoc/internal/quiz"
)

// Detect picks a grammar for raw text. Separator glyphs plus an "Answer:"
// token mean the CMPE grammar; otherwise a markdown filename means the
// sectioned grammar, and anything else is plain text. It never fails.
func Detect(text, filename string) quiz.FormatKind {
	if strings.Contains(text, "Answer:") && HasSeparator(text) {
		return quiz.FormatSeparatorDelimited
	}
	if IsMarkdownName(filename) {
		return quiz.FormatSectioned
	}
	return quiz.FormatPlainText
}

func IsMarkdownName(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}
