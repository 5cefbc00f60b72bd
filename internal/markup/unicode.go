package markup

import (
	"strings"
	"unicode/utf8"
)

// unicodeLaTeX maps symbols pasted from word processors to LaTeX commands.
var unicodeLaTeX = map[rune]string{
	'α': `\alpha`, 'β': `\beta`, 'γ': `\gamma`, 'δ': `\delta`, 'ε': `\epsilon`,
	'θ': `\theta`, 'λ': `\lambda`, 'μ': `\mu`, 'π': `\pi`, 'ρ': `\rho`,
	'σ': `\sigma`, 'τ': `\tau`, 'φ': `\phi`, 'χ': `\chi`, 'ψ': `\psi`, 'ω': `\omega`,
	'≤': `\leq`, '≥': `\geq`, '≠': `\neq`, '≈': `\approx`,
	'∈': `\in`, '∉': `\notin`, '∪': `\cup`, '∩': `\cap`, '⊆': `\subseteq`, '⊇': `\supseteq`,
	'∅': `\emptyset`, '∇': `\nabla`, '∂': `\partial`, '∫': `\int`, '∑': `\sum`, '∏': `\prod`,
	'√': `\sqrt`, '±': `\pm`, '×': `\times`, '÷': `\div`, '∞': `\infty`, '°': `^\circ`,
	'ᵢ': `_i`, 'ⱼ': `_j`, 'ₙ': `_n`,
	'₀': `_0`, '₁': `_1`, '₂': `_2`, '₃': `_3`, '₄': `_4`,
	'₅': `_5`, '₆': `_6`, '₇': `_7`, '₈': `_8`, '₉': `_9`,
}

// UnicodeToLaTeX replaces the symbols in unicodeLaTeX with LaTeX. Inside a
// \(...\) or $$...$$ span the bare command is written; elsewhere it is
// wrapped as \(cmd\). Text without any mapped symbol is returned unchanged.
func UnicodeToLaTeX(s string) string {
	if !strings.ContainsFunc(s, func(r rune) bool { _, ok := unicodeLaTeX[r]; return ok }) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 16)
	inParen, inBlock := false, false
	for i := 0; i < len(s); {
		switch {
		case strings.HasPrefix(s[i:], `\(`) && !inBlock:
			inParen = true
			b.WriteString(`\(`)
			i += 2
			continue
		case strings.HasPrefix(s[i:], `\)`) && !inBlock:
			inParen = false
			b.WriteString(`\)`)
			i += 2
			continue
		case strings.HasPrefix(s[i:], "$$") && !inParen:
			inBlock = !inBlock
			b.WriteString("$$")
			i += 2
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		cmd, ok := unicodeLaTeX[r]
		switch {
		case !ok:
			b.WriteRune(r)
		case inParen || inBlock:
			b.WriteString(cmd)
			// Keep "\pi r" from reading as "\pir".
			if next, _ := utf8.DecodeRuneInString(s[i:]); isASCIILetter(next) && isASCIILetter(rune(cmd[len(cmd)-1])) {
				b.WriteByte(' ')
			}
		default:
			b.WriteString(`\(` + cmd + `\)`)
		}
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
