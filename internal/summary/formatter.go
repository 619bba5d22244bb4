// Package summary turns article text into a short, sentence-limited summary.
package summary

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// DefaultSentences is used when the caller asks for fewer than one sentence.
const DefaultSentences = 3

// Words that end with a period without ending the sentence.
var abbreviations = map[string]bool{
	"mr": true, "mrs": true, "ms": true, "dr": true, "prof": true, "sr": true, "jr": true,
	"st": true, "mt": true, "vs": true, "etc": true, "e.g": true, "i.e": true,
	"vol": true, "ca": true, "c": true, "approx": true, "inc": true, "ltd": true,
}

var (
	emptyParens   = regexp.MustCompile(`\(\s*[;,]*\s*\)`)
	leadingSep    = regexp.MustCompile(`\(\s*[;,]\s*`)
	spaceBeforeP  = regexp.MustCompile(`\s+([,.;:!?)])`)
	spaceAfterOpn = regexp.MustCompile(`\(\s+`)
)

// Clean flattens newlines, drops empty parentheses left behind by stripped
// pronunciations, and normalises spacing around punctuation.
func Clean(text string) string {
	s := strings.Join(strings.Fields(text), " ")
	s = emptyParens.ReplaceAllString(s, "")
	s = leadingSep.ReplaceAllString(s, "(")
	s = spaceAfterOpn.ReplaceAllString(s, "(")
	s = strings.Join(strings.Fields(s), " ")
	s = spaceBeforeP.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}

// Sentences splits text on terminal punctuation followed by whitespace.
// Initials and a few common abbreviations do not end a sentence.
func Sentences(text string) []string {
	text = Clean(text)
	if text == "" {
		return nil
	}

	var sentences []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		next := i + size

		if !isTerminal(r) {
			i = next
			continue
		}

		// absorb runs like "?!" or "..." and closing quotes/brackets
		end := next
		for end < len(text) {
			r2, s2 := utf8.DecodeRuneInString(text[end:])
			if isTerminal(r2) || isCloser(r2) {
				end += s2
				continue
			}
			break
		}

		if end >= len(text) {
			break
		}
		r3, _ := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(r3) || (r == '.' && isAbbreviation(text[start:i])) {
			i = end
			continue
		}

		sentences = append(sentences, strings.TrimSpace(text[start:end]))
		start = end
		i = end
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// Format returns the first n sentences of text joined with a single space.
// Texts with fewer sentences are returned whole.
func Format(text string, n int) string {
	if n < 1 {
		n = DefaultSentences
	}
	sentences := Sentences(text)
	if len(sentences) > n {
		sentences = sentences[:n]
	}
	return strings.Join(sentences, " ")
}

// Wrap breaks text into lines no wider than width display columns.
// A width of zero or less disables wrapping.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var b strings.Builder
	lineWidth := 0
	for _, word := range strings.Fields(text) {
		w := runewidth.StringWidth(word)
		if lineWidth > 0 && lineWidth+1+w > width {
			b.WriteByte('\n')
			lineWidth = 0
		} else if lineWidth > 0 {
			b.WriteByte(' ')
			lineWidth++
		}
		b.WriteString(word)
		lineWidth += w
	}
	return b.String()
}

func isTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == '…'
}

func isCloser(r rune) bool {
	return r == '"' || r == '\'' || r == ')' || r == ']' || r == '”' || r == '’'
}

// isAbbreviation reports whether the text before a period ends in an initial
// ("J.", "U.S.") or a known abbreviation.
func isAbbreviation(before string) bool {
	idx := strings.LastIndexFunc(before, unicode.IsSpace)
	word := strings.TrimLeft(before[idx+1:], "(\"'")
	if word == "" {
		return false
	}

	first, _ := utf8.DecodeRuneInString(word)
	if utf8.RuneCountInString(word) == 1 && unicode.IsUpper(first) {
		return true
	}
	if letters := strings.ReplaceAll(word, ".", ""); letters != word && utf8.RuneCountInString(letters) <= 3 &&
		strings.IndexFunc(letters, func(r rune) bool { return !unicode.IsLetter(r) }) < 0 {
		// dotted acronyms such as U.S or Ph.D
		return true
	}
	return abbreviations[strings.ToLower(word)]
}
