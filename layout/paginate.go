package layout

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sentence is one sentence of a passage body. para marks the first sentence
// of a paragraph other than the first.
type sentence struct {
	text string
	para bool
}

// Paginate splits body into chunks on sentence boundaries. Sentences are
// added to a chunk while its length in runes stays within budget; the first
// chunk uses firstBudget. A sentence longer than the budget gets a chunk of
// its own. Paragraph breaks inside a chunk are kept.
func Paginate(body string, firstBudget, budget int) []string {
	var sentences []sentence
	for i, p := range strings.Split(body, "\n") {
		for j, s := range splitSentences(p) {
			sentences = append(sentences, sentence{text: s, para: i > 0 && j == 0})
		}
	}
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var cur strings.Builder
	length := 0
	limit := firstBudget
	for _, s := range sentences {
		sep := " "
		if s.para {
			sep = "\n"
		}
		n := utf8.RuneCountInString(s.text)
		if length > 0 && length+len(sep)+n > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
			length = 0
			limit = budget
		}
		if length > 0 {
			cur.WriteString(sep)
			length += len(sep)
		}
		cur.WriteString(s.text)
		length += n
	}
	return append(chunks, cur.String())
}

// splitSentences splits text at sentence-ending punctuation followed by
// whitespace and a capital letter or quote, skipping abbreviations, initials
// and decimals.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		current.WriteRune(r)

		if r == '.' || r == '!' || r == '?' {
			if isSentenceEnd(runes, i) {
				if s := strings.TrimSpace(current.String()); s != "" {
					sentences = append(sentences, s)
				}
				current.Reset()
				for i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
					i++
				}
			}
		}
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// isSentenceEnd checks if the punctuation at position i ends a sentence.
func isSentenceEnd(runes []rune, i int) bool {
	r := runes[i]
	if r == '.' && i > 0 {
		// Single capital letter before the period, like an initial.
		if unicode.IsUpper(runes[i-1]) && (i < 2 || !unicode.IsLetter(runes[i-2])) {
			return false
		}
		if isAbbreviation(runes, i) {
			return false
		}
		if unicode.IsDigit(runes[i-1]) && i+1 < len(runes) && unicode.IsDigit(runes[i+1]) {
			return false
		}
	}

	if i+1 >= len(runes) {
		return true
	}

	if i+2 < len(runes) && unicode.IsSpace(runes[i+1]) {
		next := runes[i+2]
		if unicode.IsUpper(next) || unicode.IsDigit(next) || next == '"' || next == '\'' || next == '“' {
			return true
		}
	}
	return false
}

var abbreviations = map[string]bool{
	"mr.": true, "mrs.": true, "ms.": true, "dr.": true, "prof.": true,
	"sr.": true, "jr.": true, "vs.": true, "etc.": true, "e.g.": true, "i.e.": true,
	"inc.": true, "ltd.": true, "co.": true, "corp.": true,
	"st.": true, "no.": true, "vol.": true, "pp.": true,
}

// isAbbreviation checks if the period at i ends a known abbreviation.
func isAbbreviation(runes []rune, i int) bool {
	start := i
	for start > 0 && (unicode.IsLetter(runes[start-1]) || runes[start-1] == '.') {
		start--
	}
	if start >= i {
		return false
	}
	return abbreviations[strings.ToLower(string(runes[start:i+1]))]
}
