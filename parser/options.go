package parser

import (
	"regexp"
	"strings"
)

// inlineOption finds "(N)" markers, optionally backslash-escaped as some
// markdown exports write them.
var inlineOption = regexp.MustCompile(`\\?\((\d+)\\?\)`)

// cleanOption removes markdown escapes and bold markers from an option line.
func cleanOption(line string) string {
	line = strings.ReplaceAll(line, `\(`, "(")
	line = strings.ReplaceAll(line, `\)`, ")")
	line = strings.ReplaceAll(line, "**", "")
	return strings.Join(strings.Fields(line), " ")
}

// splitInline splits text holding one or more "(N) option" runs. head is the
// text before the first marker; options are formatted "(N) text".
func splitInline(text string) (head string, options []string) {
	locs := inlineOption.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return text, nil
	}
	head = strings.TrimSpace(text[:locs[0][0]])
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		num := text[loc[2]:loc[3]]
		body := strings.TrimSpace(text[loc[1]:end])
		options = append(options, cleanOption("("+num+") "+body))
	}
	return head, options
}

// Option markers used by passage question blocks: 1. 1) (1) A) (A) and roman
// numerals in the same three forms.
const optionMarker = `\d+\.|\d+\)|\(\d+\)|[A-Z]\)|\([A-Z]\)|[IVXLCDM]+\.|\([IVXLCDM]+\)|[IVXLCDM]+\)`

var (
	markerTabs      = regexp.MustCompile(`(` + optionMarker + `)\t+`)
	partSeparator   = regexp.MustCompile(`[\n\t]+`)
	leadingMarker   = regexp.MustCompile(`^(?:` + optionMarker + `)\s`)
	leadingQuestion = regexp.MustCompile(`^\d{1,2}\.\s*`)
)

// splitOptionList breaks a tab- or newline-laid-out question into its
// parts. A tab directly after an option marker is kept as a single space so
// the marker stays with its text.
func splitOptionList(text string) []string {
	if !strings.ContainsAny(text, "\t\n") {
		if s := strings.TrimSpace(text); s != "" {
			return []string{s}
		}
		return nil
	}
	text = markerTabs.ReplaceAllString(text, "$1 ")
	var parts []string
	for _, part := range partSeparator.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

// splitPassageQuestion turns the raw text of one passage question into its
// body and options.
func splitPassageQuestion(text string) (body string, options []string) {
	parts := splitOptionList(text)
	if len(parts) == 0 {
		return "", nil
	}
	body = leadingQuestion.ReplaceAllString(parts[0], "")
	for _, part := range parts[1:] {
		switch {
		case leadingMarker.MatchString(part):
			options = append(options, part)
		case len(options) == 0:
			body += "\n" + part
		default:
			options[len(options)-1] += " " + part
		}
	}
	return body, options
}
