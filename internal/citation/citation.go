// Package citation extracts inline source markers from generated speeches.
package citation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ssmithers/aidebate/internal/core"
)

// Supported marker forms: [Source: NASA] and (Source: Wikipedia).
var (
	bracketPattern = regexp.MustCompile(`\[Source:\s*([^\]]+)\]`)
	parenPattern   = regexp.MustCompile(`\(Source:\s*([^\)]+)\)`)
)

// Extract pulls citation markers out of text and replaces each with a
// superscript reference. Bracketed markers are resolved before parenthesized
// ones, each family in textual order, with 1-based sequence numbers.
// Malformed markers are left untouched. Text without markers comes back
// unchanged with an empty citation list.
func Extract(text string) (string, []core.Citation) {
	var citations []core.Citation
	next := 1

	replace := func(pattern *regexp.Regexp, input string) string {
		return pattern.ReplaceAllStringFunc(input, func(match string) string {
			groups := pattern.FindStringSubmatch(match)
			source := strings.TrimSpace(groups[1])
			citations = append(citations, core.Citation{ID: next, Text: source})
			ref := fmt.Sprintf("<sup>[%d]</sup>", next)
			next++
			return ref
		})
	}

	cleaned := replace(bracketPattern, text)
	cleaned = replace(parenPattern, cleaned)

	return cleaned, citations
}
