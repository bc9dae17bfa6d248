// Package splitter breaks a reply into transport-sized segments. Telegram
// caps messages at 4096 characters; long completions are delivered as an
// ordered sequence whose concatenation reproduces the original text exactly.
package splitter

import (
	"strings"
	"unicode/utf8"
)

// sentenceEnders are tried, in order, when no paragraph or line boundary
// fits inside the limit.
var sentenceEnders = []string{". ", "! ", "? "}

// Split cuts text into segments of at most maxLen bytes. Break preference:
// paragraph boundary, line boundary, sentence boundary, then a hard cut on a
// rune boundary. No characters are added or removed: joining the segments
// yields the input byte for byte. Empty input produces a single empty
// segment. A non-positive maxLen returns the input unsplit; a maxLen smaller
// than one rune yields single-rune segments.
func Split(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var segments []string
	rest := text
	for len(rest) > maxLen {
		cut := findCut(rest, maxLen)
		segments = append(segments, rest[:cut])
		rest = rest[cut:]
	}
	segments = append(segments, rest)
	return segments
}

// findCut returns a cut position in (0, maxLen] for rest, preferring natural
// boundaries. The separator stays with the leading segment so nothing is
// dropped at the seam.
func findCut(rest string, maxLen int) int {
	window := rest[:maxLen]

	if i := strings.LastIndex(window, "\n\n"); i > 0 {
		return i + 2
	}
	if i := strings.LastIndexByte(window, '\n'); i > 0 {
		return i + 1
	}
	for _, ender := range sentenceEnders {
		if i := strings.LastIndex(window, ender); i > 0 {
			return i + len(ender)
		}
	}

	// Hard cut: back off to the nearest rune start so a multi-byte
	// character is never torn apart.
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(rest[cut]) {
		cut--
	}
	if cut == 0 {
		// Bound smaller than the leading rune: emit the whole rune
		// rather than tear it.
		_, size := utf8.DecodeRuneInString(rest)
		if size == 0 {
			return maxLen
		}
		return size
	}
	return cut
}
