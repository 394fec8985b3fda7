// Package slug derives anchor ids from heading text.
package slug

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxLength is the maximum length of a generated id.
const MaxLength = 50

// scriptRanges lists the non-Latin code point ranges that are transliterated
// to u<hex> tokens instead of being stripped.
var scriptRanges = []struct{ lo, hi rune }{
	{0x4E00, 0x9FA5}, // CJK unified ideographs
	{0x3040, 0x30FF}, // hiragana, katakana
	{0xAC00, 0xD7A3}, // hangul syllables
}

func inScript(r rune) bool {
	for _, sr := range scriptRanges {
		if r >= sr.lo && r <= sr.hi {
			return true
		}
	}
	return false
}

// isWord matches the ASCII word class [A-Za-z0-9_].
func isWord(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// Generate returns an anchor id for the given heading text. The result is
// deterministic unless the text reduces to nothing, in which case a random
// "heading-" id is returned.
func Generate(text string) string {
	var id string
	if strings.IndexFunc(text, inScript) >= 0 {
		id = transliterate(text)
	} else {
		id = latin(text)
	}
	id = collapseHyphens(id)

	if id == "" {
		id = "heading-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	}
	if len(id) > MaxLength {
		id = id[:MaxLength]
	}
	return id
}

// transliterate keeps word characters, whitespace and hyphens, turns script
// runes into u<hex> tokens and everything else into hyphens.
func transliterate(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch {
		case inScript(r):
			fmt.Fprintf(&b, "u%x", r)
		case isWord(r), unicode.IsSpace(r), r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return spacesToHyphens(b.String())
}

func latin(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		if isWord(r) || unicode.IsSpace(r) || r == '-' {
			b.WriteRune(r)
		}
	}
	return spacesToHyphens(b.String())
}

// spacesToHyphens replaces every run of whitespace with a single hyphen.
func spacesToHyphens(s string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

func collapseHyphens(s string) string {
	var b strings.Builder
	prev := false
	for _, r := range s {
		if r == '-' {
			if prev {
				continue
			}
			prev = true
		} else {
			prev = false
		}
		b.WriteRune(r)
	}
	return strings.Trim(b.String(), "-")
}
