// Package slugs provides handle and list-value normalization shared by the
// record mapper, catalog builder, and packager.
package slugs

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ListDelimiter separates values inside multi-valued table cells.
const ListDelimiter = "|"

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify lowercases the input, folds diacritics, and collapses every run of
// non-alphanumeric characters into a single hyphen. Returns "" when nothing
// usable remains.
func Slugify(value string) string {
	folded, _, err := transform.String(foldTransformer, value)
	if err != nil {
		folded = value
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// HandleToTitle turns a hyphenated handle into a display title, capitalizing
// the first letter of each word.
func HandleToTitle(handle string) string {
	words := strings.Split(strings.TrimSpace(handle), "-")
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		chars := []rune(word)
		chars[0] = unicode.ToUpper(chars[0])
		parts = append(parts, string(chars))
	}
	return strings.Join(parts, " ")
}

// SplitList splits a delimited cell into trimmed non-empty values.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ListDelimiter)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitAligned splits a cell that is positionally aligned with a sibling
// list, keeping interior empty values so indexes stay matched. Trailing
// empties are dropped; an all-empty cell splits to nil.
func SplitAligned(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ListDelimiter)
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	end := len(parts)
	for end > 0 && parts[end-1] == "" {
		end--
	}
	if end == 0 {
		return nil
	}
	return parts[:end]
}

// JoinAligned renders a positionally aligned list back into cell form,
// keeping interior empty values and dropping trailing ones.
func JoinAligned(values []string) string {
	trimmed := make([]string, len(values))
	for i, value := range values {
		trimmed[i] = strings.TrimSpace(value)
	}
	end := len(trimmed)
	for end > 0 && trimmed[end-1] == "" {
		end--
	}
	return strings.Join(trimmed[:end], ListDelimiter)
}

// JoinList renders values back into delimited cell form, dropping empties.
func JoinList(values []string) string {
	parts := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ListDelimiter)
}
