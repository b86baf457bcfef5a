package tags

import (
	"strings"
	"unicode"
)

// Extract returns all #word tokens in text as lowercase tag strings,
// deduplicated, in order of first appearance. Extracting from already
// extracted tags yields the same set, so creation paths can run it over
// title and body plus any user-entered tags without double-tagging.
func Extract(text string) []string {
	var out []string
	seen := make(map[string]bool)

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '#' {
			continue
		}
		j := i + 1
		for j < len(runes) && isTagRune(runes[j]) {
			j++
		}
		if j == i+1 {
			continue
		}
		tag := strings.ToLower(string(runes[i+1 : j]))
		if !seen[tag] {
			seen[tag] = true
			out = append(out, tag)
		}
		i = j - 1
	}
	return out
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// Merge combines explicit tags with tags extracted from the given texts.
// Explicit tags are lowercased and kept first; duplicates collapse.
func Merge(explicit []string, texts ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, t := range explicit {
		t = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(t, "#")))
		if t != "" && !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, text := range texts {
		for _, t := range Extract(text) {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// Join flattens a tag set into the comma-joined column representation.
func Join(tags []string) string {
	return strings.Join(tags, ",")
}

// Split is the inverse of Join. Empty input yields an empty slice, never nil,
// so JSON responses render [] instead of null.
func Split(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}
