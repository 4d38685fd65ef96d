package graph

import "regexp"

// Matches the body of a hashtag: everything after '#' up to whitespace
// or '<'. The body may be empty, which ExtractTags discards.
var tagPattern = regexp.MustCompile(`#([^\s<]*)`)

// ExtractTags scans text for #hashtag tokens and returns the unique
// tag names in first-seen order. Names are returned as written;
// normalization is the graph builder's job so raw tags stay usable
// for display.
func ExtractTags(text string) []string {
	matches := tagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tags = append(tags, name)
	}
	return tags
}
