package types

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeTag trims a tag token and puts it in Unicode NFC form so that
// canonically equivalent spellings compare equal.
func NormalizeTag(tag string) string {
	return norm.NFC.String(strings.TrimSpace(tag))
}

// TagList splits the comma-separated Tags field into normalized tokens.
// Empty tokens are dropped; duplicates are kept in their original order.
func (s Skill) TagList() []string {
	if strings.TrimSpace(s.Tags) == "" {
		return nil
	}
	parts := strings.Split(s.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := NormalizeTag(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// HasTag reports whether tag is one of the skill's tokens. Matching is by
// whole token: "go" matches "go, cli" but "g" does not.
func (s Skill) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	if want == "" {
		return false
	}
	for _, t := range s.TagList() {
		if t == want {
			return true
		}
	}
	return false
}
