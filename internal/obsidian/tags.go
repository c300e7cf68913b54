package obsidian

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// anything Obsidian does not accept inside a tag; "/" nests tags
	invalidTagCharRe = regexp.MustCompile(`[^\p{L}\p{N}/_-]+`)
	hyphenRunRe      = regexp.MustCompile(`-{2,}`)
)

// NormalizeTag turns free text into an Obsidian tag.
// Case is preserved, a leading # is dropped, "&" becomes "and", whitespace
// becomes hyphens and other punctuation is removed. Returns "" when nothing
// usable remains.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimPrefix(tag, "#")
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return ""
	}

	tag = strings.ReplaceAll(tag, "&", " and ")
	tag = whitespaceRe.ReplaceAllString(strings.TrimSpace(tag), "-")
	tag = invalidTagCharRe.ReplaceAllString(tag, "")
	tag = hyphenRunRe.ReplaceAllString(tag, "-")
	tag = strings.Trim(tag, "-/")

	return tag
}

// NormalizeTags normalizes a slice of tags, removing empty results.
// Returns a sorted, deduplicated slice.
func NormalizeTags(tags []string) []string {
	ts := NewTagSet()
	for _, tag := range tags {
		ts.Add(tag)
	}
	return ts.GetSorted()
}

// TagSet provides tag collection with automatic normalization and deduplication.
type TagSet struct {
	tags map[string]bool
}

// NewTagSet creates a new TagSet for collecting tags.
func NewTagSet() *TagSet {
	return &TagSet{
		tags: make(map[string]bool),
	}
}

// Add adds a tag to the set after normalization.
func (ts *TagSet) Add(tag string) {
	normalized := NormalizeTag(tag)
	if normalized != "" {
		ts.tags[normalized] = true
	}
}

// AddWithPrefix adds prefix + "/" + the normalized tag, nesting it under prefix.
func (ts *TagSet) AddWithPrefix(prefix, tag string) {
	normalized := NormalizeTag(tag)
	if normalized != "" {
		ts.tags[prefix+"/"+normalized] = true
	}
}

// AddIf conditionally adds a tag if the condition is true.
func (ts *TagSet) AddIf(condition bool, tag string) {
	if condition {
		ts.Add(tag)
	}
}

// AddFormat adds a formatted tag (like fmt.Sprintf).
func (ts *TagSet) AddFormat(format string, args ...any) {
	ts.Add(fmt.Sprintf(format, args...))
}

// GetSorted returns all tags as a sorted slice.
func (ts *TagSet) GetSorted() []string {
	result := make([]string, 0, len(ts.tags))
	for tag := range ts.tags {
		result = append(result, tag)
	}
	sort.Strings(result)
	return result
}

// MergeTags combines two tag slices, normalizes them, and returns a sorted, deduplicated result.
func MergeTags(existing, added []string) []string {
	return NormalizeTags(append(append([]string{}, existing...), added...))
}

// TagsFromAny extracts a string slice from a decoded YAML value,
// which can be []any or []string.
func TagsFromAny(val any) []string {
	switch v := val.(type) {
	case []string:
		result := make([]string, 0, len(v))
		for _, s := range v {
			if s != "" {
				result = append(result, s)
			}
		}
		return result
	case []any:
		result := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok && str != "" {
				result = append(result, str)
			}
		}
		return result
	default:
		return []string{}
	}
}
