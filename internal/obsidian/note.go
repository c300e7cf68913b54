package obsidian

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Note is a markdown document with YAML frontmatter.
type Note struct {
	Frontmatter *Frontmatter
	Body        string
}

// Frontmatter holds note properties and serializes them with sorted keys.
type Frontmatter struct {
	fields map[string]any
	keys   []string
}

// NewFrontmatter creates a new empty Frontmatter.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{
		fields: make(map[string]any),
		keys:   []string{},
	}
}

// ParseMarkdown splits a markdown document into frontmatter and body.
// A document without a complete frontmatter block is all body.
func ParseMarkdown(content []byte) (*Note, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	if !strings.HasPrefix(text, "---\n") {
		return &Note{Frontmatter: NewFrontmatter(), Body: text}, nil
	}

	rest := text[len("---\n"):]
	var raw, body string
	if strings.HasPrefix(rest, "---\n") || rest == "---" {
		body = strings.TrimPrefix(rest, "---")
	} else {
		end := strings.Index(rest, "\n---\n")
		if end == -1 {
			if !strings.HasSuffix(rest, "\n---") {
				return &Note{Frontmatter: NewFrontmatter(), Body: text}, nil
			}
			end = len(rest) - len("\n---")
		}
		raw = rest[:end]
		body = rest[min(end+len("\n---\n"), len(rest)):]
	}
	body = strings.TrimPrefix(body, "\n")

	var data map[string]any
	if err := yaml.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	fm := NewFrontmatter()
	for key, value := range data {
		fm.Set(key, value)
	}

	return &Note{Frontmatter: fm, Body: body}, nil
}

// Build serializes the note. Tags are written in flow style and keys sorted.
func (n *Note) Build() ([]byte, error) {
	var buf bytes.Buffer

	if len(n.Frontmatter.keys) > 0 {
		buf.WriteString("---\n")

		frontmatterBytes, err := yaml.Marshal(n.Frontmatter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}

		buf.Write(frontmatterBytes)
		buf.WriteString("---\n")
	}

	buf.WriteString(n.Body)

	return buf.Bytes(), nil
}

// Get retrieves a value from frontmatter.
func (f *Frontmatter) Get(key string) (any, bool) {
	val, ok := f.fields[key]
	return val, ok
}

// Set sets a value in frontmatter, maintaining sorted key order.
func (f *Frontmatter) Set(key string, value any) {
	_, exists := f.fields[key]
	f.fields[key] = value

	if !exists {
		f.keys = append(f.keys, key)
		sort.Strings(f.keys)
	}
}

// SetIf sets key only when value is non-empty.
func (f *Frontmatter) SetIf(key string, value string) {
	if value != "" {
		f.Set(key, value)
	}
}

// Delete removes a key from frontmatter.
func (f *Frontmatter) Delete(key string) {
	delete(f.fields, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// GetString retrieves a string value, returning empty string if not found or wrong type.
func (f *Frontmatter) GetString(key string) string {
	if str, ok := f.fields[key].(string); ok {
		return str
	}
	return ""
}

// GetStringArray retrieves a string array, returning empty slice if not found or wrong type.
func (f *Frontmatter) GetStringArray(key string) []string {
	return TagsFromAny(f.fields[key])
}

// Keys returns a copy of the sorted frontmatter keys.
func (f *Frontmatter) Keys() []string {
	result := make([]string, len(f.keys))
	copy(result, f.keys)
	return result
}

// MarshalYAML writes keys in sorted order with tags as a flow sequence.
func (f *Frontmatter) MarshalYAML() (any, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, len(f.keys)*2),
	}

	for _, key := range f.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

		var valueNode *yaml.Node
		if key == "tags" {
			valueNode = &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
			for _, tag := range TagsFromAny(f.fields[key]) {
				valueNode.Content = append(valueNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: tag})
			}
		} else {
			valueNode = &yaml.Node{}
			if err := valueNode.Encode(f.fields[key]); err != nil {
				return nil, err
			}
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}
