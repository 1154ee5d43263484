package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const baseKey = "base"

// Entry is one keyword → passage pair in a category, in file order.
type Entry struct {
	Key     string
	Passage string
}

// Category is a named group of passages. Base, when set, introduces the
// category's section in a cover letter.
type Category struct {
	Name    string
	Base    string
	hasBase bool
	entries []Entry
	byKey   map[string]string
}

// Entries returns the category's passages in file order, excluding the base.
func (c *Category) Entries() []Entry {
	if c == nil {
		return nil
	}
	return c.entries
}

// Passage looks up a keyword passage. The base is not a keyword.
func (c *Category) Passage(key string) (string, bool) {
	if c == nil || key == baseKey {
		return "", false
	}
	p, ok := c.byKey[key]
	return p, ok
}

// Library is the read-only store of cover-letter fragments. It is loaded once
// and shared; nothing mutates it after Parse returns.
type Library struct {
	Intro      string
	Conclusion string
	categories map[string]*Category
}

// Category returns the named category, or nil if the library has none.
func (l *Library) Category(name string) *Category {
	return l.categories[name]
}

// Lookup resolves a category/key pair, including the "base" key.
func (l *Library) Lookup(category, key string) (string, bool) {
	c := l.categories[category]
	if c == nil {
		return "", false
	}
	if key == baseKey {
		return c.Base, c.hasBase
	}
	p, ok := c.byKey[key]
	return p, ok
}

// Load reads a content library from a YAML or JSON file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content library: %w", err)
	}
	lib, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content library %s: %w", path, err)
	}
	return lib, nil
}

// Parse decodes a content library. Mapping order is preserved because title and
// work-style openers are chosen by first match.
func Parse(data []byte) (*Library, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse content library: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("content library is empty")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("content library must be a mapping, got %s", kindName(root.Kind))
	}

	lib := &Library{categories: make(map[string]*Category)}
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		value := root.Content[i+1]

		switch value.Kind {
		case yaml.ScalarNode:
			switch name {
			case "intro":
				lib.Intro = value.Value
			case "conclusion":
				lib.Conclusion = value.Value
			default:
				return nil, fmt.Errorf("line %d: top-level %q must be a mapping of passages", value.Line, name)
			}
		case yaml.MappingNode:
			cat, err := parseCategory(name, value)
			if err != nil {
				return nil, err
			}
			lib.categories[name] = cat
		default:
			return nil, fmt.Errorf("line %d: unexpected %s for %q", value.Line, kindName(value.Kind), name)
		}
	}
	return lib, nil
}

func parseCategory(name string, node *yaml.Node) (*Category, error) {
	cat := &Category{Name: name, byKey: make(map[string]string)}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value := node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: %s.%s must be text, got %s", value.Line, name, key, kindName(value.Kind))
		}
		if key == baseKey {
			cat.Base = value.Value
			cat.hasBase = true
			continue
		}
		if _, dup := cat.byKey[key]; dup {
			return nil, fmt.Errorf("line %d: duplicate key %s.%s", node.Content[i].Line, name, key)
		}
		cat.byKey[key] = value.Value
		cat.entries = append(cat.entries, Entry{Key: key, Passage: value.Value})
	}
	return cat, nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "list"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "text"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
