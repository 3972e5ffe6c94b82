// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-15
// Last Modified: 2026-10-15

package mapping

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk syntax of a mapping document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// SchemaError lists every problem found while validating a mapping document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid mapping document (%d problems):\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// FormatFromPath picks the document format from the file extension.
// Unknown extensions are read as TOML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// Load reads, decodes and validates a mapping document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file: %w", err)
	}

	raw, err := Decode(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Decode turns document bytes into a raw tree without validating it.
func Decode(data []byte, format Format) (map[string]any, error) {
	raw := make(map[string]any)

	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &raw)
	case FormatYAML:
		err = yaml.Unmarshal(data, &raw)
	case FormatJSON:
		err = json.Unmarshal(data, &raw)
	default:
		return nil, fmt.Errorf("unsupported mapping format: %s", format)
	}
	if err != nil {
		return nil, &SchemaError{Problems: []string{fmt.Sprintf("malformed %s: %v", format, err)}}
	}
	return raw, nil
}

// Parse validates a raw tree and builds the typed document.
// All problems are collected before returning.
func Parse(raw map[string]any) (*Document, error) {
	p := &parser{}
	doc := &Document{}

	if v, ok := raw["project"]; ok {
		n, ok := asInt(v)
		if !ok || n <= 0 {
			p.problem("project: expected a positive project number, got %v", v)
		} else {
			num := int(n)
			doc.Project = &num
		}
	}

	doc.Repo = p.repo(raw["repo"])

	for i, item := range p.tables(raw["labels"], "labels") {
		if item == nil {
			continue
		}
		if m, ok := p.label(i, item); ok {
			doc.Labels = append(doc.Labels, m)
		}
	}

	for i, item := range p.tables(raw["users"], "users") {
		if item == nil {
			continue
		}
		trello := stripAt(p.str(item, "trello", fmt.Sprintf("users[%d]", i), true))
		github := stripAt(p.str(item, "github", fmt.Sprintf("users[%d]", i), true))
		if trello != "" && github != "" {
			doc.Users = append(doc.Users, UserMapping{Trello: trello, GitHub: github})
		}
	}

	for i, item := range p.tables(raw["lists"], "lists") {
		if item == nil {
			continue
		}
		if m, ok := p.list(i, item); ok {
			doc.Lists = append(doc.Lists, m)
		}
	}

	if skip, ok := raw["skip"]; ok {
		table, isTable := skip.(map[string]any)
		if !isTable {
			p.problem("skip: expected a table")
		} else {
			doc.SkipLists = p.stringList(table["lists"], "skip.lists")
		}
	}

	if len(p.problems) > 0 {
		return nil, &SchemaError{Problems: p.problems}
	}
	return doc, nil
}

type parser struct {
	problems []string
}

func (p *parser) problem(format string, args ...any) {
	p.problems = append(p.problems, fmt.Sprintf(format, args...))
}

func (p *parser) repo(v any) Repo {
	table, ok := v.(map[string]any)
	if !ok {
		p.problem("repo: required table with owner and repo")
		return Repo{}
	}

	r := Repo{
		OwnerType: OwnerUser,
		Name:      p.str(table, "repo", "repo", true),
	}

	switch owner := table["owner"].(type) {
	case string:
		r.Owner = strings.TrimSpace(owner)
		if r.Owner == "" {
			p.problem("repo.owner: must not be empty")
		}
	case map[string]any:
		kind := p.str(owner, "type", "repo.owner", true)
		switch OwnerType(kind) {
		case OwnerOrganization, OwnerUser:
			r.OwnerType = OwnerType(kind)
		case "":
		default:
			p.problem("repo.owner.type: expected %q or %q, got %q", OwnerOrganization, OwnerUser, kind)
		}
		r.Owner = p.str(owner, "login", "repo.owner", true)
	case nil:
		p.problem("repo.owner: required")
	default:
		p.problem("repo.owner: expected a string or a table with type and login")
	}

	return r
}

func (p *parser) label(i int, item map[string]any) (LabelMapping, bool) {
	where := fmt.Sprintf("labels[%d]", i)
	m := LabelMapping{Trello: p.str(item, "trello", where, true)}

	if v, ok := item["create"]; ok {
		b, isBool := v.(bool)
		if !isBool {
			p.problem("%s.create: expected a boolean", where)
			return m, false
		}
		m.Create = b
	}

	ref, ok := p.ref(item["github"], where+".github")
	if !ok {
		if item["github"] == nil {
			p.problem("%s.github: required", where)
		}
		return m, false
	}
	m.GitHub = ref

	if m.Create {
		if ref.Numeric {
			p.problem("%s.github: a label to create needs a name, not an id", where)
			return m, false
		}
		if v, ok := item["color"]; ok {
			color, isStr := v.(string)
			if !isStr || !hexColor.MatchString(color) {
				p.problem("%s.color: expected a 3 or 6 digit hex color, got %v", where, v)
				return m, false
			}
			m.Color = normalizeColor(color)
		}
	}

	return m, m.Trello != ""
}

func (p *parser) list(i int, item map[string]any) (ListMapping, bool) {
	where := fmt.Sprintf("lists[%d]", i)
	m := ListMapping{List: p.str(item, "list", where, true)}

	if v, ok := item["label"]; ok {
		if ref, ok := p.ref(v, where+".label"); ok {
			m.Label = &ref
		}
	}
	if v, ok := item["milestone"]; ok {
		if ref, ok := p.ref(v, where+".milestone"); ok {
			m.Milestone = &ref
		}
	}
	m.Status = p.str(item, "status", where, false)

	return m, m.List != ""
}

// ref accepts either an integer id or a non-empty name.
func (p *parser) ref(v any, where string) (Ref, bool) {
	switch t := v.(type) {
	case nil:
		return Ref{}, false
	case string:
		if strings.TrimSpace(t) == "" {
			p.problem("%s: must not be empty", where)
			return Ref{}, false
		}
		return NameRef(t), true
	}
	if n, ok := asInt(v); ok {
		return IDRef(n), true
	}
	p.problem("%s: expected a string or an integer, got %v", where, v)
	return Ref{}, false
}

func (p *parser) str(table map[string]any, key, where string, required bool) string {
	v, ok := table[key]
	if !ok || v == nil {
		if required {
			p.problem("%s.%s: required", where, key)
		}
		return ""
	}
	s, ok := v.(string)
	if !ok {
		p.problem("%s.%s: expected a string, got %v", where, key, v)
		return ""
	}
	if required && strings.TrimSpace(s) == "" {
		p.problem("%s.%s: must not be empty", where, key)
	}
	return s
}

func (p *parser) stringList(v any, where string) []string {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		p.problem("%s: expected an array of strings", where)
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok || s == "" {
			p.problem("%s[%d]: expected a non-empty string, got %v", where, i, item)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (p *parser) tables(v any, where string) []map[string]any {
	if v == nil {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		p.problem("%s: expected an array of tables", where)
		return nil
	}
	// Invalid entries stay as nil so callers report problems with the original index.
	out := make([]map[string]any, len(items))
	for i, item := range items {
		table, ok := item.(map[string]any)
		if !ok {
			p.problem("%s[%d]: expected a table", where, i)
			continue
		}
		out[i] = table
	}
	return out
}

// asInt accepts the integer shapes produced by the TOML, YAML and JSON decoders.
func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

// normalizeColor strips "#", lower-cases and expands 3-digit shorthand.
func normalizeColor(c string) string {
	c = strings.ToLower(strings.TrimPrefix(c, "#"))
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return c
}
