// Package catalog loads tile types and interaction rules from YAML or JSON
// documents.
package catalog

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"mad-puzzle/internal/rules"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format names a document encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the encoding from a file extension. Unknown extensions
// are treated as YAML, which also accepts JSON input.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Document is a catalog as it appears on disk.
type Document struct {
	Name  string         `json:"name,omitempty" yaml:"name,omitempty" jsonschema:"title=Catalog name"`
	Types []TypeDocument `json:"types" yaml:"types" jsonschema:"title=Tile types,required"`
	Rules []RuleDocument `json:"rules,omitempty" yaml:"rules,omitempty" jsonschema:"title=Interaction rules"`
}

// TypeDocument describes one tile type.
type TypeDocument struct {
	ID        int    `json:"id" yaml:"id" jsonschema:"title=Type id,minimum=0,required"`
	Name      string `json:"name" yaml:"name" jsonschema:"title=Display name,minLength=1,required"`
	Color     string `json:"color,omitempty" yaml:"color,omitempty" jsonschema:"title=Color,description=Hex color used by the viewer,pattern=^#[0-9a-fA-F]{6}$"`
	MaxLevel  int    `json:"maxLevel" yaml:"maxLevel" jsonschema:"title=Max level,minimum=1,required"`
	Mergeable bool   `json:"mergeable,omitempty" yaml:"mergeable,omitempty" jsonschema:"title=Mergeable"`
}

// RuleDocument describes one interaction rule. Optional fields fall back to
// an unordered rule that replaces both cells, merges by one level and
// produces level 1 results.
type RuleDocument struct {
	A          int    `json:"a" yaml:"a" jsonschema:"title=First type id,required"`
	B          int    `json:"b" yaml:"b" jsonschema:"title=Second type id,required"`
	Unordered  *bool  `json:"unordered,omitempty" yaml:"unordered,omitempty" jsonschema:"title=Unordered,description=Match the pair in either order,default=true"`
	Mode       string `json:"mode,omitempty" yaml:"mode,omitempty" jsonschema:"title=Result mode,enum=both,enum=first,enum=second,default=both"`
	Merge      bool   `json:"merge,omitempty" yaml:"merge,omitempty" jsonschema:"title=Merge rule,description=Same-type pairs gain levels instead of producing a result"`
	LevelDelta *int   `json:"levelDelta,omitempty" yaml:"levelDelta,omitempty" jsonschema:"title=Level delta,minimum=1,default=1"`
	Result     *int   `json:"result,omitempty" yaml:"result,omitempty" jsonschema:"title=Result type id"`
	Level      *int   `json:"level,omitempty" yaml:"level,omitempty" jsonschema:"title=Result level,minimum=1,default=1"`
}

// Rule converts the document into a rule with defaults applied.
func (d RuleDocument) Rule() (rules.Rule, error) {
	mode, err := rules.ParseResultMode(d.Mode)
	if err != nil {
		return rules.Rule{}, err
	}
	r := rules.Rule{
		KeyA:             d.A,
		KeyB:             d.B,
		Unordered:        true,
		Mode:             mode,
		IsMergeRule:      d.Merge,
		LevelDelta:       1,
		ResultType:       rules.NoResult,
		FixedResultLevel: 1,
	}
	if d.Unordered != nil {
		r.Unordered = *d.Unordered
	}
	if d.LevelDelta != nil {
		r.LevelDelta = *d.LevelDelta
	}
	if d.Result != nil {
		r.ResultType = *d.Result
	}
	if d.Level != nil {
		r.FixedResultLevel = *d.Level
	}
	return r, nil
}

// Catalog converts the document for rules.NewResolver. Rules whose mode
// cannot be parsed are left out and reported in the returned error; every
// other problem is left for the resolver to report.
func (d Document) Catalog() (rules.Catalog, error) {
	cat := rules.Catalog{Types: make([]rules.TileType, 0, len(d.Types))}
	for _, t := range d.Types {
		cat.Types = append(cat.Types, rules.TileType{
			ID:        t.ID,
			Name:      t.Name,
			Color:     t.Color,
			MaxLevel:  t.MaxLevel,
			Mergeable: t.Mergeable,
		})
	}
	var errs error
	for i, rd := range d.Rules {
		r, err := rd.Rule()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		cat.Rules = append(cat.Rules, r)
	}
	return cat, errs
}

// FromCatalog builds a document describing cat.
func FromCatalog(name string, cat rules.Catalog) Document {
	doc := Document{Name: name}
	for _, t := range cat.Types {
		doc.Types = append(doc.Types, TypeDocument{
			ID:        t.ID,
			Name:      t.Name,
			Color:     t.Color,
			MaxLevel:  t.MaxLevel,
			Mergeable: t.Mergeable,
		})
	}
	for _, r := range cat.Rules {
		rd := RuleDocument{A: r.KeyA, B: r.KeyB, Merge: r.IsMergeRule, Mode: r.Mode.String()}
		if !r.Unordered {
			unordered := false
			rd.Unordered = &unordered
		}
		if r.IsMergeRule && r.LevelDelta != 1 {
			delta := r.LevelDelta
			rd.LevelDelta = &delta
		}
		if r.ResultType != rules.NoResult {
			result, level := r.ResultType, r.FixedResultLevel
			rd.Result = &result
			rd.Level = &level
		}
		doc.Rules = append(doc.Rules, rd)
	}
	return doc
}

// Decode parses a document in the given format.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("decode json catalog: %w", err)
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml catalog: %w", err)
		}
	}
	return doc, nil
}

// Encode serializes a document in the given format.
func Encode(doc Document, format Format) ([]byte, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json catalog: %w", err)
		}
		return append(data, '\n'), nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode yaml catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Load reads and decodes the catalog file at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read catalog %s: %w", path, err)
	}
	doc, err := Decode(data, FormatForPath(path))
	if err != nil {
		return Document{}, fmt.Errorf("load catalog %s: %w", path, err)
	}
	return doc, nil
}
