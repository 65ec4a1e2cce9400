// Package mapping holds the field-mapping AST. A FieldMapping describes how
// one field is indexed, independent of wire format; Render turns it into the
// JSON value tree of the requested protocol generation. Options that a
// generation cannot express are silently dropped, absent options are omitted
// keys, never null placeholders.
package mapping

import "github.com/pteich/elastic-purge/elastic"

// FieldType is the declared type of a field.
type FieldType string

const (
	KeywordType    FieldType = "keyword"
	TextType       FieldType = "text"
	IntegerType    FieldType = "integer"
	LongType       FieldType = "long"
	DoubleType     FieldType = "double"
	BooleanType    FieldType = "boolean"
	DateType       FieldType = "date"
	CompletionType FieldType = "completion"
)

// typeName translates a field type for the target generation. 2.x predates
// the keyword/text split and calls both "string".
func typeName(v elastic.ProtocolVersion, t FieldType) string {
	if v == elastic.V2 && (t == KeywordType || t == TextType) {
		return "string"
	}
	return string(t)
}

// IndexOption says whether and how a field is indexed.
type IndexOption int

const (
	// IndexDefault leaves the choice to the server; no key is emitted.
	IndexDefault IndexOption = iota
	// Indexed is the implicitly indexed state: "true" under 6.x, under 2.x
	// it renders to the empty legacy token and the key is omitted entirely.
	Indexed
	// NotAnalyzed indexes the raw value: "true" under 6.x, "not_analyzed"
	// under 2.x.
	NotAnalyzed
	// NotIndexed excludes the field from the index: "false" under 6.x,
	// "no" under 2.x.
	NotIndexed
)

// token returns the wire token for the index flag; an empty token means the
// key is left out.
func (o IndexOption) token(v elastic.ProtocolVersion) string {
	if v == elastic.V2 {
		switch o {
		case NotAnalyzed:
			return "not_analyzed"
		case NotIndexed:
			return "no"
		default:
			return ""
		}
	}
	switch o {
	case Indexed, NotAnalyzed:
		return "true"
	case NotIndexed:
		return "false"
	default:
		return ""
	}
}

// FieldMapping is a node of the mapping tree.
type FieldMapping interface {
	Render(v elastic.ProtocolVersion) map[string]interface{}
}

// Basic maps a scalar field with its per-field options.
type Basic struct {
	Type        FieldType
	Index       IndexOption
	Analyzer    string
	Normalizer  string
	IgnoreAbove int
}

func (m Basic) Render(v elastic.ProtocolVersion) map[string]interface{} {
	out := map[string]interface{}{"type": typeName(v, m.Type)}
	if token := m.Index.token(v); token != "" {
		out["index"] = token
	}
	if m.Analyzer != "" {
		out["analyzer"] = m.Analyzer
	}
	if m.IgnoreAbove > 0 {
		out["ignore_above"] = m.IgnoreAbove
	}
	// normalizers only exist from 5.x on, older servers never see the key
	if m.Normalizer != "" && v != elastic.V2 {
		out["normalizer"] = m.Normalizer
	}
	return out
}

// Object maps a JSON object field with sub-fields of its own.
type Object struct {
	Properties map[string]FieldMapping
}

func (m Object) Render(v elastic.ProtocolVersion) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": renderProperties(v, m.Properties),
	}
}

// Fields is a multi-field mapping: one primary type plus named sub-mappings
// of the same value.
type Fields struct {
	Type   FieldType
	Index  IndexOption
	Fields map[string]FieldMapping
}

func (m Fields) Render(v elastic.ProtocolVersion) map[string]interface{} {
	out := map[string]interface{}{"type": typeName(v, m.Type)}
	if token := m.Index.token(v); token != "" {
		out["index"] = token
	}
	if len(m.Fields) > 0 {
		out["fields"] = renderProperties(v, m.Fields)
	}
	return out
}

// Nested maps an array-of-objects field. With nil Properties it is the bare
// nested marker and renders the type key alone.
type Nested struct {
	Properties map[string]FieldMapping
}

func (m Nested) Render(v elastic.ProtocolVersion) map[string]interface{} {
	out := map[string]interface{}{"type": "nested"}
	if len(m.Properties) > 0 {
		out["properties"] = renderProperties(v, m.Properties)
	}
	return out
}

// Context is one completion suggester context. Path is optional; the
// without-path variant simply leaves it empty.
type Context struct {
	Name string
	Type string
	Path string
}

// Completion maps a suggest field. The context map renders under "contexts"
// as a sequence for 6.x and under "context" keyed by name for 2.x; both carry
// the same category/path data, only the envelope differs.
type Completion struct {
	Contexts []Context
	Analyzer string
}

func (m Completion) Render(v elastic.ProtocolVersion) map[string]interface{} {
	out := map[string]interface{}{"type": "completion"}
	if m.Analyzer != "" {
		out["analyzer"] = m.Analyzer
	}
	if len(m.Contexts) == 0 {
		return out
	}

	if v == elastic.V2 {
		byName := map[string]interface{}{}
		for _, c := range m.Contexts {
			entry := map[string]interface{}{"type": c.Type}
			if c.Path != "" {
				entry["path"] = c.Path
			}
			byName[c.Name] = entry
		}
		out["context"] = byName
		return out
	}

	seq := make([]interface{}, 0, len(m.Contexts))
	for _, c := range m.Contexts {
		entry := map[string]interface{}{
			"name": c.Name,
			"type": c.Type,
		}
		if c.Path != "" {
			entry["path"] = c.Path
		}
		seq = append(seq, entry)
	}
	out["contexts"] = seq
	return out
}

func renderProperties(v elastic.ProtocolVersion, fields map[string]FieldMapping) map[string]interface{} {
	props := make(map[string]interface{}, len(fields))
	for name, field := range fields {
		props[name] = field.Render(v)
	}
	return props
}

// Properties renders a set of field mappings, ready for Client.PutMapping.
func Properties(v elastic.ProtocolVersion, fields map[string]FieldMapping) map[string]interface{} {
	return renderProperties(v, fields)
}

// TypeMapping renders the full mappings body for index creation, keyed by
// document type.
func TypeMapping(v elastic.ProtocolVersion, tpe elastic.Type, fields map[string]FieldMapping) map[string]interface{} {
	return map[string]interface{}{
		string(tpe): map[string]interface{}{
			"properties": renderProperties(v, fields),
		},
	}
}
