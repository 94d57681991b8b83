package schema

import (
	"errors"
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeNumber   FieldType = "number"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeSelect   FieldType = "select"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeRadio    FieldType = "radio"
	FieldTypeDate     FieldType = "date"
	FieldTypeFile     FieldType = "file"
)

// fieldTypes is the closed set consumed by form renderers. Extending it
// requires a matching renderer update.
var fieldTypes = map[FieldType]bool{
	FieldTypeText:     true,
	FieldTypeEmail:    true,
	FieldTypeNumber:   true,
	FieldTypeTextarea: true,
	FieldTypeSelect:   true,
	FieldTypeCheckbox: true,
	FieldTypeRadio:    true,
	FieldTypeDate:     true,
	FieldTypeFile:     true,
}

// choiceTypes are the field types that carry an options list.
var choiceTypes = map[FieldType]bool{
	FieldTypeSelect:   true,
	FieldTypeCheckbox: true,
	FieldTypeRadio:    true,
}

type Field struct {
	Id          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Placeholder string    `json:"placeholder,omitempty"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
}

type Schema struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Fields      []Field `json:"fields"`
}

// Normalize fills blank field ids from labels and drops options from
// non-choice field types.
func (s *Schema) Normalize() {
	for i := range s.Fields {
		f := &s.Fields[i]
		if len(strings.TrimSpace(f.Id)) == 0 {
			f.Id = slugify(f.Label, i)
		}
		if !choiceTypes[f.Type] {
			f.Options = nil
		}
	}
}

func (s *Schema) Validate() error {
	if len(strings.TrimSpace(s.Title)) == 0 {
		return errors.New("schema title is required")
	}

	if len(s.Fields) == 0 {
		return errors.New("schema has no fields")
	}

	seen := map[string]bool{}
	for _, f := range s.Fields {
		if !fieldTypes[f.Type] {
			return fmt.Errorf("unknown field type %q", f.Type)
		}
		if seen[f.Id] {
			return fmt.Errorf("duplicate field id %q", f.Id)
		}
		seen[f.Id] = true
	}

	return nil
}

func slugify(label string, position int) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('_')
		}
	}

	slug := strings.Trim(b.String(), "_")
	if len(slug) == 0 {
		slug = fmt.Sprintf("field_%d", position+1)
	}

	return slug
}
