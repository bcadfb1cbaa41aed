package model

import "sort"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeText    FieldType = "text"
	FieldTypeInteger FieldType = "integer"
	FieldTypeFile    FieldType = "file"
	FieldTypeEnum    FieldType = "enum"
)

// InputMode names which payload pair a field belongs to. Fields with
// ModeAny are sent in every mode.
type InputMode string

const (
	ModeAny  InputMode = ""
	ModeFile InputMode = "file"
	ModeText InputMode = "text"
)

// Field models one multipart field of the solve request.
type Field struct {
	Name           string    `json:"name"`
	Type           FieldType `json:"type"`
	Mode           InputMode `json:"mode,omitempty"`
	Required       bool      `json:"required"`
	LabelKey       string    `json:"labelKey,omitempty"`
	PlaceholderKey string    `json:"placeholderKey,omitempty"`
	Accept         string    `json:"accept,omitempty"`
	Rows           int       `json:"rows,omitempty"`
	Minimum        *int      `json:"minimum,omitempty"`
	Default        any       `json:"default,omitempty"`
	Enum           []string  `json:"enum,omitempty"`
	Order          int       `json:"order"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	OperationID string  `json:"operationId"`
	Endpoint    string  `json:"endpoint"`
	Method      string  `json:"method"`
	Summary     string  `json:"summary,omitempty"`
	Fields      []Field `json:"fields"`
}

// Field returns the named field.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldsFor returns the mode specific fields of mode in declaration order.
// Fields shared by every mode are not included.
func (f FormModel) FieldsFor(mode InputMode) []Field {
	var out []Field
	for _, field := range f.Fields {
		if field.Mode != ModeAny && field.Mode == mode {
			out = append(out, field)
		}
	}
	SortFields(out)
	return out
}

// SortFields orders fields by Order, then Name.
func SortFields(fields []Field) {
	sort.SliceStable(fields, func(i, j int) bool {
		if fields[i].Order != fields[j].Order {
			return fields[i].Order < fields[j].Order
		}
		return fields[i].Name < fields[j].Name
	})
}
