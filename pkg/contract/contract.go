package contract

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-solverform/pkg/model"
)

//go:embed solver.openapi.yaml
var embeddedDocument []byte

// OperationID is the operation the form submits to.
const OperationID = "solve"

const (
	extensionMode        = "x-solverform-mode"
	extensionOrder       = "x-solverform-order"
	extensionLabel       = "x-solverform-label"
	extensionPlaceholder = "x-solverform-placeholder"
	extensionAccept      = "x-solverform-accept"
	extensionRows        = "x-solverform-rows"

	timeoutField = "timeout"
)

var (
	// ErrOperationNotFound is returned when the document lacks the operation.
	ErrOperationNotFound = errors.New("contract: operation not found")
	// ErrUnexpectedResponse wraps reply bodies that do not match the schema.
	ErrUnexpectedResponse = errors.New("contract: unexpected response shape")
)

// Contract is the resolved solve operation.
type Contract struct {
	Method         string
	Path           string
	Form           model.FormModel
	TimeoutMinimum int
	TimeoutDefault int

	response *openapi3.Schema
}

// Document returns the embedded OpenAPI document.
func Document() []byte {
	out := make([]byte, len(embeddedDocument))
	copy(out, embeddedDocument)
	return out
}

// Load resolves the embedded document.
func Load(ctx context.Context) (*Contract, error) {
	return LoadFromData(ctx, embeddedDocument, OperationID)
}

// LoadFromData parses and validates an OpenAPI document (JSON or YAML) and
// extracts operationID from it.
func LoadFromData(ctx context.Context, data []byte, operationID string) (*Contract, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil || operation.OperationID != operationID {
				continue
			}
			return build(strings.ToUpper(method), path, operation)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
}

func build(method, path string, operation *openapi3.Operation) (*Contract, error) {
	if method != http.MethodPost {
		return nil, fmt.Errorf("contract: operation %q must be POST, got %s", operation.OperationID, method)
	}

	request := requestSchema(operation)
	if request == nil {
		return nil, fmt.Errorf("contract: operation %q has no multipart/form-data body", operation.OperationID)
	}
	response := responseSchema(operation)
	if response == nil {
		return nil, fmt.Errorf("contract: operation %q has no JSON 200 response", operation.OperationID)
	}

	c := &Contract{
		Method:         method,
		Path:           path,
		TimeoutMinimum: 1,
		TimeoutDefault: 60,
		response:       response,
		Form: model.FormModel{
			OperationID: operation.OperationID,
			Endpoint:    path,
			Method:      method,
			Summary:     operation.Summary,
		},
	}

	required := make(map[string]bool, len(request.Required))
	for _, name := range request.Required {
		required[name] = true
	}

	for name, ref := range request.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		field := convertField(name, ref.Value)
		field.Required = required[name]
		if name == timeoutField {
			if field.Minimum != nil {
				c.TimeoutMinimum = *field.Minimum
			}
			if value, ok := toInt(ref.Value.Default); ok {
				c.TimeoutDefault = value
			}
		}
		c.Form.Fields = append(c.Form.Fields, field)
	}
	model.SortFields(c.Form.Fields)

	if c.TimeoutMinimum < 1 {
		c.TimeoutMinimum = 1
	}
	if c.TimeoutDefault < c.TimeoutMinimum {
		c.TimeoutDefault = c.TimeoutMinimum
	}
	return c, nil
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	mt, ok := operation.RequestBody.Value.Content["multipart/form-data"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func responseSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.Responses == nil {
		return nil
	}
	ref, ok := operation.Responses.Map()["200"]
	if !ok || ref == nil || ref.Value == nil {
		return nil
	}
	mt, ok := ref.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

func convertField(name string, schema *openapi3.Schema) model.Field {
	field := model.Field{
		Name:           name,
		Type:           model.FieldTypeString,
		Mode:           model.InputMode(extensionString(schema, extensionMode)),
		LabelKey:       extensionString(schema, extensionLabel),
		PlaceholderKey: extensionString(schema, extensionPlaceholder),
		Accept:         extensionString(schema, extensionAccept),
		Default:        schema.Default,
	}
	if order, ok := toInt(schema.Extensions[extensionOrder]); ok {
		field.Order = order
	}
	if rows, ok := toInt(schema.Extensions[extensionRows]); ok {
		field.Rows = rows
	}

	switch {
	case schema.Type != nil && schema.Type.Is(openapi3.TypeInteger):
		field.Type = model.FieldTypeInteger
		if schema.Min != nil {
			minimum := int(*schema.Min)
			field.Minimum = &minimum
		}
		if value, ok := toInt(schema.Default); ok {
			field.Default = value
		}
	case schema.Format == "binary":
		field.Type = model.FieldTypeFile
	case len(schema.Enum) > 0:
		field.Type = model.FieldTypeEnum
		for _, value := range schema.Enum {
			field.Enum = append(field.Enum, fmt.Sprint(value))
		}
	case field.Rows > 0:
		field.Type = model.FieldTypeText
	}
	return field
}

// ValidateResponse checks a raw reply body against the response schema.
func (c *Contract) ValidateResponse(body []byte) error {
	if c == nil || c.response == nil {
		return nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if err := c.response.VisitJSON(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	return nil
}

// ClampTimeout applies the contract minimum to seconds.
func (c *Contract) ClampTimeout(seconds int) int {
	minimum := 1
	if c != nil && c.TimeoutMinimum > minimum {
		minimum = c.TimeoutMinimum
	}
	if seconds < minimum {
		return minimum
	}
	return seconds
}

func extensionString(schema *openapi3.Schema, key string) string {
	if schema == nil || len(schema.Extensions) == 0 {
		return ""
	}
	value, ok := schema.Extensions[key]
	if !ok || value == nil {
		return ""
	}
	if raw, ok := value.(json.RawMessage); ok {
		var decoded string
		if err := json.Unmarshal(raw, &decoded); err == nil {
			return decoded
		}
		return strings.Trim(string(raw), `"`)
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case json.RawMessage:
		n, err := strconv.Atoi(strings.TrimSpace(string(v)))
		return n, err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	default:
		return 0, false
	}
}
