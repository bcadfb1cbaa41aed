package contract_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-solverform/pkg/contract"
	"github.com/goliatone/go-solverform/pkg/model"
)

func TestLoad_EmbeddedSolveOperation(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Method != "POST" || c.Path != "/solve" {
		t.Fatalf("unexpected operation %s %s", c.Method, c.Path)
	}
	if c.TimeoutMinimum != 1 || c.TimeoutDefault != 60 {
		t.Fatalf("unexpected timeout bounds min=%d default=%d", c.TimeoutMinimum, c.TimeoutDefault)
	}

	var names []string
	for _, field := range c.Form.Fields {
		names = append(names, field.Name)
	}
	want := []string{"inputType", "minzincFile", "datazincFile", "minzincText", "datazincText", "timeout"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FieldMetadata(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	fileFields := c.Form.FieldsFor(model.ModeFile)
	if len(fileFields) != 2 || fileFields[0].Name != "minzincFile" || fileFields[1].Name != "datazincFile" {
		t.Fatalf("unexpected file fields: %+v", fileFields)
	}
	if fileFields[0].Type != model.FieldTypeFile || fileFields[0].Accept != ".mzn" {
		t.Fatalf("unexpected minzincFile metadata: %+v", fileFields[0])
	}

	textFields := c.Form.FieldsFor(model.ModeText)
	if len(textFields) != 2 {
		t.Fatalf("expected two text fields, got %+v", textFields)
	}
	if textFields[0].Type != model.FieldTypeText || textFields[0].Rows != 6 || textFields[0].PlaceholderKey != "minzincPlaceholder" {
		t.Fatalf("unexpected minzincText metadata: %+v", textFields[0])
	}

	timeout, ok := c.Form.Field("timeout")
	if !ok {
		t.Fatalf("timeout field missing")
	}
	if timeout.Type != model.FieldTypeInteger || timeout.Minimum == nil || *timeout.Minimum != 1 || !timeout.Required {
		t.Fatalf("unexpected timeout metadata: %+v", timeout)
	}

	inputType, _ := c.Form.Field("inputType")
	if diff := cmp.Diff([]string{"file", "text"}, inputType.Enum); diff != "" {
		t.Fatalf("inputType enum mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateResponse(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	valid := []string{
		`{"status":"success","output":"10"}`,
		`{"status":"success","output":"x=5","image":"aGVsbG8="}`,
		`{"status":"success","output":"done","image":null}`,
		`{"status":"error","output":"syntax error"}`,
		`{"output":"missing status"}`,
		`{"status":1,"output":"x"}`,
		`{"status":null,"output":null}`,
	}
	for _, body := range valid {
		if err := c.ValidateResponse([]byte(body)); err != nil {
			t.Fatalf("expected %s to validate: %v", body, err)
		}
	}

	invalid := []string{
		`not json`,
		`["success"]`,
		`{"status":"success","output":7}`,
		`{"status":"success","image":42}`,
	}
	for _, body := range invalid {
		if err := c.ValidateResponse([]byte(body)); !errors.Is(err, contract.ErrUnexpectedResponse) {
			t.Fatalf("expected ErrUnexpectedResponse for %s, got %v", body, err)
		}
	}
}

func TestLoadFromData_MissingOperation(t *testing.T) {
	_, err := contract.LoadFromData(context.Background(), contract.Document(), "unknown")
	if !errors.Is(err, contract.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
}

func TestClampTimeout(t *testing.T) {
	c, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for in, want := range map[int]int{-5: 1, 0: 1, 1: 1, 90: 90} {
		if got := c.ClampTimeout(in); got != want {
			t.Fatalf("clamp(%d): want %d, got %d", in, want, got)
		}
	}
}
