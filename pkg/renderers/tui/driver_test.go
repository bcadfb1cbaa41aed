package tui

import (
	"errors"
	"strings"
	"testing"
)

type answer string

func (a answer) String() string { return string(a) }

func TestStringValidator(t *testing.T) {
	errEmpty := errors.New("empty")
	var seen []string
	validate := stringValidator(func(value string) error {
		seen = append(seen, value)
		if value == "" {
			return errEmpty
		}
		return nil
	})

	if err := validate("model.mzn"); err != nil {
		t.Fatalf("expected string answer to pass, got %v", err)
	}
	if err := validate(""); !errors.Is(err, errEmpty) {
		t.Fatalf("expected wrapped check error, got %v", err)
	}
	if err := validate(answer("data.dzn")); err != nil {
		t.Fatalf("expected stringer answer to pass, got %v", err)
	}
	if err := validate(42); err == nil || !strings.Contains(err.Error(), "int") {
		t.Fatalf("expected type error for int answer, got %v", err)
	}
	if got := strings.Join(seen, ","); got != "model.mzn,,data.dzn" {
		t.Fatalf("unexpected validated values %q", got)
	}
}

func TestIndexOf(t *testing.T) {
	options := []string{"Upload file", "Write model"}
	if got := indexOf(options, "Write model"); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := indexOf(options, "missing"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
