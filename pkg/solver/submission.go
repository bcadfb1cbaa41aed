package solver

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// InputType selects which payload pair is attached to a submission.
type InputType string

const (
	InputFile InputType = "file"
	InputText InputType = "text"
)

// ParseInputType validates raw form input.
func ParseInputType(raw string) (InputType, error) {
	switch InputType(raw) {
	case InputFile, InputText:
		return InputType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidInputType, raw)
	}
}

// Multipart field names understood by the solving service.
const (
	FieldInputType    = "inputType"
	FieldTimeout      = "timeout"
	FieldMinizincFile = "minzincFile"
	FieldDatazincFile = "datazincFile"
	FieldMinizincText = "minzincText"
	FieldDatazincText = "datazincText"
)

// File is an uploaded model or data file.
type File struct {
	Name string
	Data []byte
}

// Clone returns a deep copy; nil stays nil.
func (f *File) Clone() *File {
	if f == nil {
		return nil
	}
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return &File{Name: f.Name, Data: data}
}

// Submission is the immutable request snapshot taken when a solve starts.
type Submission struct {
	InputType    InputType
	Timeout      int
	MinizincFile *File
	DatazincFile *File
	MinizincText string
	DatazincText string
}

// Validate checks the invariants Encode relies on.
func (s Submission) Validate() error {
	if _, err := ParseInputType(string(s.InputType)); err != nil {
		return err
	}
	if s.Timeout < 1 {
		return fmt.Errorf("solver: timeout must be >= 1, got %d", s.Timeout)
	}
	return nil
}

// FieldNames lists the multipart fields Encode will emit, in order.
func (s Submission) FieldNames() []string {
	names := []string{FieldInputType, FieldTimeout}
	switch s.InputType {
	case InputFile:
		if s.MinizincFile != nil {
			names = append(names, FieldMinizincFile)
		}
		if s.DatazincFile != nil {
			names = append(names, FieldDatazincFile)
		}
	case InputText:
		names = append(names, FieldMinizincText, FieldDatazincText)
	}
	return names
}

// Encode writes the multipart body and returns its content type. Fields of
// the unselected mode are omitted; in file mode a file is attached only when
// one was selected, in text mode both text fields are always written.
func (s Submission) Encode(w io.Writer) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}

	writer := multipart.NewWriter(w)
	if err := writer.WriteField(FieldInputType, string(s.InputType)); err != nil {
		return "", fmt.Errorf("solver: write %s: %w", FieldInputType, err)
	}
	if err := writer.WriteField(FieldTimeout, strconv.Itoa(s.Timeout)); err != nil {
		return "", fmt.Errorf("solver: write %s: %w", FieldTimeout, err)
	}

	switch s.InputType {
	case InputFile:
		if err := writeFile(writer, FieldMinizincFile, s.MinizincFile); err != nil {
			return "", err
		}
		if err := writeFile(writer, FieldDatazincFile, s.DatazincFile); err != nil {
			return "", err
		}
	case InputText:
		if err := writer.WriteField(FieldMinizincText, s.MinizincText); err != nil {
			return "", fmt.Errorf("solver: write %s: %w", FieldMinizincText, err)
		}
		if err := writer.WriteField(FieldDatazincText, s.DatazincText); err != nil {
			return "", fmt.Errorf("solver: write %s: %w", FieldDatazincText, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("solver: close multipart writer: %w", err)
	}
	return writer.FormDataContentType(), nil
}

func writeFile(writer *multipart.Writer, field string, file *File) error {
	if file == nil {
		return nil
	}
	name := file.Name
	if name == "" {
		name = field
	}
	part, err := writer.CreateFormFile(field, name)
	if err != nil {
		return fmt.Errorf("solver: create %s part: %w", field, err)
	}
	if _, err := io.Copy(part, bytes.NewReader(file.Data)); err != nil {
		return fmt.Errorf("solver: copy %s: %w", field, err)
	}
	return nil
}
