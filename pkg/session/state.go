package session

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-solverform/pkg/solver"
)

// Status is the lifecycle state of a session's result.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ErrSubmissionInFlight is returned by BeginSubmit while a solve is running.
var ErrSubmissionInFlight = errors.New("session: submission already in flight")

// DefaultTimeoutSeconds is used when no contract default is supplied.
const DefaultTimeoutSeconds = 60

// Timeout bounds in seconds.
const (
	MinTimeoutSeconds = 1
	MaxTimeoutSeconds = math.MaxInt32
)

// FormState is the editable form. Fields persist across submissions.
type FormState struct {
	InputType      solver.InputType `json:"inputType"`
	MinizincFile   *solver.File     `json:"-"`
	DatazincFile   *solver.File     `json:"-"`
	MinizincText   string           `json:"minzincText"`
	DatazincText   string           `json:"datazincText"`
	TimeoutSeconds int              `json:"timeout"`
}

// MinizincFileName returns the selected model file name, if any.
func (f FormState) MinizincFileName() string {
	if f.MinizincFile == nil {
		return ""
	}
	return f.MinizincFile.Name
}

// DatazincFileName returns the selected data file name, if any.
func (f FormState) DatazincFileName() string {
	if f.DatazincFile == nil {
		return ""
	}
	return f.DatazincFile.Name
}

func (f FormState) clone() FormState {
	out := f
	out.MinizincFile = f.MinizincFile.Clone()
	out.DatazincFile = f.DatazincFile.Clone()
	return out
}

// submission snapshots the payload pair selected by InputType.
func (f FormState) submission() solver.Submission {
	sub := solver.Submission{
		InputType: f.InputType,
		Timeout:   f.TimeoutSeconds,
	}
	switch f.InputType {
	case solver.InputText:
		sub.MinizincText = f.MinizincText
		sub.DatazincText = f.DatazincText
	default:
		sub.InputType = solver.InputFile
		sub.MinizincFile = f.MinizincFile.Clone()
		sub.DatazincFile = f.DatazincFile.Clone()
	}
	return sub
}

// Result is what the page shows below the form.
type Result struct {
	Status     Status `json:"status"`
	OutputText string `json:"output"`
	ImageData  string `json:"image,omitempty"`
}

// HasImage reports whether an image is available.
func (r Result) HasImage() bool {
	return r.ImageData != ""
}

// ImageDataURI returns the image as a data:image/png URI.
func (r Result) ImageDataURI() string {
	return solver.ImageDataURI(r.ImageData)
}

// ClampTimeout converts raw timeout input to seconds. The leading integer of
// the input is used ("12.9" is 12, "5s" is 5); anything below the minimum,
// empty or non-numeric becomes MinTimeoutSeconds.
func ClampTimeout(raw string) int {
	trimmed := strings.TrimSpace(raw)
	end := 0
	if end < len(trimmed) && (trimmed[0] == '-' || trimmed[0] == '+') {
		end++
	}
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}

	value, err := strconv.Atoi(trimmed[:end])
	switch {
	case errors.Is(err, strconv.ErrRange) && trimmed[0] != '-':
		return MaxTimeoutSeconds
	case err != nil, value < MinTimeoutSeconds:
		return MinTimeoutSeconds
	case value > MaxTimeoutSeconds:
		return MaxTimeoutSeconds
	}
	return value
}
