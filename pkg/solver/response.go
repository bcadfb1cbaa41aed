package solver

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// StatusSuccess is the only status value treated as success.
const StatusSuccess = "success"

// ImageMIMEType is the media type of result images.
const ImageMIMEType = "image/png"

// Response is the decoded JSON reply of the solving service.
type Response struct {
	Status string `json:"status"`
	Output string `json:"output"`
	Image  string `json:"image,omitempty"`
}

// UnmarshalJSON accepts any JSON type for status. A non-string status keeps
// its raw text, so it can never equal StatusSuccess.
func (r *Response) UnmarshalJSON(data []byte) error {
	var raw struct {
		Status json.RawMessage `json:"status"`
		Output string          `json:"output"`
		Image  string          `json:"image"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Response{Output: raw.Output, Image: raw.Image}

	status := bytes.TrimSpace(raw.Status)
	if len(status) == 0 || bytes.Equal(status, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(status, &r.Status); err != nil {
		r.Status = string(status)
	}
	return nil
}

// Succeeded reports whether the service flagged success.
func (r Response) Succeeded() bool {
	return r.Status == StatusSuccess
}

// HasImage reports whether the reply carried image data.
func (r Response) HasImage() bool {
	return strings.TrimSpace(r.Image) != ""
}

// ImageDataURI returns the image as a data URI, or "" when absent.
func (r Response) ImageDataURI() string {
	return ImageDataURI(r.Image)
}

// ImageDataURI wraps base64 PNG data in a data URI.
func ImageDataURI(data string) string {
	if strings.TrimSpace(data) == "" {
		return ""
	}
	return "data:" + ImageMIMEType + ";base64," + data
}

// DecodeImage decodes base64 PNG data, tolerating unpadded input.
func DecodeImage(data string) ([]byte, error) {
	trimmed := strings.TrimSpace(data)
	if trimmed == "" {
		return nil, errors.New("solver: image data is empty")
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err == nil {
		return decoded, nil
	}
	decoded, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(trimmed, "="))
	if rawErr == nil {
		return decoded, nil
	}
	return nil, fmt.Errorf("solver: decode image: %w", err)
}
