package testsupport

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// Diff returns a cmp diff between want and got.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}

// RecordedRequest is one multipart submission captured by SolverServer.
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Values      map[string]string
	Files       map[string]RecordedFile
}

// RecordedFile is an uploaded part captured by SolverServer.
type RecordedFile struct {
	Filename string
	Data     string
}

// FieldNames returns every value and file field name, sorted.
func (r RecordedRequest) FieldNames() []string {
	names := make([]string, 0, len(r.Values)+len(r.Files))
	for name := range r.Values {
		names = append(names, name)
	}
	for name := range r.Files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SolverServer fakes the solving service: it records each multipart request
// and answers with the configured status code and JSON body.
type SolverServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	status   int
	body     string
	gate     chan struct{}
}

// NewSolverServer starts a fake solver answering 200 with body. The server is
// closed through t.Cleanup.
func NewSolverServer(t *testing.T, body string) *SolverServer {
	t.Helper()

	s := &SolverServer{status: http.StatusOK, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(func() {
		s.Release()
		s.Close()
	})
	return s
}

// NewSolverServerJSON starts a fake solver answering with value encoded as JSON.
func NewSolverServerJSON(t *testing.T, value any) *SolverServer {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal solver reply: %v", err)
	}
	return NewSolverServer(t, string(payload))
}

// Reply changes the status code and body of subsequent answers.
func (s *SolverServer) Reply(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
	s.body = body
}

// Hold makes the server block every request until Release is called.
func (s *SolverServer) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
}

// Release unblocks held requests.
func (s *SolverServer) Release() {
	s.mu.Lock()
	gate := s.gate
	s.gate = nil
	s.mu.Unlock()
	if gate != nil {
		close(gate)
	}
}

// Requests returns a copy of every recorded request.
func (s *SolverServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request or fails the test.
func (s *SolverServer) LastRequest(t *testing.T) RecordedRequest {
	t.Helper()
	requests := s.Requests()
	if len(requests) == 0 {
		t.Fatalf("solver server received no requests")
	}
	return requests[len(requests)-1]
}

func (s *SolverServer) handle(w http.ResponseWriter, r *http.Request) {
	recorded := RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Values:      map[string]string{},
		Files:       map[string]RecordedFile{},
	}
	if err := r.ParseMultipartForm(32 << 20); err == nil && r.MultipartForm != nil {
		for name, values := range r.MultipartForm.Value {
			if len(values) > 0 {
				recorded.Values[name] = values[0]
			}
		}
		for name, headers := range r.MultipartForm.File {
			if len(headers) == 0 {
				continue
			}
			file, err := headers[0].Open()
			if err != nil {
				continue
			}
			data, _ := io.ReadAll(file)
			_ = file.Close()
			recorded.Files[name] = RecordedFile{Filename: headers[0].Filename, Data: string(data)}
		}
	}

	s.mu.Lock()
	s.requests = append(s.requests, recorded)
	status, body, gate := s.status, s.body, s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
