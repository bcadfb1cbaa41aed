package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-solverform/internal/server"
	"github.com/goliatone/go-solverform/pkg/contract"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
	"github.com/goliatone/go-solverform/pkg/testsupport"
)

type harness struct {
	t      *testing.T
	solver *testsupport.SolverServer
	app    *server.Server
	http   *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T, reply solver.Response) *harness {
	t.Helper()

	fake := testsupport.NewSolverServerJSON(t, reply)
	ct, err := contract.Load(testsupport.Context())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	client, err := solver.NewClient(fake.URL+"/solve", solver.WithContract(ct))
	if err != nil {
		t.Fatalf("solver client: %v", err)
	}
	app, err := server.New(client, server.WithRenderOptions(render.RenderOptions{Form: ct.Form}))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	ts := httptest.NewServer(app.Handler())
	t.Cleanup(func() {
		fake.Release()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Wait(ctx)
		ts.Close()
	})

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &harness{
		t:      t,
		solver: fake,
		app:    app,
		http:   ts,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (h *harness) get(path string) (*http.Response, string) {
	h.t.Helper()
	resp, err := h.client.Get(h.http.URL + path)
	if err != nil {
		h.t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func (h *harness) postForm(path string, values url.Values) *http.Response {
	h.t.Helper()
	resp, err := h.client.PostForm(h.http.URL+path, values)
	if err != nil {
		h.t.Fatalf("POST %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (h *harness) postMultipart(path string, values map[string]string, files map[string][2]string) *http.Response {
	h.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range values {
		if err := writer.WriteField(name, value); err != nil {
			h.t.Fatalf("write field: %v", err)
		}
	}
	for name, file := range files {
		part, err := writer.CreateFormFile(name, file[0])
		if err != nil {
			h.t.Fatalf("create file: %v", err)
		}
		_, _ = io.WriteString(part, file[1])
	}
	if err := writer.Close(); err != nil {
		h.t.Fatalf("close writer: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, h.http.URL+path, &body)
	if err != nil {
		h.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("POST %s: %v", path, err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func (h *harness) snapshot() session.Snapshot {
	h.t.Helper()
	_, body := h.get("/api/session")
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		h.t.Fatalf("decode session: %v\n%s", err, body)
	}
	return snap
}

func (h *harness) waitSettled() session.Snapshot {
	h.t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := h.snapshot()
		if snap.Result.Status != session.StatusLoading {
			return snap
		}
		if time.Now().After(deadline) {
			h.t.Fatalf("submission did not settle")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPage_IssuesSessionCookie(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success", Output: "ok"})

	resp, body := h.get("/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var found bool
	for _, cookie := range resp.Cookies() {
		if cookie.Name == server.CookieName && cookie.Value != "" {
			found = true
			if !cookie.HttpOnly {
				t.Fatalf("session cookie should be HttpOnly")
			}
		}
	}
	if !found {
		t.Fatalf("expected %s cookie", server.CookieName)
	}
	if !strings.Contains(body, "Carica file") {
		t.Fatalf("expected italian page, got:\n%s", body)
	}

	first := h.snapshot().ID
	if second := h.snapshot().ID; first != second {
		t.Fatalf("session should be reused, got %q then %q", first, second)
	}
}

func TestSolve_FileModeRoundTrip(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success", Output: "x = 3;", Image: "iVBORw0KGgo="})
	h.get("/")

	resp := h.postMultipart("/solve",
		map[string]string{solver.FieldInputType: "file", solver.FieldTimeout: "30"},
		map[string][2]string{solver.FieldMinizincFile: {"model.mzn", "var int: x;"}},
	)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	snap := h.waitSettled()
	if snap.Result.Status != session.StatusSuccess || snap.Result.OutputText != "x = 3;" {
		t.Fatalf("unexpected result: %+v", snap.Result)
	}
	if snap.MinizincFile != "model.mzn" || snap.Form.TimeoutSeconds != 30 {
		t.Fatalf("form not stored: %+v", snap)
	}

	sent := h.solver.LastRequest(t)
	if sent.Values[solver.FieldInputType] != "file" || sent.Values[solver.FieldTimeout] != "30" {
		t.Fatalf("unexpected values sent: %+v", sent.Values)
	}
	if sent.Files[solver.FieldMinizincFile].Data != "var int: x;" {
		t.Fatalf("model file not forwarded: %+v", sent.Files)
	}
	if _, ok := sent.Values[solver.FieldMinizincText]; ok {
		t.Fatalf("text fields must not be sent in file mode")
	}

	imgResp, img := h.get("/result.png")
	if imgResp.StatusCode != http.StatusOK || imgResp.Header.Get("Content-Type") != "image/png" {
		t.Fatalf("expected png, got %d %s", imgResp.StatusCode, imgResp.Header.Get("Content-Type"))
	}
	if len(img) != 8 {
		t.Fatalf("expected 8 decoded bytes, got %d", len(img))
	}
}

func TestSolve_RejectsOverlappingSubmission(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success", Output: "done"})
	h.get("/")
	h.solver.Hold()

	text := url.Values{
		solver.FieldInputType:    {"text"},
		solver.FieldMinizincText: {"solve satisfy;"},
	}
	if resp := h.postForm("/solve", text); resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}
	if snap := h.snapshot(); !snap.SubmitDisabled {
		t.Fatalf("submit should be disabled while loading")
	}
	if resp := h.postForm("/solve", text); resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 while loading, got %d", resp.StatusCode)
	}

	_, page := h.get("/")
	if strings.Contains(page, `http-equiv="refresh"`) {
		t.Fatalf("loading page must not reload itself")
	}
	if !strings.Contains(page, `data-poll-url="/api/session"`) || !strings.Contains(page, `/assets/solverform.js`) {
		t.Fatalf("loading page should poll the session:\n%s", page)
	}
	if resp, _ := h.get("/assets/solverform.js"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected poll script, got %d", resp.StatusCode)
	}

	h.solver.Release()
	snap := h.waitSettled()
	if snap.Result.OutputText != "done" {
		t.Fatalf("unexpected result: %+v", snap.Result)
	}
	if n := len(h.solver.Requests()); n != 1 {
		t.Fatalf("expected one solver request, got %d", n)
	}
}

func TestLanguageToggle_KeepsTypedValues(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success"})
	h.get("/")

	h.postForm("/mode", url.Values{"mode": {"text"}})
	h.postForm("/language", url.Values{
		solver.FieldMinizincText: {"var 1..3: y;"},
		solver.FieldTimeout:      {"12"},
	})

	snap := h.snapshot()
	if snap.Locale != "en" {
		t.Fatalf("expected english, got %q", snap.Locale)
	}
	if snap.Form.InputType != solver.InputText || snap.Form.MinizincText != "var 1..3: y;" || snap.Form.TimeoutSeconds != 12 {
		t.Fatalf("form values lost: %+v", snap.Form)
	}

	_, body := h.get("/")
	if !strings.Contains(body, "Write model") || !strings.Contains(body, "var 1..3: y;") {
		t.Fatalf("expected english text mode page with typed model:\n%s", body)
	}

	h.postForm("/language", url.Values{"lang": {"it"}})
	if snap := h.snapshot(); snap.Locale != "it" {
		t.Fatalf("expected italian, got %q", snap.Locale)
	}
}

func TestSync_StoresEditsMadeWhileLoading(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success", Output: "first"})
	h.get("/")
	h.solver.Hold()

	h.postForm("/solve", url.Values{
		solver.FieldInputType:    {"text"},
		solver.FieldMinizincText: {"solve satisfy;"},
	})
	h.solver.Release()
	h.waitSettled()

	resp := h.postMultipart("/sync",
		map[string]string{
			solver.FieldInputType:    "text",
			solver.FieldMinizincText: "var 0..9: z; solve satisfy;",
			solver.FieldTimeout:      "20",
		}, nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	snap := h.snapshot()
	if snap.Form.MinizincText != "var 0..9: z; solve satisfy;" || snap.Form.TimeoutSeconds != 20 {
		t.Fatalf("edits not stored: %+v", snap.Form)
	}
	if snap.Result.OutputText != "first" {
		t.Fatalf("sync must not touch the result: %+v", snap.Result)
	}
}

func TestInfoToggle(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success"})
	h.get("/")

	h.postForm("/info", nil)
	if !h.snapshot().ShowInfo {
		t.Fatalf("info should be visible")
	}
	h.postForm("/info/hide", nil)
	if h.snapshot().ShowInfo {
		t.Fatalf("info should be hidden")
	}
}

func TestBadInput(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success"})
	h.get("/")

	if resp := h.postForm("/mode", url.Values{"mode": {"json"}}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", resp.StatusCode)
	}
	if resp := h.postForm("/language", url.Values{"lang": {"fr"}}); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown locale, got %d", resp.StatusCode)
	}
}

func TestResultImage_NotFoundBeforeSolve(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success"})
	if resp, _ := h.get("/result.png"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestHealthAndAssets(t *testing.T) {
	h := newHarness(t, solver.Response{Status: "success"})

	if resp, body := h.get("/healthz"); resp.StatusCode != http.StatusOK || body != "ok" {
		t.Fatalf("unexpected health reply %d %q", resp.StatusCode, body)
	}
	if resp, _ := h.get("/assets/solverform.css"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected stylesheet, got %d", resp.StatusCode)
	}
}

func TestNew_RequiresSolver(t *testing.T) {
	if _, err := server.New(nil); err == nil {
		t.Fatalf("expected error without solver")
	}
}
