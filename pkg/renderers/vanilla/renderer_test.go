package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-solverform/pkg/contract"
	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/render"
	"github.com/goliatone/go-solverform/pkg/renderers/vanilla"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
	"github.com/goliatone/go-solverform/pkg/theming"
)

type stubSolver solver.Response

func (s stubSolver) Solve(context.Context, solver.Submission) (solver.Response, error) {
	return solver.Response(s), nil
}

func renderPage(t *testing.T, s *session.Session, mutate ...func(*render.RenderOptions)) string {
	t.Helper()
	ct, err := contract.Load(context.Background())
	if err != nil {
		t.Fatalf("load contract: %v", err)
	}
	opts := render.RenderOptions{Form: ct.Form, Translator: i18n.MustDefault()}
	for _, fn := range mutate {
		fn(&opts)
	}

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), s.Snapshot(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output to omit %q\n%s", fragment, html)
		}
	}
}

func TestRenderer_FileModePage(t *testing.T) {
	html := renderPage(t, session.New())

	assertContains(t, html,
		`<html lang="it">`,
		`Change to English`,
		`enctype="multipart/form-data"`,
		`name="inputType" value="file"`,
		`name="mode" value="text" formaction="/mode"`,
		`form="solve-form" formaction="/language"`,
		`type="file" id="field-minzincFile" name="minzincFile" accept=".mzn"`,
		`accept=".dzn"`,
		`type="number" id="field-timeout" name="timeout" min="1" value="60"`,
		`href="/assets/solverform.css"`,
	)
	assertNotContains(t, html, `<textarea`, `data-section="result"`, `http-equiv="refresh"`, ` disabled`)
}

func TestRenderer_TextModeKeepsTypedModel(t *testing.T) {
	s := session.New(session.WithLocale(i18n.English))
	_ = s.SetInputType(solver.InputText)
	s.SetMinizincText("var 1..3: x; solve maximize x;")

	html := renderPage(t, s)
	assertContains(t, html,
		`<html lang="en">`,
		`Cambia in Italiano`,
		`rows="6" placeholder="Enter your MiniZinc model here..."`,
		`var 1..3: x; solve maximize x;</textarea>`,
		`rows="4"`,
	)
	assertNotContains(t, html, `type="file"`)
}

func TestRenderer_LoadingDisablesSubmit(t *testing.T) {
	s := session.New(session.WithLocale(i18n.English))
	if _, err := s.BeginSubmit(); err != nil {
		t.Fatalf("begin: %v", err)
	}

	html := renderPage(t, s)
	assertContains(t, html,
		` disabled>Processing...</button>`,
		`Finding solutions...`,
		`data-poll-url="/api/session" data-sync-url="/sync" data-poll-seconds="2"`,
		`<script src="/assets/solverform.js" defer></script>`,
		`<noscript><a class="solverform__refresh" href="/">Refresh</a></noscript>`,
	)
	assertNotContains(t, html, `http-equiv="refresh"`)
}

func TestRenderer_ResultAndImage(t *testing.T) {
	s := session.New(session.WithLocale(i18n.English))
	if _, err := s.Submit(context.Background(), stubSolver{Status: "success", Output: "x=5", Image: "iVBORw0KGgo="}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	html := renderPage(t, s)
	assertContains(t, html,
		`<h2>Result:</h2>`,
		`<pre>x=5</pre>`,
		`<h2>Pareto Front Graph:</h2>`,
		`src="data:image/png;base64,iVBORw0KGgo="`,
	)
}

func TestRenderer_EscapesSolverOutput(t *testing.T) {
	s := session.New()
	if _, err := s.Submit(context.Background(), stubSolver{Status: "success", Output: "<script>alert(1)</script>"}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	html := renderPage(t, s)
	assertNotContains(t, html, "<script>alert(1)</script>")
	assertContains(t, html, "&lt;script&gt;")
}

func TestRenderer_InfoPanelReplacesForm(t *testing.T) {
	s := session.New(session.WithLocale(i18n.English))
	s.ToggleInfo()

	html := renderPage(t, s)
	assertContains(t, html, `data-section="info"`, `This is a MiniZinc solver`)
	assertNotContains(t, html, `data-section="form"`)

	html = renderPage(t, s, func(opts *render.RenderOptions) {
		opts.InfoHTML = render.NewSanitizer().Sanitize(`<p>Custom <em>help</em><script>x</script></p>`)
	})
	assertContains(t, html, `<p>Custom <em>help</em></p>`)
	assertNotContains(t, html, `<script>x</script>`)
}

func TestRenderer_ThemeVariables(t *testing.T) {
	cfg, err := theming.NewCatalog().Resolve("", "dark")
	if err != nil {
		t.Fatalf("resolve theme: %v", err)
	}

	html := renderPage(t, session.New(), func(opts *render.RenderOptions) {
		opts.Theme = cfg
	})
	assertContains(t, html, `solverform--dark`, `--color-bg: #111827;`)
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.tpl":            {Data: []byte(`{{ view.Title }}|{% include partials.result %}`)},
		"partials/result.tpl": {Data: []byte(`{{ view.SubmitLabel }}`)},
	}
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), session.New(session.WithLocale(i18n.English)).Snapshot(), render.RenderOptions{Translator: i18n.MustDefault()})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "MiniZinc Solver|Solve" {
		t.Fatalf("unexpected output %q", out)
	}
}
