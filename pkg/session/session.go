package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/solver"
)

// Solver performs one submission.
type Solver interface {
	Solve(ctx context.Context, sub solver.Submission) (solver.Response, error)
}

// Session is one visitor's submission controller.
type Session struct {
	mu sync.Mutex

	id             string
	translator     i18n.Translator
	logger         *zap.Logger
	minTimeout     int
	defaultTimeout int

	locale      i18n.Locale
	showInfo    bool
	form        FormState
	result      Result
	submissions int
	// submitLocale is the locale at BeginSubmit; failure text uses it even
	// when the language is toggled while loading.
	submitLocale i18n.Locale
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier.
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// WithLocale sets the initial display language.
func WithLocale(locale i18n.Locale) Option {
	return func(s *Session) {
		if locale != "" {
			s.locale = locale
		}
	}
}

// WithTranslator overrides the string table used for error messages.
func WithTranslator(t i18n.Translator) Option {
	return func(s *Session) {
		if t != nil {
			s.translator = t
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeoutBounds sets the timeout minimum and initial value, usually
// taken from the endpoint contract.
func WithTimeoutBounds(minimum, initial int) Option {
	return func(s *Session) {
		if minimum >= MinTimeoutSeconds {
			s.minTimeout = minimum
		}
		if initial >= MinTimeoutSeconds {
			s.defaultTimeout = initial
		}
	}
}

// WithInputType sets the initial input mode.
func WithInputType(t solver.InputType) Option {
	return func(s *Session) {
		if _, err := solver.ParseInputType(string(t)); err == nil {
			s.form.InputType = t
		}
	}
}

// New creates an idle session in file mode.
func New(options ...Option) *Session {
	s := &Session{
		logger:         zap.NewNop(),
		locale:         i18n.DefaultLocale,
		minTimeout:     MinTimeoutSeconds,
		defaultTimeout: DefaultTimeoutSeconds,
		form:           FormState{InputType: solver.InputFile},
		result:         Result{Status: StatusIdle},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.translator == nil {
		if catalog, err := i18n.Default(); err == nil {
			s.translator = catalog
		}
	}
	s.form.TimeoutSeconds = s.clampSeconds(s.defaultTimeout)
	s.logger = s.logger.With(zap.String("session", s.id))
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// SetInputType switches between file and text mode. Payloads of the other
// mode are kept so switching back restores them.
func (s *Session) SetInputType(t solver.InputType) error {
	if _, err := solver.ParseInputType(string(t)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.InputType = t
	return nil
}

// SetMinizincFile selects the model file; nil clears it.
func (s *Session) SetMinizincFile(f *solver.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.MinizincFile = f.Clone()
}

// SetDatazincFile selects the data file; nil clears it.
func (s *Session) SetDatazincFile(f *solver.File) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.DatazincFile = f.Clone()
}

// SetMinizincText replaces the model text.
func (s *Session) SetMinizincText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.MinizincText = text
}

// SetDatazincText replaces the data text.
func (s *Session) SetDatazincText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.DatazincText = text
}

// SetTimeout stores raw timeout input, clamped, and returns the stored value.
func (s *Session) SetTimeout(raw string) int {
	return s.SetTimeoutSeconds(ClampTimeout(raw))
}

// SetTimeoutSeconds stores seconds, clamped to the minimum.
func (s *Session) SetTimeoutSeconds(seconds int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form.TimeoutSeconds = s.clampSeconds(seconds)
	return s.form.TimeoutSeconds
}

func (s *Session) clampSeconds(seconds int) int {
	if seconds < s.minTimeout {
		return s.minTimeout
	}
	return seconds
}

// ToggleLanguage swaps the display language. Form values are untouched.
func (s *Session) ToggleLanguage() i18n.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = s.locale.Toggle()
	return s.locale
}

// SetLanguage selects a display language.
func (s *Session) SetLanguage(locale i18n.Locale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}

// Locale returns the active display language.
func (s *Session) Locale() i18n.Locale {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locale
}

// ToggleInfo shows or hides the info panel and returns the new visibility.
func (s *Session) ToggleInfo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showInfo = !s.showInfo
	return s.showInfo
}

// HideInfo closes the info panel.
func (s *Session) HideInfo() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showInfo = false
}

// BeginSubmit enters loading, discards the previous output and image, and
// returns the request to send.
func (s *Session) BeginSubmit() (solver.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result.Status == StatusLoading {
		return solver.Submission{}, ErrSubmissionInFlight
	}
	s.result = Result{Status: StatusLoading}
	s.submitLocale = s.locale
	s.submissions++

	sub := s.form.submission()
	s.logger.Info("submission started",
		zap.String("input_type", string(sub.InputType)),
		zap.Int("timeout", sub.Timeout),
		zap.Int("submission", s.submissions),
	)
	return sub, nil
}

// ResolveResponse applies a reply that arrived over a healthy transport.
// It reports false when the session was not loading.
func (s *Session) ResolveResponse(resp solver.Response) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result.Status != StatusLoading {
		return false
	}

	if !resp.Succeeded() {
		s.result = Result{
			Status:     StatusError,
			OutputText: s.errorText(resp.Output),
		}
		s.logger.Info("submission rejected by solver", zap.String("status", resp.Status))
		return true
	}

	result := Result{Status: StatusSuccess, OutputText: resp.Output}
	if resp.HasImage() {
		if _, err := solver.DecodeImage(resp.Image); err != nil {
			s.logger.Warn("dropping undecodable result image", zap.Error(err))
		} else {
			result.ImageData = resp.Image
		}
	}
	s.result = result
	s.logger.Info("submission solved", zap.Bool("image", result.HasImage()))
	return true
}

// ResolveError applies a transport failure. It reports false when the
// session was not loading.
func (s *Session) ResolveError(err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.result.Status != StatusLoading {
		return false
	}
	s.result = Result{
		Status:     StatusError,
		OutputText: s.errorText(solver.ErrorDetail(err)),
	}
	s.logger.Warn("submission failed", zap.Error(err))
	return true
}

func (s *Session) errorText(detail string) string {
	locale := s.submitLocale
	if locale == "" {
		locale = s.locale
	}
	return fmt.Sprintf("%s: %s", i18n.T(s.translator, locale, "genericError"), detail)
}

// Submit runs a full begin/solve/resolve cycle on the calling goroutine.
func (s *Session) Submit(ctx context.Context, sv Solver) (Result, error) {
	sub, err := s.BeginSubmit()
	if err != nil {
		return s.Result(), err
	}
	s.complete(ctx, sv, sub)
	return s.Result(), nil
}

// SubmitAsync enters loading on the calling goroutine and solves on a new
// one, calling done (if non-nil) with the final result.
func (s *Session) SubmitAsync(ctx context.Context, sv Solver, done func(Result)) error {
	sub, err := s.BeginSubmit()
	if err != nil {
		return err
	}
	go func() {
		s.complete(ctx, sv, sub)
		if done != nil {
			done(s.Result())
		}
	}()
	return nil
}

func (s *Session) complete(ctx context.Context, sv Solver, sub solver.Submission) {
	if ctx == nil {
		ctx = context.Background()
	}
	resp, err := sv.Solve(ctx, sub)
	if err != nil {
		s.ResolveError(err)
		return
	}
	s.ResolveResponse(resp)
}

// Result returns the current result.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SubmitDisabled reports whether the submit control must be disabled.
func (s *Session) SubmitDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result.Status == StatusLoading
}

// ImagePNG decodes the result image.
func (s *Session) ImagePNG() ([]byte, bool) {
	s.mu.Lock()
	data := s.result.ImageData
	s.mu.Unlock()
	if data == "" {
		return nil, false
	}
	decoded, err := solver.DecodeImage(data)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// Snapshot is a consistent copy of everything a renderer needs.
type Snapshot struct {
	ID             string      `json:"id"`
	Locale         i18n.Locale `json:"locale"`
	ShowInfo       bool        `json:"showInfo"`
	Form           FormState   `json:"form"`
	MinizincFile   string      `json:"minzincFile,omitempty"`
	DatazincFile   string      `json:"datazincFile,omitempty"`
	Result         Result      `json:"result"`
	SubmitDisabled bool        `json:"submitDisabled"`
	Submissions    int         `json:"submissions"`
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:             s.id,
		Locale:         s.locale,
		ShowInfo:       s.showInfo,
		Form:           s.form.clone(),
		MinizincFile:   s.form.MinizincFileName(),
		DatazincFile:   s.form.DatazincFileName(),
		Result:         s.result,
		SubmitDisabled: s.result.Status == StatusLoading,
		Submissions:    s.submissions,
	}
}
