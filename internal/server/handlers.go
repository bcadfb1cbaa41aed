package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-solverform/pkg/i18n"
	"github.com/goliatone/go-solverform/pkg/session"
	"github.com/goliatone/go-solverform/pkg/solver"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.writePage(w, r, s.sessionFor(w, r), http.StatusOK)
}

func (s *Server) writePage(w http.ResponseWriter, r *http.Request, sess *session.Session, status int) {
	out, err := s.renderer.Render(r.Context(), sess.Snapshot(), s.renderOptions)
	if err != nil {
		s.logger.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(out)
}

func (s *Server) redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}

	s.inflight.Add(1)
	err := sess.SubmitAsync(s.baseCtx, s.solver, func(result session.Result) {
		defer s.inflight.Done()
		s.logger.Info("submission finished",
			zap.String("session", sess.ID()),
			zap.String("status", string(result.Status)),
		)
	})
	if errors.Is(err, session.ErrSubmissionInFlight) {
		s.inflight.Done()
		s.writePage(w, r, sess, http.StatusConflict)
		return
	}
	if err != nil {
		s.inflight.Done()
		s.badRequest(w, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}
	if mode := r.FormValue("mode"); mode != "" {
		if err := sess.SetInputType(solver.InputType(mode)); err != nil {
			s.badRequest(w, err)
			return
		}
	}
	s.redirectHome(w, r)
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}
	if raw := r.FormValue("lang"); raw != "" {
		locale, err := i18n.ParseLocale(raw)
		if err != nil {
			s.badRequest(w, err)
			return
		}
		sess.SetLanguage(locale)
	} else {
		sess.ToggleLanguage()
	}
	s.redirectHome(w, r)
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}
	sess.ToggleInfo()
	s.redirectHome(w, r)
}

func (s *Server) handleInfoHide(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}
	sess.HideInfo()
	s.redirectHome(w, r)
}

// handleSync stores the posted form without any other change. The page posts
// here once a solve finishes.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	sess := s.sessionFor(w, r)
	if err := s.applyForm(w, r, sess); err != nil {
		s.badRequest(w, err)
		return
	}
	s.redirectHome(w, r)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	data, ok := s.sessionFor(w, r).ImagePNG()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) handleSessionJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.sessionFor(w, r).Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(snap); err != nil {
		s.logger.Warn("encode session", zap.Error(err))
	}
}

func (s *Server) badRequest(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
		return
	}
	s.logger.Debug("bad request", zap.Error(err))
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// applyForm stores whatever form values the request carries. Toggle buttons
// submit the solve form too, so typed text, chosen files and the timeout
// survive every round trip. Empty file inputs keep the current file.
func (s *Server) applyForm(w http.ResponseWriter, r *http.Request, sess *session.Session) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	err := r.ParseMultipartForm(s.maxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return err
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if values, ok := r.Form[solver.FieldInputType]; ok && len(values) > 0 {
		if err := sess.SetInputType(solver.InputType(values[0])); err != nil {
			return err
		}
	}
	if values, ok := r.Form[solver.FieldMinizincText]; ok && len(values) > 0 {
		sess.SetMinizincText(values[0])
	}
	if values, ok := r.Form[solver.FieldDatazincText]; ok && len(values) > 0 {
		sess.SetDatazincText(values[0])
	}
	if values, ok := r.Form[solver.FieldTimeout]; ok && len(values) > 0 {
		sess.SetTimeout(values[0])
	}

	if r.MultipartForm == nil {
		return nil
	}
	for name, set := range map[string]func(*solver.File){
		solver.FieldMinizincFile: sess.SetMinizincFile,
		solver.FieldDatazincFile: sess.SetDatazincFile,
	} {
		headers := r.MultipartForm.File[name]
		if len(headers) == 0 || headers[0].Filename == "" {
			continue
		}
		file, err := readUpload(headers[0])
		if err != nil {
			return err
		}
		set(file)
	}
	return nil
}

func readUpload(header *multipart.FileHeader) (*solver.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &solver.File{Name: filepath.Base(header.Filename), Data: data}, nil
}
