// Package httpapi serves registered forms over HTTP with chi: definitions
// and widget views, server-side validation, and submission through each
// form's operation.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/i18n"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

const maxBodyBytes = 1 << 20

// Option customises the server.
type Option func(*Server)

// WithLogger sets the logger entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(s *Server) {
		if entry != nil {
			s.log = entry
		}
	}
}

// WithMetrics records submissions and requests and serves GET /metrics.
func WithMetrics(recorder *metrics.Recorder) Option {
	return func(s *Server) {
		s.metrics = recorder
	}
}

// WithTranslations localises messages using the Accept-Language header.
func WithTranslations(bundle *i18n.Bundle) Option {
	return func(s *Server) {
		s.i18n = bundle
	}
}

// WithRateLimit limits /forms requests per client address.
func WithRateLimit(limiter *ClientLimiter) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

// WithBindOptions forwards options to widget binding (reference sources,
// custom registries) when rendering views.
func WithBindOptions(options ...widgets.BindOption) Option {
	return func(s *Server) {
		s.bind = append(s.bind, options...)
	}
}

// Server is the HTTP host.
type Server struct {
	forms   *Registry
	log     *logrus.Entry
	metrics *metrics.Recorder
	i18n    *i18n.Bundle
	limiter *ClientLimiter
	bind    []widgets.BindOption

	once   sync.Once
	router chi.Router
}

// New returns a server for forms.
func New(forms *Registry, options ...Option) *Server {
	s := &Server{forms: forms, log: logging.Discard()}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	s.log = logging.Component(s.log, "httpapi")
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	s.once.Do(func() {
		s.router = s.routes()
	})
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/forms", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.Handler)
		}
		r.Method(http.MethodGet, "/", s.instrument("forms.list", s.listForms))
		r.Method(http.MethodGet, "/{id}", s.instrument("forms.show", s.showForm))
		r.Method(http.MethodPost, "/{id}/validate", s.instrument("forms.validate", s.validateForm))
		r.Method(http.MethodPost, "/{id}/submit", s.instrument("forms.submit", s.submitForm))
	})
	return r
}

func (s *Server) instrument(route string, fn http.HandlerFunc) http.Handler {
	if s.metrics == nil {
		return fn
	}
	return s.metrics.Instrument(route, fn)
}

type formSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title,omitempty"`
	Fields int    `json:"fields"`
}

func (s *Server) listForms(w http.ResponseWriter, _ *http.Request) {
	out := make([]formSummary, 0)
	for _, id := range s.forms.List() {
		entry, err := s.forms.Get(id)
		if err != nil {
			continue
		}
		out = append(out, formSummary{ID: id, Title: entry.Definition.Title, Fields: len(entry.Definition.Fields)})
	}
	writeJSON(w, http.StatusOK, out)
}

type formResponse struct {
	Definition model.FormDefinition `json:"definition"`
	Fields     []widgets.View       `json:"fields"`
}

func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	var initial map[string]any
	if entry.Initial != nil {
		initial = entry.Initial(r)
	}
	ctrl := form.NewController(entry.Definition, initial)
	bindings, err := widgets.BindAll(ctrl, s.bind...)
	if err != nil {
		s.log.WithError(err).WithField("form", entry.ID()).Error("bind widgets")
		writeError(w, http.StatusInternalServerError, "form cannot be rendered")
		return
	}
	state := ctrl.State()
	views := make([]widgets.View, 0, len(bindings))
	for _, binding := range bindings {
		views = append(views, binding.View(state))
	}
	writeJSON(w, http.StatusOK, formResponse{Definition: entry.Definition, Fields: views})
}

type validateResponse struct {
	Valid  bool              `json:"valid"`
	Errors validation.Errors `json:"errors"`
}

func (s *Server) validateForm(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}
	opts := []validation.Option{validation.WithTranslator(s.translator(r))}
	if fields := r.URL.Query()["field"]; len(fields) > 0 {
		opts = append(opts, validation.Only(fields...))
	}
	errs := validation.Validate(entry.Definition, values, opts...)
	writeJSON(w, http.StatusOK, validateResponse{Valid: errs.Valid(), Errors: errs})
}

type submitResponse struct {
	Status        form.Status           `json:"status"`
	Message       string                `json:"message,omitempty"`
	NavigateTo    string                `json:"navigateTo,omitempty"`
	Errors        map[string][]string   `json:"errors,omitempty"`
	FormErrors    []string              `json:"formErrors,omitempty"`
	Notifications []submit.Notification `json:"notifications,omitempty"`
}

func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.entry(w, r)
	if !ok {
		return
	}
	values, ok := decodeValues(w, r)
	if !ok {
		return
	}
	op, err := entry.Operation(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log := s.log.WithFields(logrus.Fields{"form": entry.ID(), "request_id": middleware.GetReqID(r.Context())})
	tr := s.translator(r)
	ctrl := form.NewController(entry.Definition, values,
		form.WithValidationOptions(validation.WithTranslator(tr)),
		form.WithLogger(log),
	)

	var notifications []submit.Notification
	options := []submit.Option{
		submit.WithRedirect(entry.Definition.Metadata["redirect"]),
		submit.WithLogger(log),
		submit.WithNotifier(submit.NotifierFunc(func(_ context.Context, n submit.Notification) error {
			notifications = append(notifications, n)
			return nil
		})),
	}
	if t, ok := tr.(*i18n.Translator); ok {
		options = append(options,
			submit.WithFailureMessage(t.FailureMessage()),
			submit.WithNotificationTitle(t.NotificationTitle()),
		)
	}
	if s.metrics != nil {
		options = append(options, submit.WithObserver(s.metrics))
	}

	result, err := submit.New(ctrl, op, options...).Submit(r.Context())
	state := ctrl.State()
	resp := submitResponse{
		Status:        result.Status,
		Message:       result.Message,
		NavigateTo:    result.NavigateTo,
		Errors:        state.Errors(),
		FormErrors:    state.FormErrors(),
		Notifications: notifications,
	}
	switch {
	case submit.IsValidation(err):
		writeJSON(w, http.StatusUnprocessableEntity, resp)
	case err != nil:
		log.WithError(err).Error("submit")
		writeError(w, http.StatusInternalServerError, "submission could not run")
	case result.IsFailure():
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) entry(w http.ResponseWriter, r *http.Request) (Entry, bool) {
	entry, err := s.forms.Get(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrFormNotFound) {
			writeError(w, http.StatusNotFound, "form not found")
			return Entry{}, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return Entry{}, false
	}
	return entry, true
}

func (s *Server) translator(r *http.Request) validation.Translator {
	if s.i18n == nil {
		return validation.DefaultTranslator()
	}
	return s.i18n.Translator(r.Header.Get("Accept-Language"))
}

func decodeValues(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	values := map[string]any{}
	if err := dec.Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON body: %v", strings.TrimSpace(err.Error())))
		return nil, false
	}
	return values, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
