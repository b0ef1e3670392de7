package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deepnoodle-ai/puregate"
	"github.com/deepnoodle-ai/puregate/parser"
	"github.com/deepnoodle-ai/puregate/purity"
	"github.com/deepnoodle-ai/puregate/style"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const maxRequestBytes = 4 << 20

type validateRequest struct {
	Source           string            `json:"source"`
	Filename         string            `json:"filename,omitempty"`
	Convention       string            `json:"convention,omitempty"`
	SkipStyle        bool              `json:"skip_style,omitempty"`
	MaxErrors        int               `json:"max_errors,omitempty"`
	AllowIdentifiers []string          `json:"allow_identifiers,omitempty"`
	AllowMembers     []string          `json:"allow_members,omitempty"`
	Rules            map[string]string `json:"rules,omitempty"`
}

type batchRequest struct {
	Inputs []validateRequest `json:"inputs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (req validateRequest) options(base style.Config) ([]puregate.CallOption, error) {
	opts := []puregate.CallOption{puregate.WithMaxErrors(req.MaxErrors)}
	if len(base) > 0 {
		opts = append(opts, puregate.WithStyleRules(base))
	}
	if req.Convention != "" {
		c, err := parser.ParseConvention(req.Convention)
		if err != nil {
			return nil, err
		}
		opts = append(opts, puregate.WithConvention(c))
	}
	if req.Filename != "" {
		opts = append(opts, puregate.WithFilename(req.Filename))
	}
	if req.SkipStyle {
		opts = append(opts, puregate.SkipStyle())
	}
	if len(req.AllowIdentifiers) > 0 {
		opts = append(opts, puregate.WithAllowedIdentifiers(req.AllowIdentifiers...))
	}
	if len(req.AllowMembers) > 0 {
		opts = append(opts, puregate.WithAllowedMembers(req.AllowMembers...))
	}
	if len(req.Rules) > 0 {
		rules := make(style.Config, len(req.Rules))
		for name, text := range req.Rules {
			level, err := style.ParseLevel(text)
			if err != nil {
				return nil, fmt.Errorf("rule %s: %w", name, err)
			}
			rules[name] = level
		}
		opts = append(opts, puregate.WithStyleRules(rules))
	}
	return opts, nil
}

// server handles API requests. rules are the levels from --style-config;
// request rules win over them.
type server struct {
	validator *puregate.Validator
	engine    *style.Engine
	rules     style.Config
	logger    zerolog.Logger
	jobs      int
}

func newRouter(s *server) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/validate", s.handleValidate)
		r.Post("/syntax", s.handleSyntax)
		r.Post("/batch", s.handleBatch)
		r.Get("/rules", s.handleRules)
	})
	return r
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	})
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.options(s.rules)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.validator.Validate(r.Context(), req.Source, opts...))
}

func (s *server) handleSyntax(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if !decode(w, r, &req) {
		return
	}
	opts, err := req.options(s.rules)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, s.validator.ValidateSyntax(r.Context(), req.Source, opts...))
}

func (s *server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !decode(w, r, &req) {
		return
	}
	inputs := make([]puregate.Input, len(req.Inputs))
	for i, in := range req.Inputs {
		opts, err := in.options(s.rules)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("input %d: %v", i, err)})
			return
		}
		inputs[i] = puregate.Input{Source: in.Source, Options: opts}
	}
	reports, err := s.validator.ValidateConcurrent(r.Context(), inputs, s.jobs)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *server) handleRules(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, listRules(purity.DefaultRules(), s.engine, s.engine.Defaults()))
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the validation pipeline over HTTP",
		Long: `Serve exposes the pipeline as a JSON API:

  POST /v1/validate  full pipeline for one source
  POST /v1/syntax    syntax stage only
  POST /v1/batch     full pipeline for many sources
  GET  /v1/rules     forbidden purity patterns and style rules
  GET  /healthz      liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var extra []puregate.Option
			if a.v.GetBool("cache") {
				c, err := puregate.NewFileCache(a.v.GetString("cache-dir"))
				if err != nil {
					return err
				}
				extra = append(extra, puregate.WithCache(c))
			}
			engine, fileRules, err := a.engine()
			if err != nil {
				return err
			}
			v := puregate.New(append([]puregate.Option{
				puregate.WithLogger(a.logger),
				puregate.WithLinter(engine),
			}, extra...)...)
			s := &server{
				validator: v,
				engine:    engine,
				rules:     fileRules,
				logger:    a.logger,
				jobs:      a.v.GetInt("jobs"),
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listen(ctx, a.v.GetString("addr"), newRouter(s), a.logger)
		},
	}
	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.IntP("jobs", "j", 0, "concurrent workers per batch request (0 uses GOMAXPROCS)")
	flags.Bool("cache", false, "reuse cached reports")
	flags.String("cache-dir", "", "cache directory (defaults to the user cache dir)")
	flags.String("style-config", "", "TOML file with style rule levels and max_len")
	return cmd
}

// listen serves handler until ctx is done, then shuts down gracefully.
func listen(ctx context.Context, addr string, handler http.Handler, logger zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
