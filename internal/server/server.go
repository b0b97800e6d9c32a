// =============================================================================
// Net Sales Summarizer - HTTP API
// =============================================================================
//
// This module exposes the summarizer over HTTP.
//
// ROUTES:
//   POST /api/v1/summaries/text      JSON {"text": "..."}       -> Response
//   POST /api/v1/summaries/workbook  multipart field "file"     -> Response
//   POST /api/v1/exports             either of the above        -> XLSX
//   GET  /healthz
//   GET  /metrics
//
// Informational outcomes (empty input, no DKPC rows, ...) are valid answers
// and are returned with 200. Only transport problems get an APIError. An
// export that produced no groups returns its Response with 422.
//
// =============================================================================

package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ginjaninja78/net-sales-summarizer/internal/report"
	"github.com/ginjaninja78/net-sales-summarizer/internal/summarizer"
	"github.com/ginjaninja78/net-sales-summarizer/pkg/utils"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// XLSXContentType is the media type of exported workbooks.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	defaultMaxUploadBytes = 10 << 20
	requestTimeout        = 60 * time.Second
	shutdownTimeout       = 10 * time.Second
)

// Options configures a Server.
type Options struct {
	// MaxUploadBytes caps request bodies. Zero means 10 MiB.
	MaxUploadBytes int64

	// ExportFileName is the name pattern of exported workbooks.
	ExportFileName string

	// Version is reported by /healthz.
	Version string

	Logger *slog.Logger
}

// Server is the HTTP shell around a summarizer.Service.
type Server struct {
	svc            *summarizer.Service
	logger         *slog.Logger
	metrics        *Metrics
	maxUploadBytes int64
	exportFileName string
	version        string
}

// New creates a Server.
func New(svc *summarizer.Service, opts Options) *Server {
	s := &Server{
		svc:            svc,
		logger:         opts.Logger,
		metrics:        NewMetrics(),
		maxUploadBytes: opts.MaxUploadBytes,
		exportFileName: opts.ExportFileName,
		version:        opts.Version,
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("handler", "summaries"))
	if s.maxUploadBytes <= 0 {
		s.maxUploadBytes = defaultMaxUploadBytes
	}
	if s.exportFileName == "" {
		s.exportFileName = report.DefaultExportFileName
	}
	return s
}

// Routes returns the router of the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = render.Render(w, r, ErrNotFound)
	})

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Post("/summaries/text", s.handleText)
		r.Post("/summaries/workbook", s.handleWorkbook)
		r.Post("/exports", s.handleExport)
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}

// =============================================================================
// REQUESTS
// =============================================================================

// validate reports failures by JSON field name.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// TextRequest is the JSON body of the text routes. An empty text is valid
// and is answered as empty input; a missing one is not.
type TextRequest struct {
	Text *string `json:"text" validate:"required"`
}

// Bind implements render.Binder.
func (t *TextRequest) Bind(r *http.Request) error {
	return validate.Struct(t)
}

// =============================================================================
// HANDLERS
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

func (s *Server) handleText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	text, apiErr := s.bindText(w, r)
	if apiErr != nil {
		s.fail(w, r, "text", start, apiErr)
		return
	}

	resp := s.svc.SummarizeText(r.Context(), text)
	s.metrics.observe("text", string(resp.Outcome), len(resp.Groups), start)
	render.JSON(w, r, resp)
}

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	file, apiErr := s.formFile(w, r)
	if apiErr != nil {
		s.fail(w, r, "workbook", start, apiErr)
		return
	}
	defer file.Close()

	resp := s.svc.SummarizeWorkbook(r.Context(), file)
	s.metrics.observe("workbook", string(resp.Outcome), len(resp.Groups), start)
	render.JSON(w, r, resp)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var resp *summarizer.Response
	if isMultipart(r) {
		file, apiErr := s.formFile(w, r)
		if apiErr != nil {
			s.fail(w, r, "export", start, apiErr)
			return
		}
		defer file.Close()
		resp = s.svc.SummarizeWorkbook(r.Context(), file)
	} else {
		text, apiErr := s.bindText(w, r)
		if apiErr != nil {
			s.fail(w, r, "export", start, apiErr)
			return
		}
		resp = s.svc.SummarizeText(r.Context(), text)
	}

	if !resp.HasTable() {
		s.metrics.observe("export", string(resp.Outcome), 0, start)
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, resp)
		return
	}

	var buf bytes.Buffer
	if err := s.svc.Export(&buf, resp.Groups); err != nil {
		s.logger.ErrorContext(r.Context(), "export failed",
			slog.String("request_id", resp.RequestID),
			slog.String("error", err.Error()))
		s.fail(w, r, "export", start, ErrInternal)
		return
	}

	name := utils.GenerateOutputFileName(s.exportFileName, nil)
	w.Header().Set("Content-Type", XLSXContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("request_id", resp.RequestID),
			slog.String("error", err.Error()))
	}

	s.metrics.observe("export", string(resp.Outcome), len(resp.Groups), start)
}

// fail renders a transport error and counts it.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, route string, start time.Time, apiErr *APIError) {
	s.metrics.observe(route, strings.ToLower(apiErr.ErrorCode), 0, start)
	if err := render.Render(w, r, apiErr); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render error", slog.String("error", err.Error()))
	}
}

// =============================================================================
// BODY HELPERS
// =============================================================================

func (s *Server) bindText(w http.ResponseWriter, r *http.Request) (string, *APIError) {
	if r.ContentLength > s.maxUploadBytes {
		return "", ErrPayloadTooLarge
	}
	// A body without Content-Type is read as JSON.
	if r.Header.Get("Content-Type") != "" && render.GetRequestContentType(r) != render.ContentTypeJSON {
		return "", ErrInvalidRequest.WithDetails("Content-Type must be application/json")
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	var req TextRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if tooLarge(err) {
			return "", ErrPayloadTooLarge
		}
		return "", ErrInvalidRequest.WithDetails(err.Error())
	}
	if err := req.Bind(r); err != nil {
		return "", ErrInvalidRequest.WithDetails(err.Error())
	}
	return *req.Text, nil
}

// formFile returns the "file" part of a multipart request. The caller closes
// the file.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request) (multipart.File, *APIError) {
	if r.ContentLength > s.maxUploadBytes {
		return nil, ErrPayloadTooLarge
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		if tooLarge(err) {
			return nil, ErrPayloadTooLarge
		}
		return nil, ErrInvalidRequest.WithDetails(err.Error())
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, ErrInvalidRequest.WithDetails(err.Error())
	}
	return file, nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// =============================================================================
// MIDDLEWARE
// =============================================================================

// requestID propagates X-Request-ID, or assigns a UUID, into both the chi and
// the summarizer request context.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		ctx = summarizer.ContextWithRequestID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.InfoContext(r.Context(), "request completed",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", time.Since(start)))
	})
}
