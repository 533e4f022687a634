package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lajed/internal/extract"
	"lajed/internal/slab"
	"lajed/internal/upstream"
	"lajed/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Extract(ctx context.Context, profile string, up types.Upload) (slab.Result, error)
	HasProfile(name string) bool
	Profiles() []types.ProfileInfo
	Ready() bool
}

const (
	msgNotMultipart  = "Envie multipart/form-data com o campo 'file'."
	msgMissingFile   = "Arquivo obrigatório (campo 'file')."
	msgTooLarge      = "Arquivo excede o tamanho máximo permitido."
	msgNoCredential  = "Chave da API do modelo não configurada."
	msgAnalysisError = "Falha na análise"
	msgShuttingDown  = "server shutting down"
)

// extractRoutes are the mount points of the extraction handler. /analisar is
// the historical name still used by deployed front-ends.
var extractRoutes = []string{"/extract", "/analisar"}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(recoverJSON)
	r.Use(MetricsMiddleware)
	r.Use(corsMiddleware())
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	h := &handlers{svc: svc}
	for _, base := range extractRoutes {
		route := strings.TrimPrefix(base, "/")
		r.Options(base, preflight)
		r.Get(base, h.probe(route))
		r.Post(base, h.extract)
		r.Route(base+"/{profile}", func(r chi.Router) {
			r.Use(h.requireProfile)
			r.Options("/", preflight)
			r.Get("/", h.probe(route))
			r.Post("/", h.extract)
		})
	}

	r.Get("/profiles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ProfilesResponse{Profiles: svc.Profiles()})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
			return
		}
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unconfigured"})
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

type handlers struct {
	svc Service
}

// preflight answers CORS preflights; the headers come from corsMiddleware.
func preflight(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNoContent)
}

func (h *handlers) probe(route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ProbeResponse{Route: route, OK: true})
	}
}

func (h *handlers) requireProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "profile")
		if r.Method != http.MethodOptions && !h.svc.HasProfile(name) {
			writeJSONError(w, http.StatusNotFound, extract.ErrUnknownProfile(name).Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *handlers) extract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	lvl := requestLogLevel(r)
	profile := chi.URLParam(r, "profile")

	up, uerr := readUpload(w, r)
	if uerr != nil {
		IncrementUploadRejected(uerr.reason)
		writeJSONError(w, uerr.status, uerr.msg)
		logEnd(r, lvl, uerr.status, start, uerr)
		return
	}
	uploadBytes.Observe(float64(len(up.Data)))
	logStart(r, lvl, profile)

	// Join server base context with request context so shutdown cancels work too.
	ctx, cancel := joinContexts(serverBaseCtx, r.Context())
	defer cancel()
	res, err := h.svc.Extract(ctx, profile, up)
	if err != nil {
		if r.Context().Err() != nil {
			// client is gone, nobody to answer
			return
		}
		if serverBaseCtx.Err() != nil {
			writeJSONErrorDetail(w, http.StatusServiceUnavailable, msgAnalysisError, msgShuttingDown)
			logEnd(r, lvl, http.StatusServiceUnavailable, start, err)
			return
		}
		status := writeExtractError(w, err)
		logEnd(r, lvl, status, start, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
	logEnd(r, lvl, http.StatusOK, start, nil)
}

// writeExtractError maps a service error onto the response and returns the status used.
func writeExtractError(w http.ResponseWriter, err error) int {
	if upstream.IsMissingCredential(err) {
		writeJSONErrorDetail(w, http.StatusInternalServerError, msgNoCredential, err.Error())
		return http.StatusInternalServerError
	}
	if ue, ok := upstream.AsError(err); ok {
		writeJSONErrorDetail(w, ue.StatusCode(), "Erro "+providerLabel(ue.Provider), ue.Body)
		return ue.StatusCode()
	}
	if extract.IsEmptyUpload(err) {
		IncrementUploadRejected("empty_file")
	}
	var he HTTPError
	if errors.As(err, &he) {
		writeJSONError(w, he.StatusCode(), he.Error())
		return he.StatusCode()
	}
	writeJSONErrorDetail(w, http.StatusInternalServerError, msgAnalysisError, err.Error())
	return http.StatusInternalServerError
}

func providerLabel(p string) string {
	switch p {
	case "openai":
		return "OpenAI"
	case "gemini":
		return "Gemini"
	}
	return p
}

type uploadError struct {
	status int
	msg    string
	reason string
	err    error
}

func (e *uploadError) Error() string {
	if e.err != nil {
		return e.msg + ": " + e.err.Error()
	}
	return e.msg
}

// readUpload pulls the "file" part out of a multipart body into memory.
func readUpload(w http.ResponseWriter, r *http.Request) (types.Upload, *uploadError) {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mt != "multipart/form-data" {
		return types.Upload{}, &uploadError{status: http.StatusBadRequest, msg: msgNotMultipart, reason: "not_multipart"}
	}
	if maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return types.Upload{}, &uploadError{status: http.StatusRequestEntityTooLarge, msg: msgTooLarge, reason: "too_large", err: err}
		}
		return types.Upload{}, &uploadError{status: http.StatusBadRequest, msg: msgNotMultipart, reason: "malformed", err: err}
	}
	defer r.MultipartForm.RemoveAll()

	f, fh, err := r.FormFile("file")
	if err != nil {
		return types.Upload{}, &uploadError{status: http.StatusBadRequest, msg: msgMissingFile, reason: "missing_file"}
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return types.Upload{}, &uploadError{status: http.StatusBadRequest, msg: msgMissingFile, reason: "unreadable", err: err}
	}
	return types.Upload{Data: data, MediaType: fh.Header.Get("Content-Type"), Filename: fh.Filename}, nil
}

// recoverJSON turns a handler panic into a 500 JSON error.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			if zlog != nil {
				zlog.Error().Str("panic", fmt.Sprint(rec)).Bytes("stack", debug.Stack()).Msg("handler panic")
			} else {
				middleware.PrintPrettyStack(rec)
			}
			writeJSONErrorDetail(w, http.StatusInternalServerError, msgAnalysisError, fmt.Sprint(rec))
		}()
		next.ServeHTTP(w, r)
	})
}
