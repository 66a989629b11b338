package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"census/internal/citizen/models"
	"census/internal/citizen/validation"
	"census/internal/platform/metrics"
	"census/internal/platform/middleware"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/httputil"
)

// Service defines the citizen operations exposed over HTTP.
type Service interface {
	CreateImport(ctx context.Context, req *models.CreateImportRequest) (models.ImportID, error)
	PatchCitizen(ctx context.Context, importID models.ImportID, citizenID models.CitizenID, patch *models.CitizenPatch) (*models.Citizen, error)
	ListCitizens(ctx context.Context, importID models.ImportID) ([]models.Citizen, error)
	Birthdays(ctx context.Context, importID models.ImportID) (models.BirthdayStats, error)
	TownAgePercentiles(ctx context.Context, importID models.ImportID) ([]models.TownAgeStat, error)
}

const (
	defaultRequestTimeout = 30 * time.Second
	defaultMaxBodyBytes   = 64 << 20
)

// Handler serves the import endpoints.
type Handler struct {
	logger         *slog.Logger
	citizens       Service
	metrics        *metrics.Metrics
	requestTimeout time.Duration
	maxBodyBytes   int64
}

type Option func(h *Handler)

func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

func WithMaxBodyBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodyBytes = n
		}
	}
}

// New creates a citizen Handler. metrics may be nil.
func New(citizens Service, logger *slog.Logger, m *metrics.Metrics, opts ...Option) *Handler {
	h := &Handler{
		logger:         logger,
		citizens:       citizens,
		metrics:        m,
		requestTimeout: defaultRequestTimeout,
		maxBodyBytes:   defaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register registers the import routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	importRouter := chi.NewRouter()
	importRouter.Use(middleware.Recovery(h.logger))
	importRouter.Use(middleware.RequestID)
	importRouter.Use(middleware.RequestTime)
	importRouter.Use(middleware.Logger(h.logger))
	importRouter.Use(middleware.Timeout(h.requestTimeout))
	importRouter.Use(middleware.ContentTypeJSON)
	importRouter.Use(middleware.MaxBodyBytes(h.maxBodyBytes))
	if h.metrics != nil {
		importRouter.Use(middleware.LatencyMiddleware(h.metrics))
	}
	importRouter.NotFound(h.handleNotFound)
	importRouter.MethodNotAllowed(h.handleMethodNotAllowed)

	importRouter.Post("/imports", h.handleCreateImport)
	importRouter.Patch("/imports/{import_id}/citizens/{citizen_id}", h.handlePatchCitizen)
	importRouter.Get("/imports/{import_id}/citizens", h.handleListCitizens)
	importRouter.Get("/imports/{import_id}/citizens/birthdays", h.handleBirthdays)
	importRouter.Get("/imports/{import_id}/towns/stat/percentile/age", h.handleTownAges)

	r.Mount("/", importRouter)
}

type createImportResponse struct {
	ImportID models.ImportID `json:"import_id"`
}

// handleCreateImport stores a batch of citizens.
func (h *Handler) handleCreateImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := h.readBody(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	req, err := validation.DecodeImport(ctx, body)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	importID, err := h.citizens.CreateImport(ctx, req)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusCreated, createImportResponse{ImportID: importID})
}

// handlePatchCitizen applies a partial update and returns the merged citizen.
func (h *Handler) handlePatchCitizen(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	importID, ok := importIDParam(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}
	citizenID, ok := models.ParseCitizenID(chi.URLParam(r, "citizen_id"))
	if !ok {
		h.handleNotFound(w, r)
		return
	}

	body, err := h.readBody(r)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	patch, err := validation.DecodePatch(ctx, body)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}

	citizen, err := h.citizens.PatchCitizen(ctx, importID, citizenID, patch)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, citizen)
}

// handleListCitizens returns every citizen of an import.
func (h *Handler) handleListCitizens(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, ok := importIDParam(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}

	citizens, err := h.citizens.ListCitizens(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, citizens)
}

// handleBirthdays returns present counts grouped by month.
func (h *Handler) handleBirthdays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, ok := importIDParam(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}

	result, err := h.citizens.Birthdays(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

// handleTownAges returns age percentiles per town.
func (h *Handler) handleTownAges(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	importID, ok := importIDParam(r)
	if !ok {
		h.handleNotFound(w, r)
		return
	}

	result, err := h.citizens.TownAgePercentiles(ctx, importID)
	if err != nil {
		h.writeError(ctx, w, err)
		return
	}
	httputil.WriteData(w, http.StatusOK, result)
}

func (h *Handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(r.Context(), w, dErrors.New(dErrors.CodeNotFound, "resource not found"))
}

func (h *Handler) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusMethodNotAllowed, httputil.ErrorResponse{Message: "method not allowed"})
}

func importIDParam(r *http.Request) (models.ImportID, bool) {
	return models.ParseImportID(chi.URLParam(r, "import_id"))
}

func (h *Handler) readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err == nil {
		return body, nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "request body too large")
	}
	return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "failed to read request body")
}

func (h *Handler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := httputil.ErrorBody(err)
	requestID := middleware.GetRequestID(ctx)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, "request failed",
			"error", err,
			"status", status,
			"request_id", requestID,
		)
	} else {
		h.logger.WarnContext(ctx, "request rejected",
			"error", err,
			"status", status,
			"request_id", requestID,
		)
	}
	httputil.WriteJSON(w, status, body)
}
