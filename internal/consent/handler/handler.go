package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/models"
	"github.com/Consent-Management-Platform/consent-management-api/internal/consent/pagination"
	"github.com/Consent-Management-Platform/consent-management-api/internal/platform/middleware"
	dErrors "github.com/Consent-Management-Platform/consent-management-api/pkg/domain-errors"
	"github.com/Consent-Management-Platform/consent-management-api/pkg/platform/httputil"
)

//go:generate mockgen -source=handler.go -destination=mocks/consent-mocks.go -package=mocks Service

// Service defines the consent operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, serviceID, userID string, req *models.CreateConsentRequest) (string, error)
	Get(ctx context.Context, serviceID, userID, consentID string) (*models.Consent, error)
	Update(ctx context.Context, serviceID, userID, consentID string, req *models.UpdateConsentRequest) error
	List(ctx context.Context, serviceID, userID string, limit *int, pageToken *string) (*pagination.ListPage[models.Consent], error)
}

// BasePath is the collection route for one service user's consents.
const BasePath = "/v1/consent-management/services/{serviceId}/users/{userId}/consents"

const (
	limitQueryParam     = "limit"
	pageTokenQueryParam = "pageToken"
)

// Handler handles consent endpoints.
type Handler struct {
	logger  *slog.Logger
	consent Service
}

// New creates a new consent Handler.
func New(consent Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:  logger,
		consent: consent,
	}
}

// Register registers the consent routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route(BasePath, func(r chi.Router) {
		r.Get("/", h.HandleListConsents)
		r.Post("/", h.HandleCreateConsent)
		r.Get("/{consentId}", h.HandleGetConsent)
		r.Post("/{consentId}", h.HandleUpdateConsent)
	})
}

func (h *Handler) HandleListConsents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	serviceID, userID := chi.URLParam(r, "serviceId"), chi.URLParam(r, "userId")

	limit, err := parseLimit(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid list consents query",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	var pageToken *string
	if raw := r.URL.Query().Get(pageTokenQueryParam); raw != "" {
		pageToken = &raw
	}

	page, err := h.consent.List(ctx, serviceID, userID, limit, pageToken)
	if err != nil {
		h.logFailure(ctx, "failed to list consents", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) HandleCreateConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	serviceID, userID := chi.URLParam(r, "serviceId"), chi.URLParam(r, "userId")

	req, ok := httputil.DecodeAndPrepare[models.CreateConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	consentID, err := h.consent.Create(ctx, serviceID, userID, req)
	if err != nil {
		h.logFailure(ctx, "failed to create consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &CreateConsentResponse{ConsentID: consentID})
}

func (h *Handler) HandleGetConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	consent, err := h.consent.Get(ctx,
		chi.URLParam(r, "serviceId"),
		chi.URLParam(r, "userId"),
		chi.URLParam(r, "consentId"),
	)
	if err != nil {
		h.logFailure(ctx, "failed to get consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, &GetConsentResponse{Data: consent})
}

func (h *Handler) HandleUpdateConsent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.UpdateConsentRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	err := h.consent.Update(ctx,
		chi.URLParam(r, "serviceId"),
		chi.URLParam(r, "userId"),
		chi.URLParam(r, "consentId"),
		req,
	)
	if err != nil {
		h.logFailure(ctx, "failed to update consent", requestID, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, struct{}{})
}

// logFailure logs client errors as warnings and everything else as errors.
func (h *Handler) logFailure(ctx context.Context, msg, requestID string, err error) {
	if httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)) < http.StatusInternalServerError {
		h.logger.WarnContext(ctx, msg, "request_id", requestID, "error", err)
		return
	}
	h.logger.ErrorContext(ctx, msg, "request_id", requestID, "error", err)
}

func parseLimit(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get(limitQueryParam)
	if raw == "" {
		return nil, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Unable to parse limit query parameter from request")
	}
	return &limit, nil
}
