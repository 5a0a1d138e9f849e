// Package chi exposes the marketplace over HTTP: listing CRUD, relevance
// search, query suggestions, the chat bot, and operational endpoints.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/compostmatch/compostmatch/internal/domain"
	chatuc "github.com/compostmatch/compostmatch/internal/usecase/chat"
	healthuc "github.com/compostmatch/compostmatch/internal/usecase/health"
	listinguc "github.com/compostmatch/compostmatch/internal/usecase/listing"
	searchuc "github.com/compostmatch/compostmatch/internal/usecase/search"
	suggestuc "github.com/compostmatch/compostmatch/internal/usecase/suggest"
)

// minSuggestQueryLen gates suggestion calls: shorter non-empty queries are
// too ambiguous to complete.
const minSuggestQueryLen = 3

// ErrorCode identifies an error category in API responses.
type ErrorCode string

const (
	ErrorCodeBadRequest         ErrorCode = "bad_request"
	ErrorCodeValidationFailed   ErrorCode = "validation_failed"
	ErrorCodeUnauthorized       ErrorCode = "unauthorized"
	ErrorCodeNotFound           ErrorCode = "not_found"
	ErrorCodeRateLimited        ErrorCode = "rate_limited"
	ErrorCodeModelProviderError ErrorCode = "model_provider_error"
	ErrorCodeInternal           ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server holds the HTTP handlers over the use case services.
type Server struct {
	listings      *listinguc.Service
	search        *searchuc.Service
	suggest       *suggestuc.Service
	chat          *chatuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	listings *listinguc.Service,
	search *searchuc.Service,
	suggest *suggestuc.Service,
	chat *chatuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		listings: listings,
		search:   search,
		suggest:  suggest,
		chat:     chat,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, ErrorCodeNotFound),
		sentinelHandler(domain.ErrInvalidRecord, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, ErrorCodeRateLimited),
		sentinelHandler(domain.ErrModelProviderError, http.StatusBadGateway, ErrorCodeModelProviderError),
	}
	return s
}

// Routes registers every handler on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/listings", s.ListListings)

		r.Get("/offers", s.ListOffers)
		r.Post("/offers", s.CreateOffer)
		r.Delete("/offers/{id}", s.DeleteOffer)

		r.Get("/wants", s.ListWants)
		r.Post("/wants", s.CreateWant)
		r.Delete("/wants/{id}", s.DeleteWant)

		r.Post("/search", s.Search)
		r.Get("/suggestions", s.Suggestions)
		r.Post("/chat", s.Chat)
	})
}

// ListListings handles GET /api/v1/listings: the normalized candidate set,
// offers before wants.
func (s *Server) ListListings(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.All(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]listingDTO, len(listings))
	for i := range listings {
		items[i] = listingToDTO(&listings[i])
	}
	writeJSON(w, http.StatusOK, listingsResponse{Items: items})
}

// ListOffers handles GET /api/v1/offers.
func (s *Server) ListOffers(w http.ResponseWriter, r *http.Request) {
	offers, err := s.listings.Offers(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]offerDTO, len(offers))
	for i := range offers {
		items[i] = offerToDTO(&offers[i])
	}
	writeJSON(w, http.StatusOK, offersResponse{Items: items})
}

// CreateOffer handles POST /api/v1/offers.
func (s *Server) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.listings.CreateOffer(r.Context(), offerFromDTO(&req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/offers/%s", created.ID))
	writeJSON(w, http.StatusCreated, offerToDTO(&created))
}

// DeleteOffer handles DELETE /api/v1/offers/{id}.
func (s *Server) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	if err := s.listings.DeleteOffer(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListWants handles GET /api/v1/wants.
func (s *Server) ListWants(w http.ResponseWriter, r *http.Request) {
	wants, err := s.listings.Wants(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]wantDTO, len(wants))
	for i := range wants {
		items[i] = wantToDTO(&wants[i])
	}
	writeJSON(w, http.StatusOK, wantsResponse{Items: items})
}

// CreateWant handles POST /api/v1/wants.
func (s *Server) CreateWant(w http.ResponseWriter, r *http.Request) {
	var req wantDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	created, err := s.listings.CreateWant(r.Context(), wantFromDTO(&req))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/wants/%s", created.ID))
	writeJSON(w, http.StatusCreated, wantToDTO(&created))
}

// DeleteWant handles DELETE /api/v1/wants/{id}.
func (s *Server) DeleteWant(w http.ResponseWriter, r *http.Request) {
	if err := s.listings.DeleteWant(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/search. The search subsystem never errors;
// only the candidate fetch can fail here.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	listings, err := s.listings.All(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	results, source := s.search.Search(r.Context(), req.Query, listings)
	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Results: results, Source: string(source)})
}

// Suggestions handles GET /api/v1/suggestions?q=. An empty q yields starter
// phrases; a non-empty q shorter than minSuggestQueryLen yields nothing.
func (s *Server) Suggestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	var suggestions []string
	if trimmed := strings.TrimSpace(q); trimmed == "" || len(trimmed) >= minSuggestQueryLen {
		suggestions = s.suggest.Suggest(r.Context(), q)
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	writeJSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestions})
}

// Chat handles POST /api/v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	reply := s.chat.Reply(r.Context(), req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Reply: reply})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidRecord,
		domain.ErrRateLimited,
		domain.ErrModelProviderError,
		domain.ErrModelNotConfigured,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	writeError(w, http.StatusInternalServerError, ErrorCodeInternal, msg)
}
