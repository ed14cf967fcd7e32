// ABOUTME: Mapping of domain errors to HTTP status codes and JSON error bodies.
// ABOUTME: Validation is 400, missing entries 404, model failures 502, anything else 500.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/embeddings"
	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

// Error codes returned in ErrorResponse.Code.
const (
	codeBadRequest = "bad_request"
	codeValidation = "validation_failed"
	codeNotFound   = "not_found"
	codeModel      = "embedding_unavailable"
	codeInternal   = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorHandler writes a response for err and returns true if it recognized it.
type errorHandler func(w http.ResponseWriter, err error) bool

func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		sentinelHandler(search.ErrEmptyQuery, http.StatusBadRequest, codeValidation),
		sentinelHandler(search.ErrOutsideRoot, http.StatusBadRequest, codeValidation),
		sentinelHandler(storage.ErrUnknownSection, http.StatusBadRequest, codeValidation),
		sentinelHandler(storage.ErrNoThoughts, http.StatusBadRequest, codeValidation),
		sentinelHandler(search.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(embeddings.ErrModel, http.StatusBadGateway, codeModel),
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("request failed", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
