package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/chapterforge/chapterforge-server/internal/errors"
	"github.com/chapterforge/chapterforge-server/internal/http/response"
	"github.com/chapterforge/chapterforge-server/internal/service"
)

// GenerateRequest is the body for POST /api/v1/generate.
// All fields are optional; an empty body starts a run with configured defaults.
type GenerateRequest struct {
	Force          bool `json:"force"`
	MaxParallelism int  `json:"maxParallelism" validate:"omitempty,gte=1,lte=64"`
}

// ItemGenerateRequest is the body for POST /api/v1/items/{id}/generate.
type ItemGenerateRequest struct {
	Force bool `json:"force"`
}

// decodeBody unmarshals an optional JSON request body into dst.
// An empty body leaves dst at its zero value.
func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperrors.Validation("unreadable request body")
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Validation("malformed JSON request body")
	}
	return nil
}

// handleGenerate starts a background batch generation run.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	runID, err := s.generateService.StartBatch(service.BatchOptions{
		Force:          req.Force,
		MaxParallelism: req.MaxParallelism,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Accepted(w, map[string]string{"run_id": runID}, s.logger)
}

// handleGenerateItem generates chapters for one item synchronously.
func (s *Server) handleGenerateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.BadRequest(w, "Item ID is required", s.logger)
		return
	}

	var req ItemGenerateRequest
	if err := decodeBody(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	outcome, err := s.generateService.RunItem(r.Context(), itemID, req.Force)
	if err != nil {
		var domainErr *apperrors.Error
		if !errors.As(err, &domainErr) {
			s.logger.Error("item generation failed", "item", itemID, "error", err)
		}
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, outcome, s.logger)
}

// handleLatestRun returns the most recent run summary.
func (s *Server) handleLatestRun(w http.ResponseWriter, _ *http.Request) {
	last := s.generateService.LastRun()
	if last == nil {
		response.NotFound(w, "No generation run has happened yet", s.logger)
		return
	}
	response.Success(w, last, s.logger)
}
