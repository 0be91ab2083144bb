package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Roundtableee/skillmatch/internal/api/response"
	"github.com/Roundtableee/skillmatch/internal/matcherrors"
	"github.com/Roundtableee/skillmatch/internal/models"
)

// TaskSearcher performs skill-based candidate search for a task description.
type TaskSearcher interface {
	SearchByTask(ctx context.Context, task string, matchCount int) ([]models.MemberMatch, error)
}

// Accepted matchCount range on the HTTP path.
const (
	minMatchCount = 1
	maxMatchCount = 50
)

// CORS headers for browser callers. OPTIONS pre-flight gets them with an empty
// body; every other response carries them too.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
}

// MatchHandler handles HTTP requests for skill-based member matching.
type MatchHandler struct {
	service      TaskSearcher
	defaultCount int
}

// NewMatchHandler creates a match handler. defaultCount is used when the
// request omits matchCount; <= 0 falls back to 5.
func NewMatchHandler(service TaskSearcher, defaultCount int) *MatchHandler {
	if defaultCount <= 0 {
		defaultCount = 5
	}

	return &MatchHandler{service: service, defaultCount: defaultCount}
}

// MatchRequest is the body for POST /v1/match-members. MatchCount is a pointer
// so an omitted field (use the default) is distinguishable from an out-of-range
// one (reject).
type MatchRequest struct {
	Task       string `json:"task"`
	MatchCount *int   `json:"matchCount"` //nolint:tagliatelle // API contract camelCase
}

// MatchResponse is the success envelope.
type MatchResponse struct {
	Success    bool                 `json:"success"`
	Task       string               `json:"task"`
	MatchCount int                  `json:"matchCount"` //nolint:tagliatelle // API contract camelCase
	Results    []models.MemberMatch `json:"results"`
	Timestamp  string               `json:"timestamp"`
}

// MatchMembers handles POST /v1/match-members and its OPTIONS pre-flight.
func (h *MatchHandler) MatchMembers(w http.ResponseWriter, r *http.Request) {
	setCORS(w)

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)

		return
	}

	if r.Method != http.MethodPost {
		response.RespondMethodNotAllowed(w, "Method not allowed. Use POST.")

		return
	}

	var req MatchRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			response.RespondError(w, http.StatusRequestEntityTooLarge, "Request body too large")

			return
		}

		response.RespondBadRequest(w, "Invalid JSON in request body")

		return
	}

	task := strings.TrimSpace(req.Task)
	if task == "" {
		response.RespondBadRequest(w, "Task description cannot be empty")

		return
	}

	matchCount := h.defaultCount

	if req.MatchCount != nil {
		if *req.MatchCount < minMatchCount || *req.MatchCount > maxMatchCount {
			response.RespondBadRequest(w, "matchCount must be between 1 and 50")

			return
		}

		matchCount = *req.MatchCount
	}

	results, err := h.service.SearchByTask(r.Context(), task, matchCount)
	if err != nil {
		if errors.Is(err, matcherrors.ErrValidation) {
			response.RespondBadRequest(w, err.Error())

			return
		}

		// Typed error messages carry enough detail to tell infra failure from
		// "no results" without leaking internals.
		response.RespondInternalServerError(w, err.Error())

		return
	}

	if results == nil {
		results = []models.MemberMatch{}
	}

	response.RespondJSON(w, http.StatusOK, MatchResponse{
		Success:    true,
		Task:       task,
		MatchCount: matchCount,
		Results:    results,
		Timestamp:  response.Timestamp(),
	})
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}
