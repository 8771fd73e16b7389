package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/challenge"
	"ecoTrackAPI/services"
)

type ChallengeHandler struct {
	challengeService     *services.ChallengeService
	participationService *services.ParticipationService
}

func NewChallengeHandler(challengeService *services.ChallengeService, participationService *services.ParticipationService) *ChallengeHandler {
	return &ChallengeHandler{
		challengeService:     challengeService,
		participationService: participationService,
	}
}

func (h *ChallengeHandler) ListChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter, err := parseChallengeFilter(r)
	if err != nil {
		respondServiceError(w, err, "Server error fetching challenges")
		return
	}

	list, err := h.challengeService.List(ctx, filter)
	if err != nil {
		respondServiceError(w, err, "Server error fetching challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"total":   list.Total,
		"page":    list.Page,
		"perPage": list.PerPage,
		"data":    list.Data,
	})
}

func (h *ChallengeHandler) GetChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	c, err := h.challengeService.Get(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Server error")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": c})
}

func (h *ChallengeHandler) CreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.CreateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.challengeService.Create(ctx, &req)
	if err != nil {
		respondServiceError(w, err, "Could not create challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "insertedId": id})
}

func (h *ChallengeHandler) UpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req challenge.UpdateChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.challengeService.Update(ctx, id, &req)
	if err != nil {
		respondServiceError(w, err, "Could not update challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "modifiedCount": modified})
}

func (h *ChallengeHandler) DeleteChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	deleted, err := h.participationService.DeleteChallenge(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Could not delete challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "deletedCount": deleted})
}

func (h *ChallengeHandler) JoinChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req challenge.JoinChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		respondWithError(w, http.StatusBadRequest, "userId is required in body")
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid challenge ID")
		return
	}

	if err := h.participationService.Join(ctx, id, req.UserID); err != nil {
		respondServiceError(w, err, "Could not join challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Joined challenge"})
}

// parseChallengeFilter maps the open query-parameter set onto a typed
// filter. Unparseable page/limit/participant numbers impose no constraint
// instead of erroring; malformed dates are rejected.
func parseChallengeFilter(r *http.Request) (*services.ChallengeFilter, error) {
	q := r.URL.Query()
	filter := &services.ChallengeFilter{
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
	}

	if category := q.Get("category"); category != "" {
		for _, c := range strings.Split(category, ",") {
			if trimmed := strings.TrimSpace(c); trimmed != "" {
				filter.Categories = append(filter.Categories, trimmed)
			}
		}
	}

	if from := q.Get("startDateFrom"); from != "" {
		t, err := services.ParseDate(from)
		if err != nil {
			return nil, errs.Validation("Invalid startDateFrom")
		}
		filter.StartDateFrom = &t
	}
	if to := q.Get("startDateTo"); to != "" {
		t, err := services.ParseDate(to)
		if err != nil {
			return nil, errs.Validation("Invalid startDateTo")
		}
		filter.StartDateTo = &t
	}

	if min := q.Get("minParticipants"); min != "" {
		if n, err := strconv.Atoi(min); err == nil {
			filter.MinParticipants = &n
		}
	}
	if max := q.Get("maxParticipants"); max != "" {
		if n, err := strconv.Atoi(max); err == nil {
			filter.MaxParticipants = &n
		}
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.PerPage = limit
	}

	return filter, nil
}
