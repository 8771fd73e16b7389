package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ecoTrackAPI/internal/types/challenge"
	"ecoTrackAPI/services"
)

type UserChallengeHandler struct {
	participationService *services.ParticipationService
}

func NewUserChallengeHandler(participationService *services.ParticipationService) *UserChallengeHandler {
	return &UserChallengeHandler{
		participationService: participationService,
	}
}

func (h *UserChallengeHandler) ListUserChallenges(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "userId query required")
		return
	}

	items, err := h.participationService.GetByUser(ctx, userID)
	if err != nil {
		respondServiceError(w, err, "Could not fetch user challenges")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": items})
}

func (h *UserChallengeHandler) GetUserChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	item, err := h.participationService.GetByID(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Could not fetch user challenge details")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": item})
}

func (h *UserChallengeHandler) UpdateUserChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req challenge.UpdateUserChallengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.participationService.Update(ctx, id, &req)
	if err != nil {
		respondServiceError(w, err, "Could not update user challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "modifiedCount": modified})
}

func (h *UserChallengeHandler) LeaveChallenge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	if err := h.participationService.Leave(ctx, id); err != nil {
		respondServiceError(w, err, "Could not delete user challenge")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "message": "Left challenge"})
}
