package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ecoTrackAPI/internal/types/tip"
	"ecoTrackAPI/services"
)

type TipHandler struct {
	tipService *services.TipService
}

func NewTipHandler(tipService *services.TipService) *TipHandler {
	return &TipHandler{
		tipService: tipService,
	}
}

func (h *TipHandler) ListTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	tips, err := h.tipService.List(ctx, limit)
	if err != nil {
		respondServiceError(w, err, "Could not fetch tips")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": tips})
}

func (h *TipHandler) CreateTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req tip.CreateTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.tipService.Create(ctx, &req)
	if err != nil {
		respondServiceError(w, err, "Could not create tip")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "insertedId": id})
}

func (h *TipHandler) UpdateTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req tip.UpdateTipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.tipService.Update(ctx, id, &req)
	if err != nil {
		respondServiceError(w, err, "Could not update tip")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "modifiedCount": modified})
}

func (h *TipHandler) DeleteTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	deleted, err := h.tipService.Delete(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Could not delete tip")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "deletedCount": deleted})
}
