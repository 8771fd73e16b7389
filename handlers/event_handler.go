package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"ecoTrackAPI/internal/types/event"
	"ecoTrackAPI/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.eventService.List(ctx, limit)
	if err != nil {
		respondServiceError(w, err, "Could not fetch events")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "data": events})
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req event.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id, err := h.eventService.Create(ctx, &req)
	if err != nil {
		respondServiceError(w, err, "Could not create event")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "insertedId": id})
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	var req event.UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	modified, err := h.eventService.Update(ctx, id, &req)
	if err != nil {
		respondServiceError(w, err, "Could not update event")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "modifiedCount": modified})
}

func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	deleted, err := h.eventService.Delete(ctx, id)
	if err != nil {
		respondServiceError(w, err, "Could not delete event")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "deletedCount": deleted})
}
