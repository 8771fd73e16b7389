package handlers

import (
	"context"
	"net/http"
	"time"

	"ecoTrackAPI/services"
)

type StatsHandler struct {
	statsService         *services.StatsService
	participationService *services.ParticipationService
}

func NewStatsHandler(statsService *services.StatsService, participationService *services.ParticipationService) *StatsHandler {
	return &StatsHandler{
		statsService:         statsService,
		participationService: participationService,
	}
}

func (h *StatsHandler) GetCommunityStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	s, err := h.statsService.CommunityStats(ctx)
	if err != nil {
		respondServiceError(w, err, "Could not compute stats")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":                true,
		"totalChallenges":   s.TotalChallenges,
		"totalParticipants": s.TotalParticipants,
		"totalImpact":       s.TotalImpact,
	})
}

// ReconcileParticipants recomputes the denormalized participant counters
// from membership rows. Maintenance endpoint, not part of the public app
// surface.
func (h *StatsHandler) ReconcileParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	updated, err := h.participationService.ReconcileParticipants(ctx)
	if err != nil {
		respondServiceError(w, err, "Could not reconcile participants")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "updatedCount": updated})
}
