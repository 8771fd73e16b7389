package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"ecoTrackAPI/internal/errs"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"ok": false, "message": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]interface{}{"ok": false, "message": message})
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
// Unknown errors become a 500 with the caller's generic message; internal
// detail stays in the log.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	var ve *errs.ValidationError
	switch {
	case errors.As(err, &ve):
		respondWithError(w, http.StatusBadRequest, ve.Msg)
	case errors.Is(err, errs.ErrInvalidID):
		respondWithError(w, http.StatusBadRequest, "Invalid ID")
	case errors.Is(err, errs.ErrChallengeNotFound):
		respondWithError(w, http.StatusNotFound, "Challenge not found")
	case errors.Is(err, errs.ErrUserChallengeNotFound):
		respondWithError(w, http.StatusNotFound, "User challenge not found")
	case errors.Is(err, errs.ErrTipNotFound):
		respondWithError(w, http.StatusNotFound, "Tip not found")
	case errors.Is(err, errs.ErrEventNotFound):
		respondWithError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, errs.ErrAlreadyJoined):
		respondWithError(w, http.StatusConflict, "User already joined")
	default:
		log.Printf("service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, fallback)
	}
}
