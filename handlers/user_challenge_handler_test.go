package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	"ecoTrackAPI/handlers"
	"ecoTrackAPI/services"
)

var userChallengeCols = []string{"id", "user_id", "challenge_id", "status", "progress", "join_date", "updated_at"}

func newUserChallengeRouter(mock pgxmock.PgxPoolIface) *mux.Router {
	h := handlers.NewUserChallengeHandler(services.NewParticipationService(mock))

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/user-challenges", h.ListUserChallenges).Methods("GET")
	api.HandleFunc("/user-challenges/{id}", h.GetUserChallenge).Methods("GET")
	api.HandleFunc("/user-challenges/{id}", h.UpdateUserChallenge).Methods("PATCH")
	api.HandleFunc("/user-challenges/{id}", h.LeaveChallenge).Methods("DELETE")
	return r
}

func TestListUserChallengesEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	router := newUserChallengeRouter(mock)
	now := time.Now()

	t.Run("missing userId", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user-challenges", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "userId query required", decodeBody(t, rec)["message"])
	})

	t.Run("embeds challenge details", func(t *testing.T) {
		challengeID := uuid.New()
		membershipID := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`FROM user_challenges WHERE user_id = $1`)).
			WithArgs("user@example.com").
			WillReturnRows(pgxmock.NewRows(userChallengeCols).
				AddRow(membershipID, "user@example.com", challengeID.String(), "In Progress", 40.0, now, now))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM challenges WHERE id = ANY($1::uuid[])`)).
			WithArgs([]string{challengeID.String()}).
			WillReturnRows(pgxmock.NewRows(challengeCols).AddRow(
				challengeID, "Plastic-Free July", "Waste", "desc", 30, "", 42,
				"kg plastic avoided", nil, "admin@ecotrack.com", now, now, "", now, now,
			))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user-challenges?userId=user@example.com", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["ok"])
		data := body["data"].([]interface{})
		assert.Len(t, data, 1)
		item := data[0].(map[string]interface{})
		assert.Equal(t, membershipID.String(), item["id"])
		details := item["challengeDetails"].(map[string]interface{})
		assert.Equal(t, "Plastic-Free July", details["title"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserChallengeEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	router := newUserChallengeRouter(mock)
	id := uuid.New()

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`FROM user_challenges WHERE id = $1`)).
			WithArgs(id).
			WillReturnError(pgx.ErrNoRows)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/user-challenges/"+id.String(), nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "User challenge not found", decodeBody(t, rec)["message"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserChallengeEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	router := newUserChallengeRouter(mock)
	id := uuid.New()

	t.Run("updates progress", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`UPDATE user_challenges SET status = $1, progress = $2, updated_at = NOW() WHERE id = $3`)).
			WithArgs("Completed", 100.0, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("PATCH", "/api/user-challenges/"+id.String(),
			strings.NewReader(`{"status":"Completed","progress":100}`)))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, float64(1), body["modifiedCount"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveChallengeEndpoint(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	router := newUserChallengeRouter(mock)
	id := uuid.New()
	challengeID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`DELETE FROM user_challenges WHERE id = $1 RETURNING challenge_id`)).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"challenge_id"}).AddRow(challengeID.String()))
		mock.ExpectExec(regexp.QuoteMeta(`GREATEST(participants - 1, 0)`)).
			WithArgs(challengeID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/user-challenges/"+id.String(), nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Left challenge", decodeBody(t, rec)["message"])
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/api/user-challenges/nope", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid ID", decodeBody(t, rec)["message"])
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
