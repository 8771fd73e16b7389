package services_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/challenge"
	"ecoTrackAPI/services"
)

var challengeCols = []string{
	"id", "title", "category", "description", "duration", "target", "participants",
	"impact_metric", "estimated_impact_value", "created_by", "start_date", "end_date",
	"image_url", "created_at", "updated_at",
}

func challengeRow(rows *pgxmock.Rows, c *challenge.Challenge) *pgxmock.Rows {
	return rows.AddRow(
		c.ID, c.Title, c.Category, c.Description, c.Duration, c.Target, c.Participants,
		c.ImpactMetric, c.EstimatedImpactValue, c.CreatedBy, c.StartDate, c.EndDate,
		c.ImageURL, c.CreatedAt, c.UpdatedAt,
	)
}

func sampleChallenge() *challenge.Challenge {
	impact := 12.5
	now := time.Now()
	return &challenge.Challenge{
		ID:                   uuid.New(),
		Title:                "Plastic-Free July",
		Category:             "Waste",
		Description:          "Skip single-use plastic for a month",
		Duration:             30,
		Target:               "0 plastic bags",
		Participants:         42,
		ImpactMetric:         "kg plastic avoided",
		EstimatedImpactValue: &impact,
		CreatedBy:            "admin@ecotrack.com",
		StartDate:            now,
		EndDate:              now.AddDate(0, 1, 0),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestListChallenges(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewChallengeService(mock)
	ctx := context.Background()
	c := sampleChallenge()

	t.Run("defaults", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM challenges`)).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM challenges ORDER BY created_at DESC LIMIT $1 OFFSET $2`)).
			WithArgs(20, 0).
			WillReturnRows(challengeRow(pgxmock.NewRows(challengeCols), c))

		list, err := svc.List(ctx, &services.ChallengeFilter{})
		assert.NoError(t, err)
		assert.Equal(t, 1, list.Total)
		assert.Equal(t, 1, list.Page)
		assert.Equal(t, 20, list.PerPage)
		assert.Len(t, list.Data, 1)
		assert.Equal(t, *c, list.Data[0])
	})

	t.Run("filtered and paginated", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM challenges WHERE category = ANY($1) AND (title ILIKE $2 OR description ILIKE $2 OR category ILIKE $2)`)).
			WithArgs([]string{"Waste", "Energy"}, "%plastic%").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY participants DESC LIMIT $3 OFFSET $4`)).
			WithArgs([]string{"Waste", "Energy"}, "%plastic%", 5, 5).
			WillReturnRows(challengeRow(pgxmock.NewRows(challengeCols), c))

		list, err := svc.List(ctx, &services.ChallengeFilter{
			Categories: []string{"Waste", "Energy"},
			Search:     "plastic",
			SortBy:     "participants",
			Page:       2,
			PerPage:    5,
		})
		assert.NoError(t, err)
		assert.Equal(t, 11, list.Total)
		assert.Equal(t, 2, list.Page)
		assert.Equal(t, 5, list.PerPage)
		assert.Len(t, list.Data, 1)
	})

	t.Run("date and participant bounds", func(t *testing.T) {
		from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		min := 10
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM challenges WHERE start_date >= $1 AND participants >= $2`)).
			WithArgs(from, min).
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $3 OFFSET $4`)).
			WithArgs(from, min, 20, 0).
			WillReturnRows(pgxmock.NewRows(challengeCols))

		list, err := svc.List(ctx, &services.ChallengeFilter{StartDateFrom: &from, MinParticipants: &min})
		assert.NoError(t, err)
		assert.Equal(t, 0, list.Total)
		assert.Empty(t, list.Data)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM challenges`)).
			WillReturnError(errors.New("db error"))
		_, err := svc.List(ctx, &services.ChallengeFilter{})
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetChallenge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewChallengeService(mock)
	ctx := context.Background()
	c := sampleChallenge()
	query := regexp.QuoteMeta(`FROM challenges WHERE id = $1`)

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(c.ID).
			WillReturnRows(challengeRow(pgxmock.NewRows(challengeCols), c))
		result, err := svc.Get(ctx, c.ID)
		assert.NoError(t, err)
		assert.Equal(t, *c, *result)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(c.ID).
			WillReturnError(pgx.ErrNoRows)
		_, err := svc.Get(ctx, c.ID)
		assert.ErrorIs(t, err, errs.ErrChallengeNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs(c.ID).
			WillReturnError(errors.New("db error"))
		_, err := svc.Get(ctx, c.ID)
		assert.Error(t, err)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateChallenge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewChallengeService(mock)
	ctx := context.Background()

	valid := func() *challenge.CreateChallengeRequest {
		return &challenge.CreateChallengeRequest{
			Title:        "Bike to Work",
			Category:     "Transport",
			Description:  "Commute by bike",
			Duration:     14,
			ImpactMetric: "kg CO2 saved",
			StartDate:    "2025-06-01",
			EndDate:      "2025-06-15",
		}
	}

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO challenges`)).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
		got, err := svc.Create(ctx, valid())
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("defaults createdBy", func(t *testing.T) {
		req := valid()
		start, _ := services.ParseDate(req.StartDate)
		end, _ := services.ParseDate(req.EndDate)
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO challenges`)).
			WithArgs(req.Title, req.Category, req.Description, req.Duration, req.Target, req.Participants,
				req.ImpactMetric, req.EstimatedImpactValue, "admin@ecotrack.com", start, end, req.ImageURL).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(id))
		got, err := svc.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, id, got)
	})

	t.Run("missing required field", func(t *testing.T) {
		req := valid()
		req.Title = ""
		_, err := svc.Create(ctx, req)
		assert.True(t, errs.IsValidation(err))
		assert.EqualError(t, err, "title is required")
	})

	t.Run("invalid start date", func(t *testing.T) {
		req := valid()
		req.StartDate = "junk"
		_, err := svc.Create(ctx, req)
		assert.True(t, errs.IsValidation(err))
		assert.EqualError(t, err, "Invalid startDate")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateChallenge(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	svc := services.NewChallengeService(mock)
	ctx := context.Background()
	id := uuid.New()
	title := "New title"
	participants := 7

	query := regexp.QuoteMeta(`UPDATE challenges SET title = $1, participants = $2, updated_at = NOW() WHERE id = $3`)
	req := &challenge.UpdateChallengeRequest{Title: &title, Participants: &participants}

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(title, participants, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		modified, err := svc.Update(ctx, id, req)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), modified)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs(title, participants, id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		_, err := svc.Update(ctx, id, req)
		assert.ErrorIs(t, err, errs.ErrChallengeNotFound)
	})

	t.Run("invalid end date", func(t *testing.T) {
		bad := "not-a-date"
		_, err := svc.Update(ctx, id, &challenge.UpdateChallengeRequest{EndDate: &bad})
		assert.True(t, errs.IsValidation(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
