package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/challenge"
)

const challengeColumns = `id, title, category, description, duration, target, participants, impact_metric, estimated_impact_value, created_by, start_date, end_date, image_url, created_at, updated_at`

const (
	defaultChallengePage    = 1
	defaultChallengePerPage = 20
	defaultCreatedBy        = "admin@ecotrack.com"
)

type ChallengeService struct {
	db DB
}

func NewChallengeService(db DB) *ChallengeService {
	return &ChallengeService{db: db}
}

// ChallengeFilter carries the optional list parameters. Zero values mean
// "no constraint"; Page/PerPage fall back to 1 and 20.
type ChallengeFilter struct {
	Categories      []string
	StartDateFrom   *time.Time
	StartDateTo     *time.Time
	MinParticipants *int
	MaxParticipants *int
	Search          string
	SortBy          string
	Page            int
	PerPage         int
}

func (f *ChallengeFilter) whereClause() (string, []any) {
	var conds []string
	var args []any
	if len(f.Categories) > 0 {
		args = append(args, f.Categories)
		conds = append(conds, fmt.Sprintf("category = ANY($%d)", len(args)))
	}
	if f.StartDateFrom != nil {
		args = append(args, *f.StartDateFrom)
		conds = append(conds, fmt.Sprintf("start_date >= $%d", len(args)))
	}
	if f.StartDateTo != nil {
		args = append(args, *f.StartDateTo)
		conds = append(conds, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if f.MinParticipants != nil {
		args = append(args, *f.MinParticipants)
		conds = append(conds, fmt.Sprintf("participants >= $%d", len(args)))
	}
	if f.MaxParticipants != nil {
		args = append(args, *f.MaxParticipants)
		conds = append(conds, fmt.Sprintf("participants <= $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f *ChallengeFilter) orderClause() string {
	switch f.SortBy {
	case "participants":
		return " ORDER BY participants DESC"
	case "startDate":
		return " ORDER BY start_date ASC"
	default:
		return " ORDER BY created_at DESC"
	}
}

type ChallengeList struct {
	Total   int
	Page    int
	PerPage int
	Data    []challenge.Challenge
}

// List returns the page slice plus the total count over the full filter,
// so callers can render pagination.
func (s *ChallengeService) List(ctx context.Context, filter *ChallengeFilter) (*ChallengeList, error) {
	page := filter.Page
	if page < 1 {
		page = defaultChallengePage
	}
	perPage := filter.PerPage
	if perPage < 1 {
		perPage = defaultChallengePerPage
	}

	where, args := filter.whereClause()

	var total int
	countQuery := `SELECT COUNT(*) FROM challenges` + where
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count challenges: %w", err)
	}

	dataQuery := `SELECT ` + challengeColumns + ` FROM challenges` + where + filter.orderClause() +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := s.db.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query challenges: %w", err)
	}
	defer rows.Close()

	data := make([]challenge.Challenge, 0, perPage)
	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", err)
		}
		data = append(data, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &ChallengeList{Total: total, Page: page, PerPage: perPage, Data: data}, nil
}

func (s *ChallengeService) Get(ctx context.Context, id uuid.UUID) (*challenge.Challenge, error) {
	row := s.db.QueryRow(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, id)
	c, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get challenge: %w", err)
	}
	return c, nil
}

func (s *ChallengeService) Create(ctx context.Context, req *challenge.CreateChallengeRequest) (uuid.UUID, error) {
	switch {
	case req.Title == "":
		return uuid.Nil, errs.Validation("title is required")
	case req.Category == "":
		return uuid.Nil, errs.Validation("category is required")
	case req.Description == "":
		return uuid.Nil, errs.Validation("description is required")
	case req.Duration == 0:
		return uuid.Nil, errs.Validation("duration is required")
	case req.ImpactMetric == "":
		return uuid.Nil, errs.Validation("impactMetric is required")
	case req.StartDate == "":
		return uuid.Nil, errs.Validation("startDate is required")
	case req.EndDate == "":
		return uuid.Nil, errs.Validation("endDate is required")
	}

	startDate, err := ParseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, errs.Validation("Invalid startDate")
	}
	endDate, err := ParseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, errs.Validation("Invalid endDate")
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = defaultCreatedBy
	}

	var id uuid.UUID
	err = s.db.QueryRow(ctx, `INSERT INTO challenges (title, category, description, duration, target, participants, impact_metric, estimated_impact_value, created_by, start_date, end_date, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW()) RETURNING id`,
		req.Title, req.Category, req.Description, req.Duration, req.Target, req.Participants,
		req.ImpactMetric, req.EstimatedImpactValue, createdBy, startDate, endDate, req.ImageURL,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert challenge: %w", err)
	}
	return id, nil
}

// Update applies only the fields present in the request. updated_at is
// always bumped, matching the source behavior.
func (s *ChallengeService) Update(ctx context.Context, id uuid.UUID, req *challenge.UpdateChallengeRequest) (int64, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Duration != nil {
		set("duration", *req.Duration)
	}
	if req.Target != nil {
		set("target", *req.Target)
	}
	if req.Participants != nil {
		set("participants", *req.Participants)
	}
	if req.ImpactMetric != nil {
		set("impact_metric", *req.ImpactMetric)
	}
	if req.EstimatedImpactValue != nil {
		set("estimated_impact_value", *req.EstimatedImpactValue)
	}
	if req.CreatedBy != nil {
		set("created_by", *req.CreatedBy)
	}
	if req.StartDate != nil {
		t, err := ParseDate(*req.StartDate)
		if err != nil {
			return 0, errs.Validation("Invalid startDate")
		}
		set("start_date", t)
	}
	if req.EndDate != nil {
		t, err := ParseDate(*req.EndDate)
		if err != nil {
			return 0, errs.Validation("Invalid endDate")
		}
		set("end_date", t)
	}
	if req.ImageURL != nil {
		set("image_url", *req.ImageURL)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := `UPDATE challenges SET ` + strings.Join(sets, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrChallengeNotFound
	}
	return tag.RowsAffected(), nil
}

func scanChallenge(row pgx.Row) (*challenge.Challenge, error) {
	var c challenge.Challenge
	err := row.Scan(
		&c.ID,
		&c.Title,
		&c.Category,
		&c.Description,
		&c.Duration,
		&c.Target,
		&c.Participants,
		&c.ImpactMetric,
		&c.EstimatedImpactValue,
		&c.CreatedBy,
		&c.StartDate,
		&c.EndDate,
		&c.ImageURL,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
