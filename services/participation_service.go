package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/challenge"
)

const userChallengeColumns = `id, user_id, challenge_id, status, progress, join_date, updated_at`

// InvalidRefPolicy decides what happens when a membership row carries a
// challenge_id that does not parse as a uuid.
type InvalidRefPolicy int

const (
	// DropInvalidRefs silently excludes the row from results, matching the
	// source aggregation behavior.
	DropInvalidRefs InvalidRefPolicy = iota
	// RejectInvalidRefs fails the whole read instead.
	RejectInvalidRefs
)

// ParticipationService owns the user_challenges collection: the
// denormalized reads joining memberships with their challenges, and the
// writes that keep Challenge.participants in sync with the membership set.
type ParticipationService struct {
	db     DB
	policy InvalidRefPolicy
}

func NewParticipationService(db DB) *ParticipationService {
	return &ParticipationService{db: db, policy: DropInvalidRefs}
}

func (s *ParticipationService) SetInvalidRefPolicy(p InvalidRefPolicy) {
	s.policy = p
}

// Join inserts a membership and increments the challenge counter in one
// transaction. The unique (user_id, challenge_id) constraint makes the
// duplicate check race-free, and the increment only runs when the insert
// actually took.
func (s *ParticipationService) Join(ctx context.Context, challengeID uuid.UUID, userID string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin join transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `INSERT INTO user_challenges (user_id, challenge_id, status, progress, join_date, updated_at)
		VALUES ($1, $2, $3, 0, NOW(), NOW())
		ON CONFLICT (user_id, challenge_id) DO NOTHING`,
		userID, challengeID.String(), string(challenge.StatusNotStarted))
	if err != nil {
		return fmt.Errorf("failed to insert user challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrAlreadyJoined
	}

	tag, err = tx.Exec(ctx, `UPDATE challenges SET participants = participants + 1, updated_at = NOW() WHERE id = $1`, challengeID)
	if err != nil {
		return fmt.Errorf("failed to increment participants: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Rollback also discards the membership insert.
		return errs.ErrChallengeNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("join transaction commit failed: %w", err)
	}
	return nil
}

// Leave deletes a membership and decrements its parent's counter in one
// transaction. The decrement is floored at zero so a drifted counter can
// never violate the non-negative check.
func (s *ParticipationService) Leave(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin leave transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var challengeID string
	err = tx.QueryRow(ctx, `DELETE FROM user_challenges WHERE id = $1 RETURNING challenge_id`, id).Scan(&challengeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errs.ErrUserChallengeNotFound
		}
		return fmt.Errorf("failed to delete user challenge: %w", err)
	}

	// A membership can reference a challenge id that no longer parses;
	// the row is still removable, there is just no counter to decrement.
	if parsed, parseErr := uuid.Parse(challengeID); parseErr == nil {
		_, err = tx.Exec(ctx, `UPDATE challenges SET participants = GREATEST(participants - 1, 0), updated_at = NOW() WHERE id = $1`, parsed)
		if err != nil {
			return fmt.Errorf("failed to decrement participants: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("leave transaction commit failed: %w", err)
	}
	return nil
}

// DeleteChallenge removes a challenge and cascades the delete to every
// membership referencing it.
func (s *ParticipationService) DeleteChallenge(ctx context.Context, id uuid.UUID) (int64, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM challenges WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrChallengeNotFound
	}
	deleted := tag.RowsAffected()

	_, err = tx.Exec(ctx, `DELETE FROM user_challenges WHERE challenge_id = $1`, id.String())
	if err != nil {
		return 0, fmt.Errorf("failed to cascade delete user challenges: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("delete transaction commit failed: %w", err)
	}
	return deleted, nil
}

// GetByUser lists a user's memberships, each paired with its resolved
// challenge. Inner-join semantics: rows whose challenge is gone (or whose
// stored id does not parse, under the drop policy) are excluded.
func (s *ParticipationService) GetByUser(ctx context.Context, userID string) ([]challenge.UserChallengeDetails, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userChallengeColumns+` FROM user_challenges WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user challenges: %w", err)
	}
	defer rows.Close()

	var memberships []challenge.UserChallenge
	for rows.Next() {
		var m challenge.UserChallenge
		if err := rows.Scan(&m.ID, &m.UserID, &m.ChallengeID, &m.Status, &m.Progress, &m.JoinDate, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user challenge row: %w", err)
		}
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	ids := make([]string, 0, len(memberships))
	for _, m := range memberships {
		parsed, err := uuid.Parse(m.ChallengeID)
		if err != nil {
			if s.policy == RejectInvalidRefs {
				return nil, fmt.Errorf("%w: user challenge %s references %q", errs.ErrInvalidID, m.ID, m.ChallengeID)
			}
			continue
		}
		ids = append(ids, parsed.String())
	}

	resolved, err := s.fetchChallenges(ctx, ids)
	if err != nil {
		return nil, err
	}

	details := make([]challenge.UserChallengeDetails, 0, len(memberships))
	for _, m := range memberships {
		parsed, err := uuid.Parse(m.ChallengeID)
		if err != nil {
			continue
		}
		c, ok := resolved[parsed.String()]
		if !ok {
			continue
		}
		details = append(details, challenge.UserChallengeDetails{UserChallenge: m, ChallengeDetails: c})
	}
	return details, nil
}

// GetByID resolves a single membership. A missing membership, an
// unparseable reference, and a deleted parent challenge all read as
// not-found.
func (s *ParticipationService) GetByID(ctx context.Context, id uuid.UUID) (*challenge.UserChallengeDetails, error) {
	var m challenge.UserChallenge
	err := s.db.QueryRow(ctx, `SELECT `+userChallengeColumns+` FROM user_challenges WHERE id = $1`, id).
		Scan(&m.ID, &m.UserID, &m.ChallengeID, &m.Status, &m.Progress, &m.JoinDate, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrUserChallengeNotFound
		}
		return nil, fmt.Errorf("failed to get user challenge: %w", err)
	}

	challengeID, err := uuid.Parse(m.ChallengeID)
	if err != nil {
		return nil, errs.ErrUserChallengeNotFound
	}

	row := s.db.QueryRow(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = $1`, challengeID)
	c, err := scanChallenge(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrUserChallengeNotFound
		}
		return nil, fmt.Errorf("failed to resolve challenge: %w", err)
	}

	return &challenge.UserChallengeDetails{UserChallenge: m, ChallengeDetails: *c}, nil
}

// Update edits progress and/or status on a membership.
func (s *ParticipationService) Update(ctx context.Context, id uuid.UUID, req *challenge.UpdateUserChallengeRequest) (int64, error) {
	var sets []string
	var args []any
	if req.Status != nil {
		args = append(args, *req.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Progress != nil {
		args = append(args, *req.Progress)
		sets = append(sets, fmt.Sprintf("progress = $%d", len(args)))
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := `UPDATE user_challenges SET ` + strings.Join(sets, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update user challenge: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrUserChallengeNotFound
	}
	return tag.RowsAffected(), nil
}

// ReconcileParticipants recomputes every challenge's participants counter
// from live membership rows. Maintenance operation for drift left by
// interrupted writes predating the transactional join/leave.
func (s *ParticipationService) ReconcileParticipants(ctx context.Context) (int64, error) {
	tag, err := s.db.Exec(ctx, `UPDATE challenges c SET participants = sub.cnt, updated_at = NOW()
		FROM (
			SELECT c2.id, COUNT(uc.id) AS cnt
			FROM challenges c2
			LEFT JOIN user_challenges uc ON uc.challenge_id = c2.id::text
			GROUP BY c2.id
		) sub
		WHERE sub.id = c.id AND c.participants <> sub.cnt`)
	if err != nil {
		return 0, fmt.Errorf("failed to reconcile participants: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *ParticipationService) fetchChallenges(ctx context.Context, ids []string) (map[string]challenge.Challenge, error) {
	resolved := make(map[string]challenge.Challenge, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	rows, err := s.db.Query(ctx, `SELECT `+challengeColumns+` FROM challenges WHERE id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query referenced challenges: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan challenge row: %w", err)
		}
		resolved[c.ID.String()] = *c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return resolved, nil
}
