package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/event"
)

const defaultEventLimit = 20

type EventService struct {
	db DB
}

func NewEventService(db DB) *EventService {
	return &EventService{db: db}
}

// List returns upcoming events only, soonest first.
func (s *EventService) List(ctx context.Context, limit int) ([]event.Event, error) {
	if limit < 1 {
		limit = defaultEventLimit
	}
	rows, err := s.db.Query(ctx, `SELECT id, title, description, date, location, organizer, max_participants, current_participants, created_at
		FROM events WHERE date >= NOW() ORDER BY date ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := make([]event.Event, 0, limit)
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Organizer, &e.MaxParticipants, &e.CurrentParticipants, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return events, nil
}

func (s *EventService) Create(ctx context.Context, req *event.CreateEventRequest) (uuid.UUID, error) {
	if req.Title == "" || req.Date == "" || req.Location == "" {
		return uuid.Nil, errs.Validation("title, date and location are required")
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return uuid.Nil, errs.Validation("Invalid date")
	}

	var id uuid.UUID
	err = s.db.QueryRow(ctx, `INSERT INTO events (title, description, date, location, organizer, max_participants, current_participants, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, NOW()) RETURNING id`,
		req.Title, req.Description, date, req.Location, req.Organizer, req.MaxParticipants,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

func (s *EventService) Update(ctx context.Context, id uuid.UUID, req *event.UpdateEventRequest) (int64, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Description != nil {
		set("description", *req.Description)
	}
	if req.Date != nil {
		t, err := ParseDate(*req.Date)
		if err != nil {
			return 0, errs.Validation("Invalid date")
		}
		set("date", t)
	}
	if req.Location != nil {
		set("location", *req.Location)
	}
	if req.Organizer != nil {
		set("organizer", *req.Organizer)
	}
	if req.MaxParticipants != nil {
		set("max_participants", *req.MaxParticipants)
	}
	if len(sets) == 0 {
		return 0, errs.Validation("no fields to update")
	}

	args = append(args, id)
	query := `UPDATE events SET ` + strings.Join(sets, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrEventNotFound
	}
	return tag.RowsAffected(), nil
}

func (s *EventService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrEventNotFound
	}
	return tag.RowsAffected(), nil
}
