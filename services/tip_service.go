package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ecoTrackAPI/internal/errs"
	"ecoTrackAPI/internal/types/tip"
)

const defaultTipLimit = 50

type TipService struct {
	db DB
}

func NewTipService(db DB) *TipService {
	return &TipService{db: db}
}

func (s *TipService) List(ctx context.Context, limit int) ([]tip.Tip, error) {
	if limit < 1 {
		limit = defaultTipLimit
	}
	rows, err := s.db.Query(ctx, `SELECT id, title, content, category, author, author_name, upvotes, created_at
		FROM tips ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer rows.Close()

	tips := make([]tip.Tip, 0, limit)
	for rows.Next() {
		var t tip.Tip
		if err := rows.Scan(&t.ID, &t.Title, &t.Content, &t.Category, &t.Author, &t.AuthorName, &t.Upvotes, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tip row: %w", err)
		}
		tips = append(tips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return tips, nil
}

func (s *TipService) Create(ctx context.Context, req *tip.CreateTipRequest) (uuid.UUID, error) {
	if req.Title == "" || req.Content == "" || req.Author == "" {
		return uuid.Nil, errs.Validation("title, content and author are required")
	}

	category := req.Category
	if category == "" {
		category = "General"
	}
	authorName := req.AuthorName
	if authorName == "" {
		authorName = req.Author
	}

	var id uuid.UUID
	err := s.db.QueryRow(ctx, `INSERT INTO tips (title, content, category, author, author_name, upvotes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW()) RETURNING id`,
		req.Title, req.Content, category, req.Author, authorName, req.Upvotes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert tip: %w", err)
	}
	return id, nil
}

func (s *TipService) Update(ctx context.Context, id uuid.UUID, req *tip.UpdateTipRequest) (int64, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Title != nil {
		set("title", *req.Title)
	}
	if req.Content != nil {
		set("content", *req.Content)
	}
	if req.Category != nil {
		set("category", *req.Category)
	}
	if req.Author != nil {
		set("author", *req.Author)
	}
	if req.AuthorName != nil {
		set("author_name", *req.AuthorName)
	}
	if req.Upvotes != nil {
		set("upvotes", *req.Upvotes)
	}
	if len(sets) == 0 {
		return 0, errs.Validation("no fields to update")
	}

	args = append(args, id)
	query := `UPDATE tips SET ` + strings.Join(sets, ", ") + fmt.Sprintf(" WHERE id = $%d", len(args))

	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update tip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrTipNotFound
	}
	return tag.RowsAffected(), nil
}

func (s *TipService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM tips WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete tip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return 0, errs.ErrTipNotFound
	}
	return tag.RowsAffected(), nil
}
