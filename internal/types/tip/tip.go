package tip

import (
	"time"

	"github.com/google/uuid"
)

type Tip struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	Category   string    `json:"category" db:"category"`
	Author     string    `json:"author" db:"author"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Upvotes    int       `json:"upvotes" db:"upvotes"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type CreateTipRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	Category   string `json:"category"`
	Author     string `json:"author"`
	AuthorName string `json:"authorName"`
	Upvotes    int    `json:"upvotes"`
}

type UpdateTipRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Category   *string `json:"category"`
	Author     *string `json:"author"`
	AuthorName *string `json:"authorName"`
	Upvotes    *int    `json:"upvotes"`
}
