package event

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Description     string    `json:"description" db:"description"`
	Date            time.Time `json:"date" db:"date"`
	Location        string    `json:"location" db:"location"`
	Organizer       string    `json:"organizer" db:"organizer"`
	MaxParticipants int       `json:"maxParticipants" db:"max_participants"`
	// CurrentParticipants is initialized to zero and never incremented;
	// no join-event flow exists yet.
	CurrentParticipants int       `json:"currentParticipants" db:"current_participants"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
}

type CreateEventRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	Location        string `json:"location"`
	Organizer       string `json:"organizer"`
	MaxParticipants int    `json:"maxParticipants"`
}

type UpdateEventRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Location        *string `json:"location"`
	Organizer       *string `json:"organizer"`
	MaxParticipants *int    `json:"maxParticipants"`
}
