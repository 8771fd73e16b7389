package challenge

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

type Challenge struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Title                string    `json:"title" db:"title"`
	Category             string    `json:"category" db:"category"`
	Description          string    `json:"description" db:"description"`
	Duration             int       `json:"duration" db:"duration"`
	Target               string    `json:"target" db:"target"`
	Participants         int       `json:"participants" db:"participants"`
	ImpactMetric         string    `json:"impactMetric" db:"impact_metric"`
	EstimatedImpactValue *float64  `json:"estimatedImpactValue,omitempty" db:"estimated_impact_value"`
	CreatedBy            string    `json:"createdBy" db:"created_by"`
	StartDate            time.Time `json:"startDate" db:"start_date"`
	EndDate              time.Time `json:"endDate" db:"end_date"`
	ImageURL             string    `json:"imageUrl" db:"image_url"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}

// UserChallenge links a user to a challenge. ChallengeID is stored as plain
// text, not a native uuid column; it gets parsed at the service boundary.
type UserChallenge struct {
	ID          uuid.UUID `json:"id" db:"id"`
	UserID      string    `json:"userId" db:"user_id"`
	ChallengeID string    `json:"challengeId" db:"challenge_id"`
	Status      string    `json:"status" db:"status"`
	Progress    float64   `json:"progress" db:"progress"`
	JoinDate    time.Time `json:"joinDate" db:"join_date"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// UserChallengeDetails is the denormalized read view: a membership row
// paired with its resolved parent challenge.
type UserChallengeDetails struct {
	UserChallenge
	ChallengeDetails Challenge `json:"challengeDetails"`
}

type CreateChallengeRequest struct {
	Title                string   `json:"title"`
	Category             string   `json:"category"`
	Description          string   `json:"description"`
	Duration             int      `json:"duration"`
	Target               string   `json:"target"`
	Participants         int      `json:"participants"`
	ImpactMetric         string   `json:"impactMetric"`
	EstimatedImpactValue *float64 `json:"estimatedImpactValue"`
	CreatedBy            string   `json:"createdBy"`
	StartDate            string   `json:"startDate"`
	EndDate              string   `json:"endDate"`
	ImageURL             string   `json:"imageUrl"`
}

type UpdateChallengeRequest struct {
	Title                *string  `json:"title"`
	Category             *string  `json:"category"`
	Description          *string  `json:"description"`
	Duration             *int     `json:"duration"`
	Target               *string  `json:"target"`
	Participants         *int     `json:"participants"`
	ImpactMetric         *string  `json:"impactMetric"`
	EstimatedImpactValue *float64 `json:"estimatedImpactValue"`
	CreatedBy            *string  `json:"createdBy"`
	StartDate            *string  `json:"startDate"`
	EndDate              *string  `json:"endDate"`
	ImageURL             *string  `json:"imageUrl"`
}

type JoinChallengeRequest struct {
	UserID string `json:"userId"`
}

type UpdateUserChallengeRequest struct {
	Status   *string  `json:"status"`
	Progress *float64 `json:"progress"`
}
