package services

import (
	"context"
	"fmt"

	"ecoTrackAPI/internal/stats"
)

type StatsService struct {
	db DB
}

func NewStatsService(db DB) *StatsService {
	return &StatsService{db: db}
}

// CommunityStats aggregates over the challenges collection. Challenges
// without an estimated_impact_value contribute zero to the impact sum.
func (s *StatsService) CommunityStats(ctx context.Context) (*stats.CommunityStats, error) {
	var result stats.CommunityStats
	err := s.db.QueryRow(ctx, `SELECT COUNT(*), COALESCE(SUM(participants), 0), COALESCE(SUM(estimated_impact_value), 0)
		FROM challenges`).Scan(&result.TotalChallenges, &result.TotalParticipants, &result.TotalImpact)
	if err != nil {
		return nil, fmt.Errorf("failed to compute community stats: %w", err)
	}
	return &result, nil
}
