package stats

type CommunityStats struct {
	TotalChallenges   int     `json:"totalChallenges"`
	TotalParticipants int     `json:"totalParticipants"`
	TotalImpact       float64 `json:"totalImpact"`
}
