package models

// LeaderboardEntry is one row of the presence-time leaderboard
type LeaderboardEntry struct {
	// User is the display name of the user
	User string `json:"user"`

	// TotalSeconds is the cumulative presence time across completed sessions
	TotalSeconds int64 `json:"totalSeconds"`

	// Formatted is TotalSeconds rendered as HH:MM:SS
	Formatted string `json:"formattedDuration"`
}
