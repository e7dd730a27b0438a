package models

import "time"

// AnonymousVoter is recorded when a vote carries no voter identity.
const AnonymousVoter = "anonymous"

type Vote struct {
	ID        string
	VoterID   string
	WinnerID  string
	LoserID   string
	CreatedAt time.Time
}

type TopWinner struct {
	ImageID       string
	Count         int
	URL           string
	ModelName     string
	ModelUsername string
}

type Profile struct {
	VoterID           string
	TotalVotes        int64
	UniqueModelsVoted int64
	RecentVotes       []Vote
	TopWinners        []TopWinner
}
