package models

import "time"

const (
	DefaultRating        = 1200
	DefaultModelName     = "Unknown"
	DefaultModelUsername = "unknown"

	// OpponentHistoryLimit bounds Image.LastOpponents to the newest entries.
	OpponentHistoryLimit = 20
)

type OpponentResult string

const (
	OpponentResultWin  OpponentResult = "win"
	OpponentResultLoss OpponentResult = "loss"
)

// Opponent summarizes one match from the point of view of the image that
// owns the history. Rating is the opponent's rating before the match.
type Opponent struct {
	ID        string         `json:"id"`
	ModelID   string         `json:"modelId,omitempty"`
	Rating    int            `json:"elo"`
	Result    OpponentResult `json:"result"`
	Timestamp time.Time      `json:"timestamp"`
}

type Image struct {
	ID            string
	URL           string
	Name          string
	Description   string
	ModelID       string
	ModelName     string
	ModelUsername string
	Instagram     string
	IsActive      bool
	Rating        int
	Wins          int
	Losses        int
	TimesRated    int
	WinRate       float64
	LastOpponents []Opponent
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ApplyDefaults fills fields that older records may not carry. Stores call
// it once when decoding so nothing downstream needs to guess.
func (i *Image) ApplyDefaults() {
	if i.Rating == 0 {
		i.Rating = DefaultRating
	}
	if i.ModelName == "" {
		i.ModelName = DefaultModelName
	}
	if i.ModelUsername == "" {
		i.ModelUsername = DefaultModelUsername
	}
	if i.Wins < 0 {
		i.Wins = 0
	}
	if i.Losses < 0 {
		i.Losses = 0
	}
}

// Outcome is the critical-path update applied to one side of a vote.
type Outcome struct {
	Rating  int
	WinRate float64
	At      time.Time
}

// ModelProfile carries display data shared by all images of one model.
type ModelProfile struct {
	Username  string `json:"username"`
	Name      string `json:"name"`
	Instagram string `json:"instagram"`
}

type LeaderboardEntry struct {
	Rank  int
	Image Image
}
