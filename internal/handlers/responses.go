package handlers

import (
	"time"

	"hotornot/internal/models"
)

type imageResponse struct {
	ID            string  `json:"_id"`
	URL           string  `json:"url"`
	ModelName     string  `json:"modelName"`
	ModelUsername string  `json:"modelUsername"`
	Instagram     string  `json:"instagram,omitempty"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"winRate"`
	Elo           int     `json:"elo"`
}

func newImageResponse(img models.Image) imageResponse {
	return imageResponse{
		ID:            img.ID,
		URL:           img.URL,
		ModelName:     img.ModelName,
		ModelUsername: img.ModelUsername,
		Instagram:     img.Instagram,
		Wins:          img.Wins,
		Losses:        img.Losses,
		WinRate:       img.WinRate,
		Elo:           img.Rating,
	}
}

type voteRecordResponse struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	WinnerID  string    `json:"winnerId"`
	LoserID   string    `json:"loserId"`
	CreatedAt time.Time `json:"createdAt"`
}

type topWinnerResponse struct {
	ID            string `json:"_id"`
	Count         int    `json:"count"`
	URL           string `json:"url"`
	ModelName     string `json:"modelName"`
	ModelUsername string `json:"modelUsername"`
}

type profileResponse struct {
	UserID            string               `json:"userId"`
	TotalVotes        int64                `json:"totalVotes"`
	UniqueModelsVoted int64                `json:"uniqueModelsVoted"`
	RecentVotes       []voteRecordResponse `json:"recentVotes"`
	TopWinners        []topWinnerResponse  `json:"topWinners"`
}

func newProfileResponse(p models.Profile) profileResponse {
	resp := profileResponse{
		UserID:            p.VoterID,
		TotalVotes:        p.TotalVotes,
		UniqueModelsVoted: p.UniqueModelsVoted,
		RecentVotes:       make([]voteRecordResponse, 0, len(p.RecentVotes)),
		TopWinners:        make([]topWinnerResponse, 0, len(p.TopWinners)),
	}
	for _, v := range p.RecentVotes {
		resp.RecentVotes = append(resp.RecentVotes, voteRecordResponse{
			ID:        v.ID,
			UserID:    v.VoterID,
			WinnerID:  v.WinnerID,
			LoserID:   v.LoserID,
			CreatedAt: v.CreatedAt,
		})
	}
	for _, w := range p.TopWinners {
		resp.TopWinners = append(resp.TopWinners, topWinnerResponse{
			ID:            w.ImageID,
			Count:         w.Count,
			URL:           w.URL,
			ModelName:     w.ModelName,
			ModelUsername: w.ModelUsername,
		})
	}
	return resp
}

type leaderboardEntryResponse struct {
	Rank          int     `json:"rank"`
	ID            string  `json:"_id"`
	URL           string  `json:"url"`
	ModelName     string  `json:"modelName"`
	ModelUsername string  `json:"modelUsername"`
	Elo           int     `json:"elo"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"winRate"`
}
