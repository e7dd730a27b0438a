package mongo

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotornot/internal/models"
)

// Numeric fields decode as float64 because documents written by other
// clients may carry doubles where this service writes integers.
type imageDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	URL           string             `bson:"url"`
	Name          string             `bson:"name,omitempty"`
	Description   string             `bson:"description,omitempty"`
	ModelID       string             `bson:"modelId,omitempty"`
	ModelName     string             `bson:"modelName,omitempty"`
	ModelUsername string             `bson:"modelUsername,omitempty"`
	IsActive      bool               `bson:"isActive"`
	Elo           float64            `bson:"elo,omitempty"`
	Wins          float64            `bson:"wins"`
	Losses        float64            `bson:"losses"`
	TimesRated    float64            `bson:"timesRated"`
	WinRate       float64            `bson:"winRate"`
	LastOpponents bson.RawValue      `bson:"lastOpponents,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

// imageInsert is written on create. It always carries an empty history
// array so later $push updates find the right type.
type imageInsert struct {
	URL           string             `bson:"url"`
	Name          string             `bson:"name,omitempty"`
	Description   string             `bson:"description,omitempty"`
	ModelID       string             `bson:"modelId,omitempty"`
	ModelName     string             `bson:"modelName,omitempty"`
	ModelUsername string             `bson:"modelUsername,omitempty"`
	IsActive      bool               `bson:"isActive"`
	Elo           int                `bson:"elo"`
	Wins          int                `bson:"wins"`
	Losses        int                `bson:"losses"`
	TimesRated    int                `bson:"timesRated"`
	WinRate       float64            `bson:"winRate"`
	LastOpponents []opponentDocument `bson:"lastOpponents"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

type opponentDocument struct {
	ID        string    `bson:"id"`
	ModelID   string    `bson:"modelId,omitempty"`
	Elo       float64   `bson:"elo"`
	Result    string    `bson:"result"`
	Timestamp time.Time `bson:"timestamp"`
}

type profileDocument struct {
	Username  string `bson:"username"`
	Name      string `bson:"name,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type voteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"userId"`
	WinnerID  string             `bson:"winnerId"`
	LoserID   string             `bson:"loserId"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d imageDocument) toModel() models.Image {
	img := models.Image{
		ID:            d.ID.Hex(),
		URL:           d.URL,
		Name:          d.Name,
		Description:   d.Description,
		ModelID:       d.ModelID,
		ModelName:     d.ModelName,
		ModelUsername: d.ModelUsername,
		IsActive:      d.IsActive,
		Rating:        int(math.Round(d.Elo)),
		Wins:          int(d.Wins),
		Losses:        int(d.Losses),
		TimesRated:    int(d.TimesRated),
		WinRate:       d.WinRate,
		LastOpponents: decodeOpponents(d.LastOpponents),
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
	img.ApplyDefaults()
	return img
}

// decodeOpponents tolerates a missing or malformed history field; the
// history is informational and must not make the record unreadable.
func decodeOpponents(raw bson.RawValue) []models.Opponent {
	if raw.Type != bsontype.Array {
		return nil
	}
	var docs []opponentDocument
	if err := raw.Unmarshal(&docs); err != nil {
		return nil
	}
	out := make([]models.Opponent, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.Opponent{
			ID:        d.ID,
			ModelID:   d.ModelID,
			Rating:    int(math.Round(d.Elo)),
			Result:    models.OpponentResult(d.Result),
			Timestamp: d.Timestamp,
		})
	}
	return out
}

func newImageInsert(img models.Image) imageInsert {
	return imageInsert{
		URL:           img.URL,
		Name:          img.Name,
		Description:   img.Description,
		ModelID:       img.ModelID,
		ModelName:     img.ModelName,
		ModelUsername: img.ModelUsername,
		IsActive:      img.IsActive,
		Elo:           img.Rating,
		Wins:          img.Wins,
		Losses:        img.Losses,
		TimesRated:    img.TimesRated,
		WinRate:       img.WinRate,
		LastOpponents: []opponentDocument{},
		CreatedAt:     img.CreatedAt,
		UpdatedAt:     img.UpdatedAt,
	}
}

func newOpponentDocument(o models.Opponent) opponentDocument {
	return opponentDocument{
		ID:        o.ID,
		ModelID:   o.ModelID,
		Elo:       float64(o.Rating),
		Result:    string(o.Result),
		Timestamp: o.Timestamp,
	}
}

func (d voteDocument) toModel() models.Vote {
	return models.Vote{
		ID:        d.ID.Hex(),
		VoterID:   d.UserID,
		WinnerID:  d.WinnerID,
		LoserID:   d.LoserID,
		CreatedAt: d.CreatedAt,
	}
}
