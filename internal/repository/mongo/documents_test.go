package mongo

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hotornot/internal/models"
)

func decodeImage(t *testing.T, doc bson.M) models.Image {
	t.Helper()
	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var d imageDocument
	if err := bson.Unmarshal(raw, &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return d.toModel()
}

func TestImageDocument_DefaultsAtReadBoundary(t *testing.T) {
	oid := primitive.NewObjectID()
	img := decodeImage(t, bson.M{
		"_id": oid,
		"url": "https://cdn.example/a.jpg",
	})

	if img.ID != oid.Hex() {
		t.Errorf("ID = %q, want %q", img.ID, oid.Hex())
	}
	if img.Rating != models.DefaultRating {
		t.Errorf("Rating = %d, want %d", img.Rating, models.DefaultRating)
	}
	if img.ModelName != "Unknown" || img.ModelUsername != "unknown" {
		t.Errorf("display defaults = (%q, %q), want (Unknown, unknown)", img.ModelName, img.ModelUsername)
	}
	if img.Wins != 0 || img.Losses != 0 || img.LastOpponents != nil {
		t.Errorf("counters not zero: %+v", img)
	}
}

func TestImageDocument_MixedNumericTypes(t *testing.T) {
	img := decodeImage(t, bson.M{
		"_id":        primitive.NewObjectID(),
		"url":        "u",
		"elo":        1231.0,
		"wins":       int32(3),
		"losses":     int64(2),
		"timesRated": 5.0,
		"winRate":    0.6,
		"isActive":   true,
	})

	if img.Rating != 1231 || img.Wins != 3 || img.Losses != 2 || img.TimesRated != 5 {
		t.Fatalf("decoded = %+v", img)
	}
	if !img.IsActive {
		t.Error("IsActive = false, want true")
	}
}

func TestImageDocument_MalformedHistoryIgnored(t *testing.T) {
	img := decodeImage(t, bson.M{
		"_id":           primitive.NewObjectID(),
		"url":           "u",
		"lastOpponents": "not-an-array",
	})
	if img.LastOpponents != nil {
		t.Fatalf("LastOpponents = %v, want nil", img.LastOpponents)
	}
}

func TestImageDocument_History(t *testing.T) {
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	img := decodeImage(t, bson.M{
		"_id": primitive.NewObjectID(),
		"url": "u",
		"lastOpponents": bson.A{
			bson.M{"id": "abc", "elo": int32(1184), "result": "win", "timestamp": ts},
		},
	})
	if len(img.LastOpponents) != 1 {
		t.Fatalf("len(LastOpponents) = %d, want 1", len(img.LastOpponents))
	}
	got := img.LastOpponents[0]
	if got.ID != "abc" || got.Rating != 1184 || got.Result != models.OpponentResultWin || !got.Timestamp.Equal(ts) {
		t.Fatalf("opponent = %+v", got)
	}
}
