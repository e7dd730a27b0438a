// Package mongo stores images, model profiles and votes as documents in the
// `images`, `models` and `votes` collections.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"hotornot/internal/models"
	"hotornot/internal/repository"
)

const (
	imagesCollection   = "images"
	profilesCollection = "models"
	votesCollection    = "votes"
)

func NewStore(client *mongo.Client, database string) *repository.Store {
	db := client.Database(database)
	images := &ImageRepository{coll: db.Collection(imagesCollection)}
	return &repository.Store{
		Images:    images,
		Opponents: images,
		Profiles:  &ProfileRepository{coll: db.Collection(profilesCollection)},
		Votes:     &VoteRepository{coll: db.Collection(votesCollection), images: images},
		Backend:   backend{client: client},
	}
}

// EnsureIndexes creates the indexes the profile queries and seeding rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := db.Collection(votesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return fmt.Errorf("votes index: %w", err)
	}
	if _, err := db.Collection(imagesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "url", Value: 1}}},
		{Keys: bson.D{{Key: "elo", Value: -1}}},
	}); err != nil {
		return fmt.Errorf("images indexes: %w", err)
	}
	if _, err := db.Collection(profilesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}},
	}); err != nil {
		return fmt.Errorf("models index: %w", err)
	}
	return nil
}

type backend struct {
	client *mongo.Client
}

func (b backend) Name() string {
	return "mongo"
}

func (b backend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx, readpref.Primary())
}

func (b backend) Close(ctx context.Context) error {
	return b.client.Disconnect(ctx)
}

type ImageRepository struct {
	coll *mongo.Collection
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (models.Image, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Image{}, repository.ErrImageNotFound
	}

	var doc imageDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Image{}, repository.ErrImageNotFound
		}
		return models.Image{}, err
	}
	return doc.toModel(), nil
}

func (r *ImageRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Image, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []models.Image{}, nil
	}

	found, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find())
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Image, len(found))
	for _, img := range found {
		byID[img.ID] = img
	}
	out := make([]models.Image, 0, len(found))
	for _, id := range ids {
		if img, ok := byID[id]; ok {
			out = append(out, img)
		}
	}
	return out, nil
}

func (r *ImageRepository) SampleActive(ctx context.Context, size int) ([]models.Image, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$sample", Value: bson.M{"size": size}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	return decodeImages(ctx, cursor)
}

func (r *ImageRepository) List(ctx context.Context, limit int) ([]models.Image, error) {
	return r.find(ctx, bson.M{}, options.Find().SetLimit(int64(limit)))
}

func (r *ImageRepository) TopRated(ctx context.Context, limit int) ([]models.Image, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "elo", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *ImageRepository) RecordWin(ctx context.Context, id string, outcome models.Outcome) error {
	return r.recordOutcome(ctx, id, "wins", outcome)
}

func (r *ImageRepository) RecordLoss(ctx context.Context, id string, outcome models.Outcome) error {
	return r.recordOutcome(ctx, id, "losses", outcome)
}

func (r *ImageRepository) recordOutcome(ctx context.Context, id, counter string, outcome models.Outcome) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return repository.ErrImageNotFound
	}

	update := bson.M{
		"$inc": bson.M{counter: 1, "timesRated": 1},
		"$set": bson.M{
			"elo":       outcome.Rating,
			"winRate":   outcome.WinRate,
			"updatedAt": outcome.At,
		},
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repository.ErrImageNotFound
	}
	return nil
}

func (r *ImageRepository) AppendOpponent(ctx context.Context, imageID string, opponent models.Opponent) error {
	oid, err := primitive.ObjectIDFromHex(imageID)
	if err != nil {
		return repository.ErrImageNotFound
	}

	update := bson.M{
		"$push": bson.M{
			"lastOpponents": bson.M{
				"$each":  []opponentDocument{newOpponentDocument(opponent)},
				"$slice": -models.OpponentHistoryLimit,
			},
		},
	}
	_, err = r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	return err
}

func (r *ImageRepository) Create(ctx context.Context, image *models.Image) error {
	now := time.Now().UTC()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = now
	}
	if image.UpdatedAt.IsZero() {
		image.UpdatedAt = now
	}
	image.ApplyDefaults()

	res, err := r.coll.InsertOne(ctx, newImageInsert(*image))
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		image.ID = oid.Hex()
	}
	return nil
}

func (r *ImageRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"url": url}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ImageRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

func (r *ImageRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Image, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeImages(ctx, cursor)
}

func decodeImages(ctx context.Context, cursor *mongo.Cursor) ([]models.Image, error) {
	defer cursor.Close(ctx)

	images := make([]models.Image, 0)
	for cursor.Next(ctx) {
		var doc imageDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		images = append(images, doc.toModel())
	}
	return images, cursor.Err()
}

type ProfileRepository struct {
	coll *mongo.Collection
}

func (r *ProfileRepository) SocialHandles(ctx context.Context, usernames []string) (map[string]string, error) {
	handles := make(map[string]string, len(usernames))
	if len(usernames) == 0 {
		return handles, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"username": bson.M{"$in": usernames}})
	if err != nil {
		return nil, err
	}
	var docs []profileDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		handles[d.Username] = d.Instagram
	}
	return handles, nil
}

func (r *ProfileRepository) UpsertProfile(ctx context.Context, profile models.ModelProfile) error {
	update := bson.M{
		"$set": bson.M{
			"name":      profile.Name,
			"instagram": profile.Instagram,
			"updatedAt": time.Now().UTC(),
		},
	}
	_, err := r.coll.UpdateOne(ctx, bson.M{"username": profile.Username}, update, options.Update().SetUpsert(true))
	return err
}

type VoteRepository struct {
	coll   *mongo.Collection
	images *ImageRepository
}

func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	res, err := r.coll.InsertOne(ctx, voteDocument{
		UserID:    vote.VoterID,
		WinnerID:  vote.WinnerID,
		LoserID:   vote.LoserID,
		CreatedAt: vote.CreatedAt,
	})
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		vote.ID = oid.Hex()
	}
	return nil
}

func (r *VoteRepository) CountByVoter(ctx context.Context, voterID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"userId": voterID})
}

func (r *VoteRepository) RecentByVoter(ctx context.Context, voterID string, limit int) ([]models.Vote, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, bson.M{"userId": voterID}, opts)
	if err != nil {
		return nil, err
	}
	var docs []voteDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	votes := make([]models.Vote, 0, len(docs))
	for _, d := range docs {
		votes = append(votes, d.toModel())
	}
	return votes, nil
}

func (r *VoteRepository) CountImagesByVoter(ctx context.Context, voterID string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": voterID}}},
		{{Key: "$group", Value: bson.M{
			"_id":     nil,
			"winners": bson.M{"$addToSet": "$winnerId"},
			"losers":  bson.M{"$addToSet": "$loserId"},
		}}},
		{{Key: "$project", Value: bson.M{
			"count": bson.M{"$size": bson.M{"$setUnion": bson.A{"$winners", "$losers"}}},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		Count int64 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Count, nil
}

// TopWinnersByVoter joins in Go: votes store image ids as hex strings while
// images are keyed by ObjectID, so a $lookup on _id would never match.
func (r *VoteRepository) TopWinnersByVoter(ctx context.Context, voterID string, limit int) ([]models.TopWinner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": voterID}}},
		{{Key: "$group", Value: bson.M{"_id": "$winnerId", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		ID    string `bson:"_id"`
		Count int    `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []models.TopWinner{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	images, err := r.images.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load winner images: %w", err)
	}
	byID := make(map[string]models.Image, len(images))
	for _, img := range images {
		byID[img.ID] = img
	}

	winners := make([]models.TopWinner, 0, len(rows))
	for _, row := range rows {
		img, ok := byID[row.ID]
		if !ok {
			continue
		}
		winners = append(winners, models.TopWinner{
			ImageID:       row.ID,
			Count:         row.Count,
			URL:           img.URL,
			ModelName:     img.ModelName,
			ModelUsername: img.ModelUsername,
		})
	}
	return winners, nil
}
