// Package memory is an in-process store with the same semantics as the
// database backends. It backs `memory://` connection strings and tests.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"hotornot/internal/ids"
	"hotornot/internal/models"
	"hotornot/internal/repository"
)

type state struct {
	mu       sync.RWMutex
	images   map[string]models.Image
	order    []string
	profiles map[string]models.ModelProfile
	votes    []models.Vote
}

func New() *repository.Store {
	st := &state{
		images:   make(map[string]models.Image),
		profiles: make(map[string]models.ModelProfile),
	}
	images := &ImageRepository{st: st}
	return &repository.Store{
		Images:    images,
		Opponents: images,
		Profiles:  &ProfileRepository{st: st},
		Votes:     &VoteRepository{st: st},
		Backend:   backend{},
	}
}

type backend struct{}

func (backend) Name() string { return "memory" }

func (backend) Ping(context.Context) error { return nil }

func (backend) Close(context.Context) error { return nil }

type ImageRepository struct {
	st *state
}

func (r *ImageRepository) GetByID(_ context.Context, id string) (models.Image, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	img, ok := r.st.images[id]
	if !ok {
		return models.Image{}, repository.ErrImageNotFound
	}
	return clone(img), nil
}

func (r *ImageRepository) GetByIDs(_ context.Context, ids []string) ([]models.Image, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]models.Image, 0, len(ids))
	for _, id := range ids {
		if img, ok := r.st.images[id]; ok {
			out = append(out, clone(img))
		}
	}
	return out, nil
}

func (r *ImageRepository) SampleActive(_ context.Context, size int) ([]models.Image, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	active := make([]models.Image, 0, len(r.st.order))
	for _, id := range r.st.order {
		if img := r.st.images[id]; img.IsActive {
			active = append(active, img)
		}
	}
	rand.Shuffle(len(active), func(i, j int) { active[i], active[j] = active[j], active[i] })
	if len(active) > size {
		active = active[:size]
	}
	return cloneAll(active), nil
}

func (r *ImageRepository) List(_ context.Context, limit int) ([]models.Image, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]models.Image, 0, min(limit, len(r.st.order)))
	for _, id := range r.st.order {
		if len(out) == limit {
			break
		}
		out = append(out, clone(r.st.images[id]))
	}
	return out, nil
}

func (r *ImageRepository) TopRated(_ context.Context, limit int) ([]models.Image, error) {
	r.st.mu.RLock()
	all := make([]models.Image, 0, len(r.st.order))
	for _, id := range r.st.order {
		all = append(all, r.st.images[id])
	}
	r.st.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool { return all[i].Rating > all[j].Rating })
	if len(all) > limit {
		all = all[:limit]
	}
	return cloneAll(all), nil
}

func (r *ImageRepository) RecordWin(_ context.Context, id string, outcome models.Outcome) error {
	return r.update(id, func(img *models.Image) {
		img.Wins++
		img.TimesRated++
		img.Rating = outcome.Rating
		img.WinRate = outcome.WinRate
		img.UpdatedAt = outcome.At
	})
}

func (r *ImageRepository) RecordLoss(_ context.Context, id string, outcome models.Outcome) error {
	return r.update(id, func(img *models.Image) {
		img.Losses++
		img.TimesRated++
		img.Rating = outcome.Rating
		img.WinRate = outcome.WinRate
		img.UpdatedAt = outcome.At
	})
}

func (r *ImageRepository) AppendOpponent(_ context.Context, imageID string, opponent models.Opponent) error {
	return r.update(imageID, func(img *models.Image) {
		img.LastOpponents = append(img.LastOpponents, opponent)
		if n := len(img.LastOpponents); n > models.OpponentHistoryLimit {
			img.LastOpponents = img.LastOpponents[n-models.OpponentHistoryLimit:]
		}
	})
}

func (r *ImageRepository) update(id string, fn func(*models.Image)) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	img, ok := r.st.images[id]
	if !ok {
		return repository.ErrImageNotFound
	}
	fn(&img)
	r.st.images[id] = img
	return nil
}

func (r *ImageRepository) Create(_ context.Context, image *models.Image) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if image.ID == "" {
		image.ID = ids.New()
	}
	now := time.Now().UTC()
	if image.CreatedAt.IsZero() {
		image.CreatedAt = now
	}
	if image.UpdatedAt.IsZero() {
		image.UpdatedAt = now
	}

	stored := clone(*image)
	stored.ApplyDefaults()
	if _, exists := r.st.images[image.ID]; !exists {
		r.st.order = append(r.st.order, image.ID)
	}
	r.st.images[image.ID] = stored
	return nil
}

func (r *ImageRepository) ExistsByURL(_ context.Context, url string) (bool, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	for _, img := range r.st.images {
		if img.URL == url {
			return true, nil
		}
	}
	return false, nil
}

func (r *ImageRepository) Count(context.Context) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return int64(len(r.st.images)), nil
}

type ProfileRepository struct {
	st *state
}

func (r *ProfileRepository) SocialHandles(_ context.Context, usernames []string) (map[string]string, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	handles := make(map[string]string, len(usernames))
	for _, username := range usernames {
		if p, ok := r.st.profiles[username]; ok {
			handles[username] = p.Instagram
		}
	}
	return handles, nil
}

func (r *ProfileRepository) UpsertProfile(_ context.Context, profile models.ModelProfile) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.profiles[profile.Username] = profile
	return nil
}

type VoteRepository struct {
	st *state
}

func (r *VoteRepository) Create(_ context.Context, vote *models.Vote) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if vote.ID == "" {
		vote.ID = ids.New()
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}
	r.st.votes = append(r.st.votes, *vote)
	return nil
}

func (r *VoteRepository) CountByVoter(_ context.Context, voterID string) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	var n int64
	for _, v := range r.st.votes {
		if v.VoterID == voterID {
			n++
		}
	}
	return n, nil
}

func (r *VoteRepository) RecentByVoter(_ context.Context, voterID string, limit int) ([]models.Vote, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]models.Vote, 0, limit)
	// Walk backwards: appends arrive in time order, newest last.
	for i := len(r.st.votes) - 1; i >= 0 && len(out) < limit; i-- {
		if r.st.votes[i].VoterID == voterID {
			out = append(out, r.st.votes[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *VoteRepository) CountImagesByVoter(_ context.Context, voterID string) (int64, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, v := range r.st.votes {
		if v.VoterID != voterID {
			continue
		}
		seen[v.WinnerID] = struct{}{}
		seen[v.LoserID] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (r *VoteRepository) TopWinnersByVoter(_ context.Context, voterID string, limit int) ([]models.TopWinner, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	counts := make(map[string]int)
	for _, v := range r.st.votes {
		if v.VoterID == voterID {
			counts[v.WinnerID]++
		}
	}

	winners := make([]models.TopWinner, 0, len(counts))
	for id, n := range counts {
		winners = append(winners, models.TopWinner{ImageID: id, Count: n})
	}
	sort.Slice(winners, func(i, j int) bool {
		if winners[i].Count != winners[j].Count {
			return winners[i].Count > winners[j].Count
		}
		return winners[i].ImageID < winners[j].ImageID
	})
	if len(winners) > limit {
		winners = winners[:limit]
	}

	out := winners[:0]
	for _, w := range winners {
		img, ok := r.st.images[w.ImageID]
		if !ok {
			continue
		}
		w.URL = img.URL
		w.ModelName = img.ModelName
		w.ModelUsername = img.ModelUsername
		out = append(out, w)
	}
	return out, nil
}

func clone(img models.Image) models.Image {
	if img.LastOpponents != nil {
		img.LastOpponents = append([]models.Opponent(nil), img.LastOpponents...)
	}
	return img
}

func cloneAll(images []models.Image) []models.Image {
	out := make([]models.Image, len(images))
	for i, img := range images {
		out[i] = clone(img)
	}
	return out
}
