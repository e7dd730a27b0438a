package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"hotornot/internal/models"
	"hotornot/internal/repository"
)

const (
	pairSize         = 2
	fallbackPoolSize = 10
)

// Pair is the comparison shown to a voter. It may hold fewer than two
// images when the store does not have enough; callers check Complete.
type Pair struct {
	Images []models.Image
}

func (p Pair) Complete() bool {
	return len(p.Images) == pairSize
}

type PairService struct {
	images   repository.ImageRepository
	profiles repository.ModelProfileRepository
	log      zerolog.Logger
}

func NewPairService(images repository.ImageRepository, profiles repository.ModelProfileRepository, log zerolog.Logger) *PairService {
	return &PairService{
		images:   images,
		profiles: profiles,
		log:      log,
	}
}

// Next samples two active images. When fewer than two are active it takes
// the first two of an unfiltered pool instead, which may include inactive
// images. Next never writes.
func (s *PairService) Next(ctx context.Context) (Pair, error) {
	images, err := s.images.SampleActive(ctx, pairSize)
	if err != nil {
		return Pair{}, fmt.Errorf("sample active images: %w", err)
	}

	if len(images) < pairSize {
		s.log.Debug().Int("active", len(images)).Msg("not enough active images, using unfiltered pool")

		pool, err := s.images.List(ctx, fallbackPoolSize)
		if err != nil {
			return Pair{}, fmt.Errorf("list fallback images: %w", err)
		}
		images = firstDistinct(pool, pairSize)
		if len(images) < pairSize {
			s.log.Warn().Int("total", len(pool)).Msg("not enough images to build a pair")
		}
	}

	s.attachHandles(ctx, images)
	return Pair{Images: images}, nil
}

func (s *PairService) attachHandles(ctx context.Context, images []models.Image) {
	if s.profiles == nil || len(images) == 0 {
		return
	}

	usernames := make([]string, 0, len(images))
	for _, img := range images {
		if img.ModelUsername != "" && img.ModelUsername != models.DefaultModelUsername {
			usernames = append(usernames, img.ModelUsername)
		}
	}
	if len(usernames) == 0 {
		return
	}

	handles, err := s.profiles.SocialHandles(ctx, usernames)
	if err != nil {
		s.log.Warn().Err(err).Msg("social handle lookup failed")
		return
	}
	for i := range images {
		images[i].Instagram = handles[images[i].ModelUsername]
	}
}

func firstDistinct(images []models.Image, n int) []models.Image {
	out := make([]models.Image, 0, n)
	seen := make(map[string]struct{}, n)
	for _, img := range images {
		if len(out) == n {
			break
		}
		if _, dup := seen[img.ID]; dup {
			continue
		}
		seen[img.ID] = struct{}{}
		out = append(out, img)
	}
	return out
}
