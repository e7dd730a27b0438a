// Package seed imports image assets from object storage into the store.
package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"hotornot/internal/models"
	"hotornot/internal/repository"
	"hotornot/internal/storage"
)

const ManifestName = "manifest.json"

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

type Source interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Read(ctx context.Context, key string) ([]byte, error)
	PublicURL(key string) string
}

// Manifest lists display data for the models in a bucket. It is optional;
// models missing from it are named after their directory.
type Manifest struct {
	Models []models.ModelProfile `json:"models"`
}

type Options struct {
	Prefix string
	DryRun bool
}

type Report struct {
	Listed   int
	Created  int
	Existing int
	Ignored  int
	Profiles int
}

type Importer struct {
	source   Source
	images   repository.ImageRepository
	profiles repository.ModelProfileRepository
	policy   *bluemonday.Policy
	log      zerolog.Logger
}

func NewImporter(source Source, images repository.ImageRepository, profiles repository.ModelProfileRepository, log zerolog.Logger) *Importer {
	return &Importer{
		source:   source,
		images:   images,
		profiles: profiles,
		policy:   bluemonday.StrictPolicy(),
		log:      log,
	}
}

func (im *Importer) Run(ctx context.Context, opts Options) (Report, error) {
	var report Report
	prefix := strings.Trim(opts.Prefix, "/")

	manifest, err := im.readManifest(ctx, prefix)
	if err != nil {
		return report, err
	}
	known := make(map[string]models.ModelProfile, len(manifest.Models))
	for _, p := range manifest.Models {
		p = im.cleanProfile(p)
		if p.Username == "" {
			continue
		}
		known[p.Username] = p
	}

	objects, err := im.source.List(ctx, listPrefix(prefix))
	if err != nil {
		return report, err
	}
	report.Listed = len(objects)

	seen := make(map[string]struct{})
	for _, obj := range objects {
		username, name, ok := parseKey(prefix, obj.Key)
		if !ok {
			report.Ignored++
			continue
		}
		username = im.clean(username)
		if username == "" {
			report.Ignored++
			continue
		}

		profile, ok := known[username]
		if !ok {
			profile = models.ModelProfile{Username: username, Name: username}
			known[username] = profile
		}
		if _, done := seen[username]; !done {
			seen[username] = struct{}{}
			if !opts.DryRun {
				if err := im.profiles.UpsertProfile(ctx, profile); err != nil {
					return report, fmt.Errorf("upsert profile %s: %w", username, err)
				}
			}
			report.Profiles++
		}

		url := im.source.PublicURL(obj.Key)
		exists, err := im.images.ExistsByURL(ctx, url)
		if err != nil {
			return report, fmt.Errorf("check %s: %w", url, err)
		}
		if exists {
			report.Existing++
			continue
		}

		img := models.Image{
			URL:           url,
			Name:          im.clean(name),
			ModelID:       username,
			ModelName:     profile.Name,
			ModelUsername: username,
			IsActive:      true,
			Rating:        models.DefaultRating,
		}
		if opts.DryRun {
			im.log.Info().Str("url", url).Str("model", username).Msg("would create image")
			report.Created++
			continue
		}
		if err := im.images.Create(ctx, &img); err != nil {
			return report, fmt.Errorf("create image %s: %w", url, err)
		}
		im.log.Debug().Str("id", img.ID).Str("url", url).Msg("image created")
		report.Created++
	}

	return report, nil
}

func (im *Importer) readManifest(ctx context.Context, prefix string) (Manifest, error) {
	var manifest Manifest
	data, err := im.source.Read(ctx, path.Join(prefix, ManifestName))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return manifest, nil
		}
		return manifest, fmt.Errorf("read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return manifest, fmt.Errorf("decode manifest: %w", err)
	}
	return manifest, nil
}

func (im *Importer) cleanProfile(p models.ModelProfile) models.ModelProfile {
	p.Username = im.clean(p.Username)
	p.Name = im.clean(p.Name)
	p.Instagram = strings.TrimPrefix(im.clean(p.Instagram), "@")
	if p.Name == "" {
		p.Name = p.Username
	}
	return p
}

func (im *Importer) clean(s string) string {
	return strings.TrimSpace(im.policy.Sanitize(s))
}

func listPrefix(prefix string) string {
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// parseKey splits "<prefix>/<username>/<file>.<ext>" into username and the
// file name without extension.
func parseKey(prefix, key string) (string, string, bool) {
	rel := strings.TrimPrefix(key, listPrefix(prefix))
	parts := strings.Split(rel, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	ext := strings.ToLower(path.Ext(parts[1]))
	if _, ok := imageExtensions[ext]; !ok {
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], path.Ext(parts[1])), true
}
