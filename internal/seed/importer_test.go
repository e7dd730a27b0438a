package seed

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"hotornot/internal/models"
	"hotornot/internal/repository/memory"
	"hotornot/internal/storage"
)

type fakeSource struct {
	objects []storage.Object
	files   map[string][]byte
}

func (f *fakeSource) List(context.Context, string) ([]storage.Object, error) {
	return f.objects, nil
}

func (f *fakeSource) Read(_ context.Context, key string) ([]byte, error) {
	data, ok := f.files[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return data, nil
}

func (f *fakeSource) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

func newSource() *fakeSource {
	return &fakeSource{
		objects: []storage.Object{
			{Key: "models/ann/01.jpg"},
			{Key: "models/ann/02.PNG"},
			{Key: "models/bea/01.webp"},
			{Key: "models/bea/notes.txt"},
			{Key: "models/manifest.json"},
			{Key: "models/loose.jpg"},
		},
		files: map[string][]byte{
			"models/manifest.json": []byte(`{"models":[{"username":"ann","name":"<b>Ann</b> Lee","instagram":"@ann.lee"}]}`),
		},
	}
}

func TestImporter_Run(t *testing.T) {
	store := memory.New()
	im := NewImporter(newSource(), store.Images, store.Profiles, zerolog.Nop())
	ctx := context.Background()

	report, err := im.Run(ctx, Options{Prefix: "/models/"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Created != 3 || report.Ignored != 3 || report.Profiles != 2 || report.Existing != 0 {
		t.Fatalf("report = %+v", report)
	}

	images, _ := store.Images.List(ctx, 10)
	if len(images) != 3 {
		t.Fatalf("images = %d, want 3", len(images))
	}
	first := images[0]
	if first.URL != "https://cdn.test/models/ann/01.jpg" || first.ModelName != "Ann Lee" || first.ModelUsername != "ann" || first.Name != "01" {
		t.Errorf("first image = %+v", first)
	}
	if !first.IsActive || first.Rating != models.DefaultRating || first.TimesRated != 0 {
		t.Errorf("first image state = %+v", first)
	}
	if images[2].ModelName != "bea" {
		t.Errorf("unlisted model name = %q, want bea", images[2].ModelName)
	}

	handles, _ := store.Profiles.SocialHandles(ctx, []string{"ann", "bea"})
	if handles["ann"] != "ann.lee" || handles["bea"] != "" {
		t.Errorf("handles = %v", handles)
	}

	// A second run finds everything already imported.
	report, err = im.Run(ctx, Options{Prefix: "models"})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if report.Created != 0 || report.Existing != 3 {
		t.Fatalf("second report = %+v", report)
	}
	if n, _ := store.Images.Count(ctx); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestImporter_DryRun(t *testing.T) {
	store := memory.New()
	im := NewImporter(newSource(), store.Images, store.Profiles, zerolog.Nop())

	report, err := im.Run(context.Background(), Options{Prefix: "models", DryRun: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Created != 3 {
		t.Errorf("report = %+v", report)
	}
	if n, _ := store.Images.Count(context.Background()); n != 0 {
		t.Errorf("dry run wrote %d images", n)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		prefix, key string
		user, name  string
		ok          bool
	}{
		{"", "ann/01.jpg", "ann", "01", true},
		{"models", "models/ann/a.b.jpeg", "ann", "a.b", true},
		{"models", "models/ann/01.gif", "ann", "01", true},
		{"models", "models/ann/sub/01.jpg", "", "", false},
		{"", "ann/", "", "", false},
		{"", "ann/readme.md", "", "", false},
	}
	for _, tt := range tests {
		user, name, ok := parseKey(tt.prefix, tt.key)
		if user != tt.user || name != tt.name || ok != tt.ok {
			t.Errorf("parseKey(%q, %q) = %q, %q, %v", tt.prefix, tt.key, user, name, ok)
		}
	}
}
