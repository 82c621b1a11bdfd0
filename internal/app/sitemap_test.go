package app_test

import (
	"context"
	"encoding/xml"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sifnos_hotels/internal/app"
	"sifnos_hotels/internal/domain"
)

type slugRepo struct {
	fakeRepo
	slugs []string
}

func (s *slugRepo) ListActiveSlugs(ctx context.Context) ([]string, error) { return s.slugs, nil }

func TestBuildSitemap(t *testing.T) {
	repo := &slugRepo{slugs: []string{"verina-suites", "harbour rooms"}}
	var _ domain.HotelRepository = repo

	out, err := app.BuildSitemap(context.Background(), repo, "https://sifnos.example", time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	var parsed struct {
		URLs []struct {
			Loc     string `xml:"loc"`
			LastMod string `xml:"lastmod"`
		} `xml:"url"`
	}
	require.NoError(t, xml.Unmarshal(out, &parsed))
	require.Len(t, parsed.URLs, len(app.StaticPages)+2)
	assert.Equal(t, "https://sifnos.example/", parsed.URLs[0].Loc)
	assert.Equal(t, "2025-06-01", parsed.URLs[0].LastMod)
	assert.Equal(t, "https://sifnos.example/hotels/verina-suites", parsed.URLs[len(app.StaticPages)].Loc)
	assert.Equal(t, "https://sifnos.example/hotels/harbour%20rooms", parsed.URLs[len(app.StaticPages)+1].Loc)
}

func TestBuildSitemap_RepoError(t *testing.T) {
	_, err := app.BuildSitemap(context.Background(), &errSlugs{}, "https://x", time.Now())
	assert.ErrorIs(t, err, errBoom)
}

type errSlugs struct{ fakeRepo }

func (e *errSlugs) ListActiveSlugs(ctx context.Context) ([]string, error) { return nil, errBoom }
