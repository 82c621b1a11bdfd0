package app

import (
	"context"
	"encoding/xml"
	"net/url"
	"time"

	"sifnos_hotels/internal/domain"
)

// StaticPages are listed in every sitemap ahead of the hotel pages.
var StaticPages = []string{"/", "/hotels", "/search", "/ferry-tickets", "/travel-guide", "/contact"}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	NS      string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// BuildSitemap renders a sitemaps.org urlset for the static pages and one
// page per active hotel slug.
func BuildSitemap(ctx context.Context, repo domain.HotelRepository, baseURL string, now time.Time) ([]byte, error) {
	slugs, err := repo.ListActiveSlugs(ctx)
	if err != nil {
		return nil, err
	}
	lastMod := now.UTC().Format("2006-01-02")

	set := urlSet{NS: "http://www.sitemaps.org/schemas/sitemap/0.9"}
	for _, p := range StaticPages {
		prio := "0.8"
		if p == "/" {
			prio = "1.0"
		}
		set.URLs = append(set.URLs, sitemapURL{Loc: baseURL + p, LastMod: lastMod, ChangeFreq: "weekly", Priority: prio})
	}
	for _, s := range slugs {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        baseURL + "/hotels/" + url.PathEscape(s),
			LastMod:    lastMod,
			ChangeFreq: "daily",
			Priority:   "0.7",
		})
	}

	out, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}
