package seed

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Haroldke13/geniusbabycosmetics/internal/models"
	"github.com/Haroldke13/geniusbabycosmetics/internal/utils"
)

const (
	defaultPexelsURL    = "https://api.pexels.com/v1/search"
	defaultUnsplashURL  = "https://api.unsplash.com/search/photos"
	defaultOpenverseURL = "https://api.openverse.org/v1/images/"

	lookupUserAgent = "geniusbabycosmetics-seeder/1.0"

	maxImageResponse = 1 << 20
)

// FinderConfig tunes the image lookup chain. Pexels and Unsplash are
// skipped without their keys; Openverse needs none.
type FinderConfig struct {
	Enabled     bool
	Timeout     time.Duration
	Sleep       time.Duration
	PexelsKey   string
	UnsplashKey string

	PexelsURL    string
	UnsplashURL  string
	OpenverseURL string
}

// FinderConfigFromEnv reads the lookup knobs from the environment.
func FinderConfigFromEnv() FinderConfig {
	cfg := FinderConfig{
		Enabled:     envBool("IMAGE_SEARCH_ENABLED", true),
		Timeout:     5 * time.Second,
		Sleep:       150 * time.Millisecond,
		PexelsKey:   os.Getenv("PEXELS_API_KEY"),
		UnsplashKey: os.Getenv("UNSPLASH_ACCESS_KEY"),
	}
	if v := os.Getenv("IMAGE_FETCH_TIMEOUT"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("IMAGE_SEARCH_SLEEP_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms >= 0 {
			cfg.Sleep = time.Duration(ms) * time.Millisecond
		}
	}
	return cfg
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// ImageFinder resolves product photos through Pexels, Unsplash and
// Openverse in that order, first usable URL wins.
type ImageFinder struct {
	cfg        FinderConfig
	httpClient *http.Client
}

// NewImageFinder constructs an ImageFinder.
func NewImageFinder(cfg FinderConfig) *ImageFinder {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.PexelsURL == "" {
		cfg.PexelsURL = defaultPexelsURL
	}
	if cfg.UnsplashURL == "" {
		cfg.UnsplashURL = defaultUnsplashURL
	}
	if cfg.OpenverseURL == "" {
		cfg.OpenverseURL = defaultOpenverseURL
	}
	return &ImageFinder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// FindImage returns a direct image URL for the query, or false when every
// provider comes up empty. Provider errors are soft; the chain moves on.
func (f *ImageFinder) FindImage(ctx context.Context, query string) (string, bool) {
	if f.cfg.PexelsKey != "" {
		if u := f.pexels(ctx, query); u != "" {
			return u, true
		}
	}
	if f.cfg.UnsplashKey != "" {
		if u := f.unsplash(ctx, query); u != "" {
			return u, true
		}
	}
	if u := f.openverse(ctx, query); u != "" {
		return u, true
	}
	return "", false
}

func (f *ImageFinder) pexels(ctx context.Context, query string) string {
	params := url.Values{
		"query":       {query},
		"per_page":    {"1"},
		"orientation": {"square"},
	}

	var payload struct {
		Photos []struct {
			Src map[string]string `json:"src"`
		} `json:"photos"`
	}
	headers := map[string]string{"Authorization": f.cfg.PexelsKey}
	if err := f.getJSON(ctx, f.cfg.PexelsURL, params, headers, &payload); err != nil {
		log.Debug().Err(err).Str("query", query).Msg("Pexels lookup failed")
		return ""
	}
	if len(payload.Photos) == 0 {
		return ""
	}
	for _, k := range []string{"large2x", "large", "medium", "original"} {
		if u := payload.Photos[0].Src[k]; u != "" {
			return u
		}
	}
	return ""
}

func (f *ImageFinder) unsplash(ctx context.Context, query string) string {
	params := url.Values{
		"query":       {query},
		"per_page":    {"1"},
		"orientation": {"squarish"},
		"client_id":   {f.cfg.UnsplashKey},
	}

	var payload struct {
		Results []struct {
			URLs map[string]string `json:"urls"`
		} `json:"results"`
	}
	if err := f.getJSON(ctx, f.cfg.UnsplashURL, params, nil, &payload); err != nil {
		log.Debug().Err(err).Str("query", query).Msg("Unsplash lookup failed")
		return ""
	}
	if len(payload.Results) == 0 {
		return ""
	}
	for _, k := range []string{"regular", "full", "small", "raw"} {
		if u := payload.Results[0].URLs[k]; u != "" {
			return u
		}
	}
	return ""
}

func (f *ImageFinder) openverse(ctx context.Context, query string) string {
	params := url.Values{
		"q":            {query},
		"page_size":    {"1"},
		"license_type": {"all"},
	}

	var payload struct {
		Results []struct {
			URL       string `json:"url"`
			Thumbnail string `json:"thumbnail"`
		} `json:"results"`
	}
	if err := f.getJSON(ctx, f.cfg.OpenverseURL, params, nil, &payload); err != nil {
		log.Debug().Err(err).Str("query", query).Msg("Openverse lookup failed")
		return ""
	}
	if len(payload.Results) == 0 {
		return ""
	}
	if payload.Results[0].URL != "" {
		return payload.Results[0].URL
	}
	return payload.Results[0].Thumbnail
}

func (f *ImageFinder) getJSON(ctx context.Context, endpoint string, params url.Values, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", lookupUserAgent)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageResponse))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return &lookupError{status: resp.StatusCode}
	}
	return json.Unmarshal(body, out)
}

type lookupError struct {
	status int
}

func (e *lookupError) Error() string {
	return "image lookup returned status " + strconv.Itoa(e.status)
}

// AssignImage fills in p.ImageURL. It tries the generated name first, then
// renames the product to a known shelf item for a better hit rate, and
// keeps a stock sample when both lookups miss.
func (f *ImageFinder) AssignImage(ctx context.Context, gen *Generator, p *models.Product) {
	if !f.cfg.Enabled {
		p.ImageURL = gen.SampleImage()
		return
	}

	if u, ok := f.FindImage(ctx, p.Name); ok {
		p.ImageURL = u
		return
	}
	if f.cfg.Sleep > 0 {
		time.Sleep(f.cfg.Sleep)
	}

	market := gen.marketNameFor(p.Category)
	p.Name = market.name
	p.Slug = utils.Slugify(market.name)
	if w := firstWord(market.name); w != "" {
		p.Brand = w
	}
	if u, ok := f.FindImage(ctx, market.query); ok {
		p.ImageURL = u
		return
	}

	p.ImageURL = gen.SampleImage()
}
