package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// jpgPattern pulls an http(s) URL ending in .jpg out of a larger string, for
// example the inline onerror handlers listing pages use for image fallbacks.
// Non-greedy so a query string after the extension is trimmed off.
var jpgPattern = regexp.MustCompile(`(?i)https?://[^\s'"<>]+?\.jpg`)

// browserHeaders makes the request look like an ordinary storefront visit;
// the listing pages answer bot-looking clients with 403.
var browserHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.ubuy.ke/",
}

// Scraper fetches product listing pages and extracts product image URLs.
type Scraper struct {
	httpClient *http.Client
}

// New returns a Scraper with a generous timeout; listing pages are heavy.
func New() *Scraper {
	return &Scraper{
		httpClient: &http.Client{Timeout: 25 * time.Second},
	}
}

// ProductImages fetches pageURL and returns every distinct product image URL
// on it, in document order.
func (s *Scraper) ProductImages(ctx context.Context, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range browserHeaders {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	return Extract(doc, base), nil
}

// Extract walks the product figures in doc and collects their image URLs,
// deduplicated and in page order.
func Extract(doc *goquery.Document, base *url.URL) []string {
	urls := make([]string, 0)
	seen := make(map[string]bool)

	doc.Find("figure.product-image img").Each(func(_ int, img *goquery.Selection) {
		u := imageURL(img, base)
		if u == "" || seen[u] {
			return
		}
		seen[u] = true
		urls = append(urls, u)
	})

	return urls
}

// imageURL picks the best image URL an <img> element offers. Listing pages
// lazy-load, so data-src usually holds the real image and src a placeholder;
// the onerror handler carries a fallback URL worth more than the placeholder.
func imageURL(img *goquery.Selection, base *url.URL) string {
	if ds, ok := img.Attr("data-src"); ok {
		if u := pickJPG(resolve(base, ds)); u != "" {
			return u
		}
	}

	if onerr, ok := img.Attr("onerror"); ok {
		if m := jpgPattern.FindString(onerr); m != "" {
			if u := pickJPG(resolve(base, m)); u != "" {
				return u
			}
		}
	}

	if src, ok := img.Attr("src"); ok {
		if u := pickJPG(resolve(base, src)); u != "" {
			return u
		}
	}

	if ss, ok := img.Attr("srcset"); ok {
		for _, part := range strings.Split(ss, ",") {
			fields := strings.Fields(part)
			if len(fields) == 0 {
				continue
			}
			if u := pickJPG(resolve(base, fields[0])); u != "" {
				return u
			}
		}
	}

	return ""
}

// pickJPG returns raw trimmed up to the .jpg extension, or "" when raw does
// not contain an http(s) .jpg URL.
func pickJPG(raw string) string {
	return jpgPattern.FindString(raw)
}

// resolve joins ref with base so relative attribute values become absolute.
func resolve(base *url.URL, ref string) string {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return ""
	}
	if base == nil {
		return u.String()
	}
	return base.ResolveReference(u).String()
}

// WriteLinks writes one URL per line, comma-terminated, matching the format
// the catalog import sheet expects.
func WriteLinks(w io.Writer, urls []string) error {
	for _, u := range urls {
		if _, err := fmt.Fprintf(w, "%s,\n", u); err != nil {
			return err
		}
	}
	return nil
}
