package youtube

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"ytwatch/internal/structures"

	"github.com/PuerkitoBio/goquery"
)

const (
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122 Safari/537.36"
	acceptLanguage   = "en-US,en;q=0.9"
	maxPageBody      = 4 << 20
)

var (
	pageChannelIDPattern = regexp.MustCompile(`"channelId":"(UC[0-9A-Za-z_-]{20,})"`)
	pageCanonicalPattern = regexp.MustCompile(`(?i)https://www\.youtube\.com/channel/(UC[0-9A-Za-z_-]{20,})`)
	tabSuffixPattern     = regexp.MustCompile(`(?i)/(videos|featured|streams|shorts|live)/?$`)
	schemePattern        = regexp.MustCompile(`(?i)^https?://`)
)

// Scraper is the last-resort strategy: it fetches the public channel page
// and looks for an embedded channel ID.
type Scraper struct {
	http    *http.Client
	baseURL string
}

func NewScraper(conf *structures.Config) *Scraper {
	return &Scraper{
		http:    &http.Client{Timeout: conf.YouTube.Timeout},
		baseURL: strings.TrimRight(conf.YouTube.PageURL, "/"),
	}
}

// PageURL turns a reference into the page to fetch.
func (s *Scraper) PageURL(raw string) string {
	target := strings.TrimSpace(raw)
	switch {
	case schemePattern.MatchString(target):
	case strings.HasPrefix(strings.ToLower(target), "youtube.com/"), strings.HasPrefix(strings.ToLower(target), "www.youtube.com/"):
		target = "https://" + target
	default:
		segments := strings.Split(strings.TrimPrefix(target, "/"), "/")
		for i, seg := range segments {
			segments[i] = url.PathEscape(seg)
		}
		target = s.baseURL + "/" + strings.Join(segments, "/")
	}
	return tabSuffixPattern.ReplaceAllString(target, "")
}

// ChannelID returns "" with a non-nil error when the page cannot be fetched
// or carries no channel ID. Callers treat both as "not found".
func (s *Scraper) ChannelID(ctx context.Context, raw string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.PageURL(raw), nil)
	if err != nil {
		return "", fmt.Errorf("create page request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", acceptLanguage)

	resp, err := s.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch channel page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBody))
	if err != nil {
		return "", fmt.Errorf("read channel page: %w", err)
	}

	if id := ExtractChannelID(body); id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%w: no channel id in page (status %d)", ErrChannelNotFound, resp.StatusCode)
}

// ExtractChannelID tries the embedded "channelId" JSON field first, then a
// canonical channel link.
func ExtractChannelID(page []byte) string {
	if m := pageChannelIDPattern.FindSubmatch(page); m != nil {
		return string(m[1])
	}
	return canonicalChannelID(page)
}

func canonicalChannelID(page []byte) string {
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page)); err == nil {
		for _, sel := range []string{`link[rel="canonical"]`, `meta[property="og:url"]`} {
			node := doc.Find(sel).First()
			href := node.AttrOr("href", node.AttrOr("content", ""))
			if m := pageCanonicalPattern.FindStringSubmatch(href); m != nil {
				return m[1]
			}
		}
	}
	if m := pageCanonicalPattern.FindSubmatch(page); m != nil {
		return string(m[1])
	}
	return ""
}
