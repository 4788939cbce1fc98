package service

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/fixmate/fixmate/internal/config"
	"github.com/fixmate/fixmate/internal/domain"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"')\]]+`)

// LinkPreviewService resolves product links found in tool suggestions to
// their page titles. Everything here is best-effort: unreachable or odd
// pages are simply skipped.
type LinkPreviewService struct {
	httpClient *http.Client
}

func NewLinkPreviewService() *LinkPreviewService {
	return &LinkPreviewService{
		httpClient: &http.Client{Timeout: config.LinkFetchTimeout},
	}
}

func (s *LinkPreviewService) Resolve(ctx context.Context, text string) []domain.ToolLink {
	var links []domain.ToolLink
	seen := map[string]bool{}

	for _, raw := range urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(raw, ".,;")
		if seen[url] {
			continue
		}
		seen[url] = true

		title, ok := s.fetchTitle(ctx, url)
		if !ok {
			continue
		}
		links = append(links, domain.ToolLink{URL: url, Title: title})
		if len(links) >= config.MaxToolLinks {
			break
		}
	}
	return links
}

func (s *LinkPreviewService) fetchTitle(ctx context.Context, url string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", false
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		slog.Debug("link preview fetch failed", "url", url, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", false
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		return "", false
	}
	return title, true
}
