package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
)

var (
	embedIDExpr = regexp.MustCompile(`embed/([a-zA-Z0-9_-]+)`)
	watchIDExpr = regexp.MustCompile(`(?:v=|youtu\.be/)([a-zA-Z0-9_-]+)`)

	// The like count appears in several shapes inside the watch-page HTML
	// depending on the player version served.
	likeExprs = []*regexp.Regexp{
		regexp.MustCompile(`"label":"([\d,]+) likes"`),
		regexp.MustCompile(`"likeCount":"(\d+)"`),
		regexp.MustCompile(`"likesText":"([\d,]+)"`),
		regexp.MustCompile(`"likes":(\d+)`),
	}
	likeFallbackExpr = regexp.MustCompile(`like this video along with ([\d,]+)`)

	viewExpr = regexp.MustCompile(`"viewCount":"(\d+)"`)
)

// Client fetches public YouTube watch pages and extracts engagement counts
// and caption data. Requests are sequential and paced; a failed video is
// skipped by the caller.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	language  string
	baseURL   string
	logger    *zap.Logger
}

// NewClient wires an HTTP client from the YouTube configuration.
func NewClient(cfg config.YouTubeConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = 1500 * time.Millisecond
	}
	language := cfg.Language
	if language == "" {
		language = "es"
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		userAgent: cfg.UserAgent,
		language:  language,
		baseURL:   "https://www.youtube.com",
		logger:    logger,
	}
}

// ExtractVideoID pulls the video id out of embed, watch, and youtu.be URL
// shapes. It returns an empty string when no id is present.
func ExtractVideoID(rawURL string) string {
	if strings.Contains(rawURL, "embed") {
		if m := embedIDExpr.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
		return ""
	}
	if m := watchIDExpr.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return ""
}

// LikeCount fetches the watch page for a video and extracts the like count,
// trying each known pattern in order. Zero with no error means the count was
// simply not present on the page.
func (c *Client) LikeCount(ctx context.Context, videoID string) (int, error) {
	body, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return 0, err
	}

	for _, expr := range likeExprs {
		if m := expr.FindStringSubmatch(body); m != nil {
			return parseCount(m[1])
		}
	}
	if m := likeFallbackExpr.FindStringSubmatch(body); m != nil {
		return parseCount(m[1])
	}
	return 0, nil
}

// ViewCount extracts the view count from the watch page.
func (c *Client) ViewCount(ctx context.Context, videoID string) (int64, error) {
	body, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return 0, err
	}
	if m := viewExpr.FindStringSubmatch(body); m != nil {
		return strconv.ParseInt(m[1], 10, 64)
	}
	return 0, nil
}

func (c *Client) fetchWatchPage(ctx context.Context, videoID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	watchURL := fmt.Sprintf("%s/watch?v=%s", c.baseURL, videoID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, watchURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch watch page for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("watch page for %s returned %s", videoID, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read watch page for %s: %w", videoID, err)
	}
	return string(body), nil
}

func parseCount(raw string) (int, error) {
	return strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
}
