package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/config"
	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

// Headings that mark the start of the preparation section on a recipe page.
var stepMarkers = []string{
	"preparación", "preparacion", "elaboración", "elaboracion",
	"cómo hacer", "como hacer", "procedimiento", "vamos",
	"paso a paso", "instrucciones",
}

// Scraper crawls the alphabetical recipe index of recetasdesbieta.com and
// extracts one record per recipe page. Fetches are sequential and paced by a
// rate limiter; per-page failures are reported to the caller, who logs and
// skips them.
type Scraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	indexURL  string
	userAgent string
	logger    *zap.Logger
}

// New wires an HTTP client from the scraper configuration.
func New(cfg config.ScraperConfig, logger *zap.Logger) *Scraper {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = 2 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(delay), 1),
		indexURL:  cfg.IndexURL,
		userAgent: cfg.UserAgent,
		logger:    logger,
	}
}

// RecipeLinks fetches the alphabetical index page and returns every recipe
// link found in its content block, in page order.
func (s *Scraper) RecipeLinks(ctx context.Context) ([]string, error) {
	doc, err := s.fetchDocument(ctx, s.indexURL)
	if err != nil {
		return nil, err
	}

	indexHost := hostOf(s.indexURL)
	var links []string
	seen := map[string]struct{}{}

	doc.Find("div.entry-content a").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasSuffix(href, "#comments") {
			return
		}
		if !strings.Contains(href, indexHost) {
			return
		}
		if _, ok := seen[href]; ok {
			return
		}
		seen[href] = struct{}{}
		links = append(links, href)
	})

	return links, nil
}

// ScrapeRecipe fetches a single recipe page and extracts its fields. A page
// without a recognizable title still yields a record; validation downstream
// decides whether it is kept.
func (s *Scraper) ScrapeRecipe(ctx context.Context, pageURL string) (*domain.Recipe, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return nil, domain.NewFetchError(pageURL, err)
	}

	recipe := &domain.Recipe{
		Title:       strings.TrimSpace(doc.Find("h1.entry-title").First().Text()),
		URL:         pageURL,
		ImageURL:    extractMainImage(doc, pageURL),
		YouTubeURL:  extractYouTubeURL(doc),
		Ingredients: extractIngredients(doc),
		Steps:       extractSteps(doc),
		FullContent: strings.TrimSpace(doc.Find("div.entry-content").First().Text()),
	}
	if recipe.Title == "" {
		recipe.Title = "Unknown Title"
	}
	return recipe, nil
}

func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

func extractIngredients(doc *goquery.Document) []string {
	var ingredients []string

	// Ingredients usually live in a ul that follows a heading mentioning
	// "ingrediente".
	doc.Find("h2, h3, h4, strong, b").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(h.Text()), "ingrediente") {
			return true
		}
		list := followingList(h, "ul")
		if list == nil {
			return true
		}
		list.Find("li").Each(func(_ int, li *goquery.Selection) {
			if text := strings.TrimSpace(li.Text()); text != "" {
				ingredients = append(ingredients, text)
			}
		})
		return len(ingredients) == 0
	})

	if len(ingredients) > 0 {
		return ingredients
	}

	// Fallback: the paragraph after the one announcing the ingredients,
	// split on commas and line breaks.
	paragraphs := doc.Find("div.entry-content p")
	paragraphs.EachWithBreak(func(i int, p *goquery.Selection) bool {
		text := strings.ToLower(p.Text())
		if !strings.Contains(text, "ingrediente") && !strings.Contains(text, "necesita") {
			return true
		}
		next := paragraphs.Eq(i + 1)
		if next.Length() == 0 {
			return true
		}
		for _, item := range strings.FieldsFunc(next.Text(), func(r rune) bool { return r == ',' || r == '\n' }) {
			item = strings.TrimSpace(item)
			if item != "" && !strings.HasPrefix(item, "http") {
				ingredients = append(ingredients, item)
			}
		}
		return false
	})

	return ingredients
}

func extractSteps(doc *goquery.Document) []string {
	var steps []string

	doc.Find("h2, h3, h4, strong, b").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		headerText := strings.ToLower(h.Text())
		matched := false
		for _, marker := range stepMarkers {
			if strings.Contains(headerText, marker) {
				matched = true
				break
			}
		}
		if !matched {
			return true
		}

		if list := followingList(h, "ol"); list != nil {
			list.Find("li").Each(func(_ int, li *goquery.Selection) {
				if text := strings.TrimSpace(li.Text()); text != "" {
					steps = append(steps, text)
				}
			})
			if len(steps) > 0 {
				return false
			}
		}

		// No ordered list: collect the paragraphs that follow the heading
		// until the next section starts.
		start := h
		if goquery.NodeName(h) == "strong" || goquery.NodeName(h) == "b" {
			start = h.Parent()
		}
		start.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
			switch goquery.NodeName(sib) {
			case "p":
				if text := strings.TrimSpace(sib.Text()); text != "" {
					steps = append(steps, text)
				}
				return true
			case "h2", "h3", "h4", "div", "section":
				return false
			default:
				return true
			}
		})
		return len(steps) == 0
	})

	if len(steps) > 0 {
		return steps
	}

	// Last resort: the middle paragraphs of the content block, skipping the
	// intro and the trailing boilerplate.
	paragraphs := doc.Find("div.entry-content p")
	total := paragraphs.Length()
	if total == 0 {
		return steps
	}
	startIdx := total / 3
	if startIdx > 2 {
		startIdx = 2
	}
	endIdx := total - 2
	if endIdx <= startIdx {
		endIdx = startIdx + 1
	}
	paragraphs.Each(func(i int, p *goquery.Selection) {
		if i < startIdx || i >= endIdx {
			return
		}
		if text := strings.TrimSpace(p.Text()); text != "" {
			steps = append(steps, text)
		}
	})
	return steps
}

// followingList finds the first list of the given tag that follows the
// heading in document order. Inline headings (strong, b) are matched through
// their enclosing paragraph.
func followingList(h *goquery.Selection, tag string) *goquery.Selection {
	if list := h.NextAllFiltered(tag).First(); list.Length() > 0 {
		return list
	}
	parent := h.Parent()
	if parent.Length() > 0 {
		if list := parent.NextAllFiltered(tag).First(); list.Length() > 0 {
			return list
		}
	}
	return nil
}

func extractMainImage(doc *goquery.Document, pageURL string) string {
	if src := doc.Find("div.featured-image img").First().AttrOr("src", ""); src != "" {
		return resolveURL(pageURL, src)
	}
	if src := doc.Find("div.entry-content img").First().AttrOr("src", ""); src != "" {
		return resolveURL(pageURL, src)
	}
	return doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
}

func extractYouTubeURL(doc *goquery.Document) string {
	var embed string
	doc.Find("iframe").EachWithBreak(func(_ int, iframe *goquery.Selection) bool {
		src := iframe.AttrOr("src", "")
		if strings.Contains(src, "youtube.com/embed") {
			embed = src
			return false
		}
		return true
	})
	return embed
}

func resolveURL(base, ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return strings.TrimPrefix(u.Host, "www.")
}
