package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/pabl-o-ce/somosnlp-hackathon-2025/internal/domain"
)

const captionTracksMarker = `"captionTracks":`

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

type timedText struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript fetches the caption track for a video in the configured
// language and joins its cues into a single text. Videos with captions
// disabled yield a domain.ErrNoTranscript error; callers log it and move on
// to the next id.
func (c *Client) Transcript(ctx context.Context, videoID string) (string, error) {
	body, err := c.fetchWatchPage(ctx, videoID)
	if err != nil {
		return "", err
	}

	tracks, err := parseCaptionTracks(body)
	if err != nil || len(tracks) == 0 {
		return "", domain.NewNoTranscriptError(videoID)
	}

	track := selectTrack(tracks, c.language)
	if track == nil {
		return "", domain.NewNoTranscriptError(videoID)
	}

	return c.fetchTrack(ctx, videoID, track.BaseURL)
}

// parseCaptionTracks locates the captionTracks array embedded in the
// watch-page player response and decodes exactly that array. A page for a
// video with captions disabled has no such array.
func parseCaptionTracks(body string) ([]captionTrack, error) {
	idx := strings.Index(body, captionTracksMarker)
	if idx < 0 {
		return nil, fmt.Errorf("no caption tracks in watch page")
	}

	dec := json.NewDecoder(strings.NewReader(body[idx+len(captionTracksMarker):]))
	var tracks []captionTrack
	if err := dec.Decode(&tracks); err != nil {
		return nil, fmt.Errorf("decode caption tracks: %w", err)
	}
	return tracks, nil
}

// selectTrack prefers a manual track in the requested language, then an
// auto-generated one, then any track at all.
func selectTrack(tracks []captionTrack, language string) *captionTrack {
	var generated *captionTrack
	for i := range tracks {
		if tracks[i].LanguageCode != language {
			continue
		}
		if tracks[i].Kind != "asr" {
			return &tracks[i]
		}
		if generated == nil {
			generated = &tracks[i]
		}
	}
	if generated != nil {
		return generated
	}
	if len(tracks) > 0 {
		return &tracks[0]
	}
	return nil
}

func (c *Client) fetchTrack(ctx context.Context, videoID, trackURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch caption track for %s: %w", videoID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("caption track for %s returned %s", videoID, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read caption track for %s: %w", videoID, err)
	}

	var tt timedText
	if err := xml.Unmarshal(raw, &tt); err != nil {
		return "", fmt.Errorf("parse caption track for %s: %w", videoID, err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, cue := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(cue.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", domain.NewNoTranscriptError(videoID)
	}
	return strings.Join(parts, " "), nil
}
