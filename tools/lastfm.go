package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// LastFMClient is a thin client for the Last.fm track.getInfo endpoint.
// Usado para derivar tags de candidata quando o swipe chega sem elas.
type LastFMClient struct {
	APIKey  string
	BaseURL string // vazio = https://ws.audioscrobbler.com/2.0/
}

type LastFMAPIError struct {
	StatusCode int
	Body       string
}

func (e LastFMAPIError) Error() string {
	return fmt.Sprintf("lastfm api error: status=%d body=%s", e.StatusCode, e.Body)
}

// TrackTags devolve as top tags da faixa como um mapa métrica -> peso [0,1].
// O peso é o count da tag (0-100) normalizado.
func (c LastFMClient) TrackTags(ctx context.Context, artist, track string) (map[string]float64, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("lastfm api key not configured")
	}

	base := c.BaseURL
	if base == "" {
		base = "https://ws.audioscrobbler.com/2.0/"
	}

	params := url.Values{}
	params.Set("method", "track.getInfo")
	params.Set("api_key", c.APIKey)
	params.Set("artist", artist)
	params.Set("track", track)
	params.Set("format", "json")
	params.Set("autocorrect", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		return nil, LastFMAPIError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var parsed struct {
		Track *struct {
			TopTags struct {
				Tag []struct {
					Name  string `json:"name"`
					Count int    `json:"count"`
				} `json:"tag"`
			} `json:"toptags"`
		} `json:"track"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if parsed.Track == nil {
		return nil, fmt.Errorf("lastfm: track %q by %q not found", track, artist)
	}

	tags := make(map[string]float64, len(parsed.Track.TopTags.Tag))
	for _, tag := range parsed.Track.TopTags.Tag {
		name := strings.ToLower(strings.TrimSpace(tag.Name))
		if name == "" {
			continue
		}
		weight := float64(tag.Count) / 100.0
		if weight > 1 {
			weight = 1
		}
		if weight < 0 {
			weight = 0
		}
		tags[name] = weight
	}
	return tags, nil
}
