// Package navigation maps a show's seasons and episodes onto source identifiers.
package navigation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/reel-cli/reel/stream"
	"github.com/samber/lo"
)

// Episode is a single playable entry of a season.
type Episode struct {
	ID       stream.SourceID `json:"id"`
	Title    string          `json:"title"`
	Duration string          `json:"duration"`
}

func (e Episode) String() string {
	if e.Duration == "" {
		return e.Title
	}
	return fmt.Sprintf("%s (%s)", e.Title, e.Duration)
}

// Season groups episodes in display order.
type Season struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Episodes []*Episode `json:"episodes"`
}

func (s *Season) String() string {
	return s.Name
}

// UnmarshalJSON accepts the id as either a string or a number.
func (s *Season) UnmarshalJSON(data []byte) error {
	type plain Season
	raw := struct {
		*plain
		ID json.RawMessage `json:"id"`
	}{plain: (*plain)(s)}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.ID = ""
	if len(raw.ID) == 0 || string(raw.ID) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw.ID, &s.ID); err == nil {
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(raw.ID, &number); err != nil {
		return fmt.Errorf("season id: %s is neither a string nor a number", raw.ID)
	}
	s.ID = number.String()
	return nil
}

// Catalog lists the seasons of a show.
type Catalog interface {
	Seasons(ctx context.Context, showID string) ([]*Season, error)
}

// ErrEmptyCatalog is returned when a show has no episodes at all.
var ErrEmptyCatalog = errors.New("show has no episodes")

// HTTPCatalog fetches seasons from a JSON endpoint.
type HTTPCatalog struct {
	Endpoint string
	Client   *http.Client
}

func NewHTTPCatalog(endpoint string, client *http.Client) *HTTPCatalog {
	return &HTTPCatalog{Endpoint: endpoint, Client: client}
}

func (c *HTTPCatalog) Seasons(ctx context.Context, showID string) ([]*Season, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+url.PathEscape(showID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seasons: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch seasons: unexpected status: %s", resp.Status)
	}

	var seasons []*Season
	if err := json.NewDecoder(resp.Body).Decode(&seasons); err != nil {
		return nil, fmt.Errorf("decode seasons: %w", err)
	}

	seasons = lo.Compact(seasons)
	for _, season := range seasons {
		season.Episodes = lo.Compact(season.Episodes)
	}

	return seasons, nil
}
