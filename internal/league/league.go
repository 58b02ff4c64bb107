// Package league lists the competitions whose statistics pages can be scraped.
package league

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrUnknownLeague is returned by Lookup when no league matches
var ErrUnknownLeague = errors.New("unknown league")

// League is a competition with a statistics page on sport.es
type League struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

// Registry holds the leagues in display order
type Registry struct {
	leagues []League
}

// Default returns the built-in leagues
func Default() *Registry {
	return &Registry{
		leagues: []League{
			{Name: "Premier League", Slug: "premier-league", URL: "https://www.sport.es/es/resultados/premier-league/estadisticas/"},
			{Name: "La Liga", Slug: "la-liga", URL: "https://www.sport.es/es/resultados/la-liga/estadisticas/"},
			{Name: "Bundesliga", Slug: "bundesliga", URL: "https://www.sport.es/es/resultados/bundesliga/estadisticas/"},
			{Name: "Ligue 1", Slug: "liga-francia", URL: "https://www.sport.es/es/resultados/liga-francia/estadisticas/"},
			{Name: "Champions League", Slug: "champions", URL: "https://www.sport.es/es/resultados/champions/estadisticas/"},
		},
	}
}

// All returns a copy of the leagues in display order
func (r *Registry) All() []League {
	out := make([]League, len(r.leagues))
	copy(out, r.leagues)
	return out
}

// Lookup finds a league by slug or display name, ignoring case
func (r *Registry) Lookup(key string) (League, error) {
	key = strings.TrimSpace(key)
	for _, l := range r.leagues {
		if strings.EqualFold(l.Slug, key) || strings.EqualFold(l.Name, key) {
			return l, nil
		}
	}
	return League{}, fmt.Errorf("%w: %q", ErrUnknownLeague, key)
}

// Override replaces the URL of the league matching key
func (r *Registry) Override(key, rawURL string) error {
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return fmt.Errorf("invalid URL for %s: %w", key, err)
	}
	for i, l := range r.leagues {
		if strings.EqualFold(l.Slug, key) || strings.EqualFold(l.Name, key) {
			r.leagues[i].URL = rawURL
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownLeague, key)
}

// WithBaseURL returns a registry whose URLs keep their paths but point at base.
// Used to scrape a mirror or a local test server.
func (r *Registry) WithBaseURL(base string) (*Registry, error) {
	b, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if b.Scheme == "" || b.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", base)
	}

	out := &Registry{leagues: r.All()}
	for i, l := range out.leagues {
		u, err := url.Parse(l.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing URL for %s: %w", l.Slug, err)
		}
		u.Scheme = b.Scheme
		u.Host = b.Host
		u.Path = strings.TrimSuffix(b.Path, "/") + u.Path
		out.leagues[i].URL = u.String()
	}
	return out, nil
}
