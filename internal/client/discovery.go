// ABOUTME: AI-assisted discovery endpoints for venues and networking opportunities
// ABOUTME: Searches are stored server-side and imported by result index

package client

import (
	"context"
	"encoding/json"
	"time"
)

// DiscoveryService handles /ai/
type DiscoveryService service

// VenueResult is one AI-suggested venue inside a search
type VenueResult struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	Zipcode     string `json:"zipcode,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Website     string `json:"website,omitempty"`
	Capacity    *int   `json:"capacity,omitempty"`
	Genres      string `json:"genres,omitempty"`
}

// OpportunityResult is one AI-suggested networking opportunity
type OpportunityResult struct {
	Title        string `json:"title"`
	Organization string `json:"organization,omitempty"`
	Description  string `json:"description,omitempty"`
	Location     string `json:"location,omitempty"`
	Type         string `json:"opportunity_type,omitempty"`
	URL          string `json:"url,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
}

// Search is a stored discovery query with its results
type Search struct {
	ID        int             `json:"id"`
	State     string          `json:"state"`
	City      string          `json:"city"`
	Radius    int             `json:"radius"`
	Results   json.RawMessage `json:"results"`
	CreatedAt time.Time       `json:"created_at"`
}

// Venues decodes the results as venue suggestions. Results that are not a
// list of venues yield an empty slice.
func (s *Search) Venues() []VenueResult {
	var out []VenueResult
	if len(s.Results) == 0 || json.Unmarshal(s.Results, &out) != nil {
		return nil
	}
	return out
}

// Opportunities decodes the results as opportunity suggestions.
func (s *Search) Opportunities() []OpportunityResult {
	var out []OpportunityResult
	if len(s.Results) == 0 || json.Unmarshal(s.Results, &out) != nil {
		return nil
	}
	return out
}

// ImportResult reports how many suggestions became real records
type ImportResult struct {
	Message  string `json:"message,omitempty"`
	Imported int    `json:"imported"`
	IDs      []int  `json:"ids,omitempty"`
}

// DiscoverVenues calls POST /ai/discover/
func (s *DiscoveryService) DiscoverVenues(ctx context.Context, state, city string, radius int) (*Search, error) {
	body := map[string]any{"state": state, "city": city, "radius": radius}
	var out Search
	if err := s.c.post(ctx, "/ai/discover/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DiscoverOpportunities calls POST /ai/discover-opportunities/
func (s *DiscoveryService) DiscoverOpportunities(ctx context.Context, state, searchTerms string) (*Search, error) {
	body := map[string]any{"state": state, "search_terms": searchTerms}
	var out Search
	if err := s.c.post(ctx, "/ai/discover-opportunities/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Searches calls GET /ai/searches/
func (s *DiscoveryService) Searches(ctx context.Context) ([]Search, error) {
	return getList[Search](ctx, s.c, "/ai/searches/", nil)
}

// Search calls GET /ai/searches/{id}/
func (s *DiscoveryService) Search(ctx context.Context, id int) (*Search, error) {
	var out Search
	if err := s.c.get(ctx, idPath("/ai/searches/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportVenues calls POST /ai/searches/{id}/import/
func (s *DiscoveryService) ImportVenues(ctx context.Context, id int, indices []int) (*ImportResult, error) {
	var out ImportResult
	if err := s.c.post(ctx, idPath("/ai/searches/%d/import/", id), map[string][]int{"venue_indices": indices}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ImportOpportunities calls POST /ai/searches/{id}/import-opportunities/
func (s *DiscoveryService) ImportOpportunities(ctx context.Context, id int, indices []int) (*ImportResult, error) {
	var out ImportResult
	if err := s.c.post(ctx, idPath("/ai/searches/%d/import-opportunities/", id), map[string][]int{"opportunity_indices": indices}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
