// ABOUTME: Artist profile and email outreach endpoints
// ABOUTME: The outreach generator drafts venue emails from the profile

package client

import (
	"context"
	"time"
)

// ProfileService handles /profiles/
type ProfileService service

// OutreachService handles /email-generator/
type OutreachService service

// Profile is the artist profile used to draft outreach
type Profile struct {
	ID          int           `json:"id"`
	ArtistName  string        `json:"artist_name"`
	Bio         string        `json:"bio"`
	Genres      []string      `json:"genres"`
	PhoneNumber *string       `json:"phone_number"`
	SocialLinks []ProfileLink `json:"social_links,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields
type ProfileUpdate struct {
	ArtistName  *string  `json:"artist_name,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	PhoneNumber *string  `json:"phone_number,omitempty"`
}

// ProfileLink is a labelled link on the artist profile
type ProfileLink struct {
	ID    int    `json:"id,omitempty"`
	Label string `json:"label"`
	URL   string `json:"url"`
	Order int    `json:"order"`
}

// Outreach is a generated venue email kept in history
type Outreach struct {
	ID           int       `json:"id"`
	Venue        *int      `json:"venue"`
	VenueName    string    `json:"venue_name"`
	EmailContent string    `json:"email_content"`
	SentDate     time.Time `json:"sent_date"`
	EventDate    *string   `json:"event_date"`
	Notes        string    `json:"notes"`
}

// GenerateInput is the generator request
type GenerateInput struct {
	VenueName string  `json:"venue_name"`
	EventDate *string `json:"event_date,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// Generated is the generator response
type Generated struct {
	Email      string `json:"email"`
	OutreachID int    `json:"outreach_id"`
}

// Get calls GET /profiles/profile/
func (s *ProfileService) Get(ctx context.Context) (*Profile, error) {
	var p Profile
	if err := s.c.get(ctx, "/profiles/profile/", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update calls PATCH /profiles/profile/update/
func (s *ProfileService) Update(ctx context.Context, in *ProfileUpdate) (*Profile, error) {
	var p Profile
	if err := s.c.patch(ctx, "/profiles/profile/update/", in, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Links calls GET /profiles/social-links/
func (s *ProfileService) Links(ctx context.Context) ([]ProfileLink, error) {
	return getList[ProfileLink](ctx, s.c, "/profiles/social-links/", nil)
}

// AddLink calls POST /profiles/social-links/
func (s *ProfileService) AddLink(ctx context.Context, in *ProfileLink) (*ProfileLink, error) {
	var l ProfileLink
	if err := s.c.post(ctx, "/profiles/social-links/", in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// UpdateLink calls PUT /profiles/social-links/{id}/
func (s *ProfileService) UpdateLink(ctx context.Context, id int, in *ProfileLink) (*ProfileLink, error) {
	var l ProfileLink
	if err := s.c.put(ctx, idPath("/profiles/social-links/%d/", id), in, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// DeleteLink calls DELETE /profiles/social-links/{id}/
func (s *ProfileService) DeleteLink(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/profiles/social-links/%d/", id))
}

// ReorderLinks calls POST /profiles/social-links/reorder/ with ids in display order.
func (s *ProfileService) ReorderLinks(ctx context.Context, ids []int) error {
	return s.c.post(ctx, "/profiles/social-links/reorder/", map[string][]int{"links_order": ids}, nil)
}

// Generate calls POST /email-generator/generate/
func (s *OutreachService) Generate(ctx context.Context, in *GenerateInput) (*Generated, error) {
	var g Generated
	if err := s.c.post(ctx, "/email-generator/generate/", in, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// History calls GET /email-generator/outreach/
func (s *OutreachService) History(ctx context.Context) ([]Outreach, error) {
	return getList[Outreach](ctx, s.c, "/email-generator/outreach/", nil)
}

// Get calls GET /email-generator/outreach/{id}/
func (s *OutreachService) Get(ctx context.Context, id int) (*Outreach, error) {
	var o Outreach
	if err := s.c.get(ctx, idPath("/email-generator/outreach/%d/", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete calls DELETE /email-generator/outreach/{id}/
func (s *OutreachService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/email-generator/outreach/%d/", id))
}
