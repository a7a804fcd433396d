// ABOUTME: Personal network endpoints under /network/contacts/
// ABOUTME: Connections and the social links attached to them

package client

import (
	"context"
	"net/url"
	"time"
)

// ConnectionService handles the artist's personal network contacts
type ConnectionService service

// Connection is a person in the artist's network
type Connection struct {
	ID                 int          `json:"id"`
	Name               string       `json:"name"`
	Email              string       `json:"email"`
	Phone              string       `json:"phone"`
	Skills             []string     `json:"skills"`
	MeetingContext     string       `json:"meeting_context"`
	Notes              string       `json:"notes"`
	LastContactDate    *string      `json:"last_contact_date"`
	RelationshipStatus string       `json:"relationship_status"`
	SocialLinks        []SocialLink `json:"social_links,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ConnectionInput is the create/replace payload for a connection
type ConnectionInput struct {
	Name               string   `json:"name"`
	Email              string   `json:"email,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	Skills             []string `json:"skills,omitempty"`
	MeetingContext     string   `json:"meeting_context,omitempty"`
	Notes              string   `json:"notes,omitempty"`
	LastContactDate    *string  `json:"last_contact_date,omitempty"`
	RelationshipStatus string   `json:"relationship_status,omitempty"`
}

// SocialLink is a profile link for a connection
type SocialLink struct {
	ID        int       `json:"id,omitempty"`
	Platform  string    `json:"platform"`
	URL       string    `json:"url"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// ConnectionFilter narrows List. Zero values are not sent.
type ConnectionFilter struct {
	Search             string
	RelationshipStatus string
}

func (f ConnectionFilter) values() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.RelationshipStatus != "" {
		q.Set("relationship_status", f.RelationshipStatus)
	}
	return q
}

// List calls GET /network/contacts/
func (s *ConnectionService) List(ctx context.Context, f ConnectionFilter) ([]Connection, error) {
	return getList[Connection](ctx, s.c, "/network/contacts/", f.values())
}

// Get calls GET /network/contacts/{id}/
func (s *ConnectionService) Get(ctx context.Context, id int) (*Connection, error) {
	var conn Connection
	if err := s.c.get(ctx, idPath("/network/contacts/%d/", id), nil, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Create calls POST /network/contacts/
func (s *ConnectionService) Create(ctx context.Context, in *ConnectionInput) (*Connection, error) {
	var conn Connection
	if err := s.c.post(ctx, "/network/contacts/", in, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Update calls PUT /network/contacts/{id}/
func (s *ConnectionService) Update(ctx context.Context, id int, in *ConnectionInput) (*Connection, error) {
	var conn Connection
	if err := s.c.put(ctx, idPath("/network/contacts/%d/", id), in, &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Delete calls DELETE /network/contacts/{id}/
func (s *ConnectionService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/network/contacts/%d/", id))
}

// SocialLinks calls GET /network/contacts/{id}/social_links/
func (s *ConnectionService) SocialLinks(ctx context.Context, id int) ([]SocialLink, error) {
	return getList[SocialLink](ctx, s.c, idPath("/network/contacts/%d/social_links/", id), nil)
}

// AddSocialLink calls POST /network/contacts/{id}/social-links/
func (s *ConnectionService) AddSocialLink(ctx context.Context, id int, link *SocialLink) (*SocialLink, error) {
	var out SocialLink
	if err := s.c.post(ctx, idPath("/network/contacts/%d/social-links/", id), link, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
