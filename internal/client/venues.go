// ABOUTME: States, venues and venue contact-history endpoints
// ABOUTME: Plain CRUD mappings with optional state/venue scoping

package client

import (
	"context"
	"time"
)

// StateService handles /states/
type StateService service

// VenueService handles /venues/
type VenueService service

// ContactService handles venue contact history under /contacts/
type ContactService service

// State is a US state venues are grouped under
type State struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Abbreviation string    `json:"abbreviation"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StateInput is the writable subset of State
type StateInput struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

// Venue is a performance venue
type Venue struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	StateID           int       `json:"state_id"`
	StateName         string    `json:"state_name"`
	StateAbbreviation string    `json:"state_abbreviation"`
	Zipcode           string    `json:"zipcode"`
	Phone             string    `json:"phone"`
	Email             string    `json:"email"`
	Website           string    `json:"website"`
	Capacity          *int      `json:"capacity"`
	OpenTime          *string   `json:"open_time"`
	CloseTime         *string   `json:"close_time"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// VenueInput is the create/replace payload for a venue
type VenueInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       int     `json:"state"`
	Zipcode     string  `json:"zipcode,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Email       string  `json:"email,omitempty"`
	Website     string  `json:"website,omitempty"`
	Capacity    *int    `json:"capacity,omitempty"`
	OpenTime    *string `json:"open_time,omitempty"`
	CloseTime   *string `json:"close_time,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// Contact types accepted by the backend
const (
	ContactEmail    = "email"
	ContactPhone    = "phone"
	ContactInPerson = "in_person"
	ContactOther    = "other"
)

// ContactHistory records one outreach attempt to a venue
type ContactHistory struct {
	ID                int       `json:"id"`
	VenueID           int       `json:"venue_id"`
	VenueName         string    `json:"venue_name,omitempty"`
	ContactDate       time.Time `json:"contact_date"`
	ContactType       string    `json:"contact_type"`
	ContactPerson     string    `json:"contact_person"`
	Notes             string    `json:"notes"`
	FollowUpDate      *string   `json:"follow_up_date"`
	FollowUpCompleted bool      `json:"follow_up_completed"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ContactInput is the create/replace payload for a contact record
type ContactInput struct {
	Venue             int     `json:"venue"`
	ContactDate       string  `json:"contact_date"`
	ContactType       string  `json:"contact_type"`
	ContactPerson     string  `json:"contact_person,omitempty"`
	Notes             string  `json:"notes,omitempty"`
	FollowUpDate      *string `json:"follow_up_date,omitempty"`
	FollowUpCompleted bool    `json:"follow_up_completed"`
}

// List calls GET /states/
func (s *StateService) List(ctx context.Context) ([]State, error) {
	return getList[State](ctx, s.c, "/states/", nil)
}

// Get calls GET /states/{id}/
func (s *StateService) Get(ctx context.Context, id int) (*State, error) {
	var st State
	if err := s.c.get(ctx, idPath("/states/%d/", id), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Create calls POST /states/
func (s *StateService) Create(ctx context.Context, in *StateInput) (*State, error) {
	var st State
	if err := s.c.post(ctx, "/states/", in, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Update calls PUT /states/{id}/
func (s *StateService) Update(ctx context.Context, id int, in *StateInput) (*State, error) {
	var st State
	if err := s.c.put(ctx, idPath("/states/%d/", id), in, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Delete calls DELETE /states/{id}/
func (s *StateService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/states/%d/", id))
}

// List returns all venues, or only those in stateID when it is non-zero.
func (s *VenueService) List(ctx context.Context, stateID int) ([]Venue, error) {
	path := "/venues/"
	if stateID != 0 {
		path = idPath("/venues/states/%d/venues/", stateID)
	}
	return getList[Venue](ctx, s.c, path, nil)
}

// Get calls GET /venues/{id}/
func (s *VenueService) Get(ctx context.Context, id int) (*Venue, error) {
	var v Venue
	if err := s.c.get(ctx, idPath("/venues/%d/", id), nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Create calls POST /venues/
func (s *VenueService) Create(ctx context.Context, in *VenueInput) (*Venue, error) {
	var v Venue
	if err := s.c.post(ctx, "/venues/", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Update calls PUT /venues/{id}/
func (s *VenueService) Update(ctx context.Context, id int, in *VenueInput) (*Venue, error) {
	var v Venue
	if err := s.c.put(ctx, idPath("/venues/%d/", id), in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Delete calls DELETE /venues/{id}/
func (s *VenueService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/venues/%d/", id))
}

// List returns all contact records, or only those for venueID when non-zero.
func (s *ContactService) List(ctx context.Context, venueID int) ([]ContactHistory, error) {
	path := "/contacts/"
	if venueID != 0 {
		path = idPath("/venues/%d/contacts/", venueID)
	}
	return getList[ContactHistory](ctx, s.c, path, nil)
}

// Get calls GET /contacts/{id}/
func (s *ContactService) Get(ctx context.Context, id int) (*ContactHistory, error) {
	var ch ContactHistory
	if err := s.c.get(ctx, idPath("/contacts/%d/", id), nil, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Create calls POST /contacts/
func (s *ContactService) Create(ctx context.Context, in *ContactInput) (*ContactHistory, error) {
	var ch ContactHistory
	if err := s.c.post(ctx, "/contacts/", in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Update calls PUT /contacts/{id}/
func (s *ContactService) Update(ctx context.Context, id int, in *ContactInput) (*ContactHistory, error) {
	var ch ContactHistory
	if err := s.c.put(ctx, idPath("/contacts/%d/", id), in, &ch); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Delete calls DELETE /contacts/{id}/
func (s *ContactService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/contacts/%d/", id))
}

// PendingFollowups calls GET /contacts/pending-followups/
func (s *ContactService) PendingFollowups(ctx context.Context) ([]ContactHistory, error) {
	return getList[ContactHistory](ctx, s.c, "/contacts/pending-followups/", nil)
}
