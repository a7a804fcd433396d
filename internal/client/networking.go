// ABOUTME: Networking endpoints: events, opportunities and their milestones
// ABOUTME: Opportunity status changes go through a dedicated action endpoint

package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// EventService handles /networking/events/
type EventService service

// OpportunityService handles /networking/opportunities/ and milestones
type OpportunityService service

// Opportunity statuses
const (
	StatusActive        = "active"
	StatusInterviewing  = "interviewing"
	StatusOfferReceived = "offer_received"
	StatusAccepted      = "accepted"
	StatusDeclined      = "declined"
	StatusClosed        = "closed"
)

// OpportunityStatuses lists every status the backend accepts, in workflow order.
var OpportunityStatuses = []string{
	StatusActive, StatusInterviewing, StatusOfferReceived,
	StatusAccepted, StatusDeclined, StatusClosed,
}

// OpportunityTypes lists every opportunity type the backend accepts.
var OpportunityTypes = []string{"job", "internship", "contract", "collaboration", "other"}

// EventType classifies events
type EventType struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Attendee links a network connection to an event
type Attendee struct {
	ID          int    `json:"id"`
	Contact     int    `json:"contact"`
	ContactName string `json:"contact_name,omitempty"`
	Notes       string `json:"notes"`
}

// Event is a networking event
type Event struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	EventType     *int       `json:"event_type"`
	EventTypeName string     `json:"event_type_name,omitempty"`
	Date          string     `json:"date"`
	Time          *string    `json:"time"`
	Cost          Decimal    `json:"cost"`
	Attendees     []Attendee `json:"attendees,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// EventInput is the create/replace payload for an event
type EventInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Location    string  `json:"location"`
	EventType   *int    `json:"event_type,omitempty"`
	Date        string  `json:"date"`
	Time        *string `json:"time,omitempty"`
	Cost        Decimal `json:"cost,omitempty"`
}

// EventFilter narrows event listing. Zero values are not sent.
type EventFilter struct {
	EventType int
	Search    string
}

func (f EventFilter) values() url.Values {
	q := url.Values{}
	if f.EventType != 0 {
		q.Set("event_type", strconv.Itoa(f.EventType))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// Opportunity is a job, gig or collaboration lead
type Opportunity struct {
	ID              int         `json:"id"`
	Title           string      `json:"title"`
	Organization    string      `json:"organization"`
	Description     string      `json:"description"`
	OpportunityType string      `json:"opportunity_type"`
	Location        string      `json:"location"`
	Remote          bool        `json:"remote"`
	Compensation    string      `json:"compensation"`
	ApplicationURL  string      `json:"application_url"`
	Deadline        *string     `json:"deadline"`
	Contact         *int        `json:"contact"`
	Notes           string      `json:"notes"`
	Status          string      `json:"status"`
	Milestones      []Milestone `json:"milestones,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// OpportunityInput is the create/replace payload for an opportunity
type OpportunityInput struct {
	Title           string  `json:"title"`
	Organization    string  `json:"organization"`
	Description     string  `json:"description,omitempty"`
	OpportunityType string  `json:"opportunity_type,omitempty"`
	Location        string  `json:"location"`
	Remote          bool    `json:"remote"`
	Compensation    string  `json:"compensation,omitempty"`
	ApplicationURL  string  `json:"application_url,omitempty"`
	Deadline        *string `json:"deadline,omitempty"`
	Contact         *int    `json:"contact,omitempty"`
	Notes           string  `json:"notes,omitempty"`
	Status          string  `json:"status,omitempty"`
}

// OpportunityFilter narrows opportunity listing. Zero values are not sent.
type OpportunityFilter struct {
	Status string
	Type   string
	Remote *bool
	Search string
}

func (f OpportunityFilter) values() url.Values {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Type != "" {
		q.Set("opportunity_type", f.Type)
	}
	if f.Remote != nil {
		q.Set("remote", strconv.FormatBool(*f.Remote))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// Milestone is a step in pursuing an opportunity
type Milestone struct {
	ID          int       `json:"id"`
	Opportunity int       `json:"opportunity"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        *string   `json:"date"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
}

// MilestoneInput is the create/replace payload for a milestone
type MilestoneInput struct {
	Opportunity int     `json:"opportunity"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Date        *string `json:"date,omitempty"`
	Completed   bool    `json:"completed"`
}

// List calls GET /networking/events/
func (s *EventService) List(ctx context.Context, f EventFilter) ([]Event, error) {
	return getList[Event](ctx, s.c, "/networking/events/", f.values())
}

// Types calls GET /networking/event-types/
func (s *EventService) Types(ctx context.Context) ([]EventType, error) {
	return getList[EventType](ctx, s.c, "/networking/event-types/", nil)
}

// Get calls GET /networking/events/{id}/
func (s *EventService) Get(ctx context.Context, id int) (*Event, error) {
	var e Event
	if err := s.c.get(ctx, idPath("/networking/events/%d/", id), nil, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Create calls POST /networking/events/
func (s *EventService) Create(ctx context.Context, in *EventInput) (*Event, error) {
	var e Event
	if err := s.c.post(ctx, "/networking/events/", in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Update calls PUT /networking/events/{id}/
func (s *EventService) Update(ctx context.Context, id int, in *EventInput) (*Event, error) {
	var e Event
	if err := s.c.put(ctx, idPath("/networking/events/%d/", id), in, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// Delete calls DELETE /networking/events/{id}/
func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/networking/events/%d/", id))
}

// Upcoming calls GET /networking/events/upcoming/
func (s *EventService) Upcoming(ctx context.Context) ([]Event, error) {
	return getList[Event](ctx, s.c, "/networking/events/upcoming/", nil)
}

// Past calls GET /networking/events/past/
func (s *EventService) Past(ctx context.Context) ([]Event, error) {
	return getList[Event](ctx, s.c, "/networking/events/past/", nil)
}

// AddAttendee calls POST /networking/events/{id}/add_attendee/
func (s *EventService) AddAttendee(ctx context.Context, eventID, contactID int, notes string) (*Attendee, error) {
	var a Attendee
	body := map[string]any{"contact": contactID, "notes": notes}
	if err := s.c.post(ctx, idPath("/networking/events/%d/add_attendee/", eventID), body, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// RemoveAttendee calls POST /networking/events/{id}/remove_attendee/
func (s *EventService) RemoveAttendee(ctx context.Context, eventID, contactID int) error {
	body := map[string]any{"contact": contactID}
	return s.c.post(ctx, idPath("/networking/events/%d/remove_attendee/", eventID), body, nil)
}

// List calls GET /networking/opportunities/
func (s *OpportunityService) List(ctx context.Context, f OpportunityFilter) ([]Opportunity, error) {
	return getList[Opportunity](ctx, s.c, "/networking/opportunities/", f.values())
}

// Get calls GET /networking/opportunities/{id}/
func (s *OpportunityService) Get(ctx context.Context, id int) (*Opportunity, error) {
	var o Opportunity
	if err := s.c.get(ctx, idPath("/networking/opportunities/%d/", id), nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Create calls POST /networking/opportunities/
func (s *OpportunityService) Create(ctx context.Context, in *OpportunityInput) (*Opportunity, error) {
	var o Opportunity
	if err := s.c.post(ctx, "/networking/opportunities/", in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Update calls PUT /networking/opportunities/{id}/
func (s *OpportunityService) Update(ctx context.Context, id int, in *OpportunityInput) (*Opportunity, error) {
	var o Opportunity
	if err := s.c.put(ctx, idPath("/networking/opportunities/%d/", id), in, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Delete calls DELETE /networking/opportunities/{id}/
func (s *OpportunityService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/networking/opportunities/%d/", id))
}

// Search calls POST /networking/opportunities-search/
func (s *OpportunityService) Search(ctx context.Context, state, city string, radius int) (*Search, error) {
	var out Search
	body := map[string]any{"state": state, "city": city, "radius": radius}
	if err := s.c.post(ctx, "/networking/opportunities-search/", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus calls POST /networking/opportunities/{id}/update_status/
func (s *OpportunityService) UpdateStatus(ctx context.Context, id int, status string) (*Opportunity, error) {
	var o Opportunity
	if err := s.c.post(ctx, idPath("/networking/opportunities/%d/update_status/", id), map[string]string{"status": status}, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// Active calls GET /networking/opportunities/active/
func (s *OpportunityService) Active(ctx context.Context) ([]Opportunity, error) {
	return getList[Opportunity](ctx, s.c, "/networking/opportunities/active/", nil)
}

// Closed calls GET /networking/opportunities/closed/
func (s *OpportunityService) Closed(ctx context.Context) ([]Opportunity, error) {
	return getList[Opportunity](ctx, s.c, "/networking/opportunities/closed/", nil)
}

// Milestones calls GET /networking/milestones/, scoped to opportunityID when non-zero.
func (s *OpportunityService) Milestones(ctx context.Context, opportunityID int) ([]Milestone, error) {
	q := url.Values{}
	if opportunityID != 0 {
		q.Set("opportunity", strconv.Itoa(opportunityID))
	}
	return getList[Milestone](ctx, s.c, "/networking/milestones/", q)
}

// AddMilestone calls POST /networking/opportunities/{id}/add_milestone/
func (s *OpportunityService) AddMilestone(ctx context.Context, opportunityID int, in *MilestoneInput) (*Milestone, error) {
	body := *in
	body.Opportunity = opportunityID
	var m Milestone
	if err := s.c.post(ctx, idPath("/networking/opportunities/%d/add_milestone/", opportunityID), &body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ToggleMilestone calls POST /networking/milestones/{id}/toggle_completed/
func (s *OpportunityService) ToggleMilestone(ctx context.Context, id int) (*Milestone, error) {
	var m Milestone
	if err := s.c.post(ctx, idPath("/networking/milestones/%d/toggle_completed/", id), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// UpdateMilestone calls PUT /networking/milestones/{id}/
func (s *OpportunityService) UpdateMilestone(ctx context.Context, id int, in *MilestoneInput) (*Milestone, error) {
	var m Milestone
	if err := s.c.put(ctx, idPath("/networking/milestones/%d/", id), in, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// DeleteMilestone calls DELETE /networking/milestones/{id}/
func (s *OpportunityService) DeleteMilestone(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/networking/milestones/%d/", id))
}
