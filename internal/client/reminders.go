// ABOUTME: Reminder, reminder category and notification endpoints
// ABOUTME: Notifications feed the unread badge in the console header

package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// ReminderService handles /reminders/
type ReminderService service

// NotificationService handles /notifications/
type NotificationService service

// Reminder priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// ReminderCategory groups reminders
type ReminderCategory struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Icon  *string `json:"icon"`
}

// Reminder is a dated to-do
type Reminder struct {
	ID            int                    `json:"id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	DueDate       time.Time              `json:"due_date"`
	Completed     bool                   `json:"completed"`
	CompletedDate *time.Time             `json:"completed_date"`
	Priority      string                 `json:"priority"`
	Category      *int                   `json:"category"`
	CategoryName  string                 `json:"category_name,omitempty"`
	CategoryColor string                 `json:"category_color,omitempty"`
	Notifications []ReminderNotification `json:"notifications,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// Overdue reports whether the reminder is incomplete and past due at now.
func (r *Reminder) Overdue(now time.Time) bool {
	return !r.Completed && r.DueDate.Before(now)
}

// ReminderInput is the create/replace payload for a reminder
type ReminderInput struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Priority    string    `json:"priority,omitempty"`
	Category    *int      `json:"category,omitempty"`
	Completed   bool      `json:"completed"`
}

// ReminderFilter narrows List. Zero values are not sent.
type ReminderFilter struct {
	Category  int
	Priority  string
	Completed *bool
	Search    string
	Ordering  string
}

func (f ReminderFilter) values() url.Values {
	q := url.Values{}
	if f.Category != 0 {
		q.Set("category", strconv.Itoa(f.Category))
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Completed != nil {
		q.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Ordering != "" {
		q.Set("ordering", f.Ordering)
	}
	return q
}

// ReminderNotification is a delivered reminder alert
type ReminderNotification struct {
	ID            int        `json:"id"`
	Reminder      int        `json:"reminder"`
	ReminderTitle string     `json:"reminder_title"`
	SentAt        time.Time  `json:"sent_at"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"read_at"`
}

// Categories calls GET /reminders/categories/
func (s *ReminderService) Categories(ctx context.Context) ([]ReminderCategory, error) {
	return getList[ReminderCategory](ctx, s.c, "/reminders/categories/", nil)
}

// CreateCategory calls POST /reminders/categories/
func (s *ReminderService) CreateCategory(ctx context.Context, in *ReminderCategory) (*ReminderCategory, error) {
	var out ReminderCategory
	if err := s.c.post(ctx, "/reminders/categories/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCategory calls PUT /reminders/categories/{id}/
func (s *ReminderService) UpdateCategory(ctx context.Context, id int, in *ReminderCategory) (*ReminderCategory, error) {
	var out ReminderCategory
	if err := s.c.put(ctx, idPath("/reminders/categories/%d/", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory calls DELETE /reminders/categories/{id}/
func (s *ReminderService) DeleteCategory(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/reminders/categories/%d/", id))
}

// List calls GET /reminders/
func (s *ReminderService) List(ctx context.Context, f ReminderFilter) ([]Reminder, error) {
	return getList[Reminder](ctx, s.c, "/reminders/", f.values())
}

// Get calls GET /reminders/{id}/
func (s *ReminderService) Get(ctx context.Context, id int) (*Reminder, error) {
	var r Reminder
	if err := s.c.get(ctx, idPath("/reminders/%d/", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create calls POST /reminders/
func (s *ReminderService) Create(ctx context.Context, in *ReminderInput) (*Reminder, error) {
	var r Reminder
	if err := s.c.post(ctx, "/reminders/", in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Update calls PUT /reminders/{id}/
func (s *ReminderService) Update(ctx context.Context, id int, in *ReminderInput) (*Reminder, error) {
	var r Reminder
	if err := s.c.put(ctx, idPath("/reminders/%d/", id), in, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete calls DELETE /reminders/{id}/
func (s *ReminderService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, idPath("/reminders/%d/", id))
}

// Complete calls POST /reminders/{id}/complete/
func (s *ReminderService) Complete(ctx context.Context, id int) (*Reminder, error) {
	var r Reminder
	if err := s.c.post(ctx, idPath("/reminders/%d/complete/", id), nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Overdue calls GET /reminders/overdue/
func (s *ReminderService) Overdue(ctx context.Context) ([]Reminder, error) {
	return getList[Reminder](ctx, s.c, "/reminders/overdue/", nil)
}

// Upcoming calls GET /reminders/upcoming/
func (s *ReminderService) Upcoming(ctx context.Context) ([]Reminder, error) {
	return getList[Reminder](ctx, s.c, "/reminders/upcoming/", nil)
}

// Today calls GET /reminders/today/
func (s *ReminderService) Today(ctx context.Context) ([]Reminder, error) {
	return getList[Reminder](ctx, s.c, "/reminders/today/", nil)
}

// List calls GET /notifications/. A nil read returns both read and unread.
func (s *NotificationService) List(ctx context.Context, read *bool) ([]ReminderNotification, error) {
	q := url.Values{}
	if read != nil {
		q.Set("read", strconv.FormatBool(*read))
	}
	return getList[ReminderNotification](ctx, s.c, "/notifications/", q)
}

// Unread is List(false)
func (s *NotificationService) Unread(ctx context.Context) ([]ReminderNotification, error) {
	unread := false
	return s.List(ctx, &unread)
}

// MarkRead calls POST /notifications/{id}/mark_read/
func (s *NotificationService) MarkRead(ctx context.Context, id int) error {
	return s.c.post(ctx, idPath("/notifications/%d/mark_read/", id), nil, nil)
}

// MarkAllRead calls POST /notifications/mark_all_read/
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return s.c.post(ctx, "/notifications/mark_all_read/", nil, nil)
}
