// ABOUTME: Cached reference data shared by the console screens
// ABOUTME: States, categories and event types change rarely, so they are fetched once per TTL

package tui

import (
	"context"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/cache"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

const refsTTL = 10 * time.Minute

const refsKey = "all"

type refs struct {
	states       *cache.Cache[[]client.State]
	reminderCats *cache.Cache[[]client.ReminderCategory]
	expenseCats  *cache.Cache[[]client.ExpenseCategory]
	eventTypes   *cache.Cache[[]client.EventType]
}

func newRefs(ttl time.Duration) *refs {
	return &refs{
		states:       cache.New[[]client.State](ttl),
		reminderCats: cache.New[[]client.ReminderCategory](ttl),
		expenseCats:  cache.New[[]client.ExpenseCategory](ttl),
		eventTypes:   cache.New[[]client.EventType](ttl),
	}
}

func (r *refs) States(ctx context.Context, c *client.Client) ([]client.State, error) {
	return r.states.GetOrLoad(refsKey, func() ([]client.State, error) {
		return c.States.List(ctx)
	})
}

func (r *refs) ReminderCategories(ctx context.Context, c *client.Client) ([]client.ReminderCategory, error) {
	return r.reminderCats.GetOrLoad(refsKey, func() ([]client.ReminderCategory, error) {
		return c.Reminders.Categories(ctx)
	})
}

func (r *refs) ExpenseCategories(ctx context.Context, c *client.Client) ([]client.ExpenseCategory, error) {
	return r.expenseCats.GetOrLoad(refsKey, func() ([]client.ExpenseCategory, error) {
		return c.Budget.Categories(ctx)
	})
}

func (r *refs) EventTypes(ctx context.Context, c *client.Client) ([]client.EventType, error) {
	return r.eventTypes.GetOrLoad(refsKey, func() ([]client.EventType, error) {
		return c.Events.Types(ctx)
	})
}

// purge drops everything, used on logout so the next user refetches
func (r *refs) purge() {
	r.states.Purge()
	r.reminderCats.Purge()
	r.expenseCats.Purge()
	r.eventTypes.Purge()
}

func (r *refs) close() {
	r.states.Close()
	r.reminderCats.Close()
	r.expenseCats.Close()
	r.eventTypes.Close()
}
