// Package quota enforces per-user daily request limits with lazy day
// rollover: counters reset the first time a user is seen on a new calendar
// date, no background timers.
package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/wayfinder-ai/wayfinder/internal/store"
	"github.com/wayfinder-ai/wayfinder/pkg/model"
)

const dateLayout = "2006-01-02"

// effectively unlimited for paid tiers
const unlimitedDaily = 999999

var tierLimits = map[string]int{
	model.TierFree:    10,
	model.TierPremium: unlimitedDaily,
	model.TierPro:     unlimitedDaily,
}

// LimitError carries the usage numbers surfaced to the rejected caller.
type LimitError struct {
	SubscriptionType string
	DailyLimit       int
	RequestsUsed     int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("daily quota exceeded: %d/%d requests (%s tier)",
		e.RequestsUsed, e.DailyLimit, e.SubscriptionType)
}

type Guard struct {
	store store.Store
	now   func() time.Time
}

func NewGuard(st store.Store) *Guard {
	return &Guard{store: st, now: time.Now}
}

// NewGuardWithClock injects a clock, for rollover tests.
func NewGuardWithClock(st store.Store, now func() time.Time) *Guard {
	return &Guard{store: st, now: now}
}

// TierLimit returns the daily limit for a subscription tier. Unknown tiers
// get the free limit.
func TierLimit(tier string) int {
	if limit, ok := tierLimits[tier]; ok {
		return limit
	}
	return tierLimits[model.TierFree]
}

// Check applies lazy rollover and decides whether the user may make another
// request today. Rollover mutates and persists the user record; a rejection
// does not touch the counters.
func (g *Guard) Check(ctx context.Context, user *model.User) error {
	today := g.now().Format(dateLayout)
	if user.LastRequestDate != today {
		user.DailyRequests = 0
		user.LastRequestDate = today
		if err := g.store.SaveUser(ctx, user); err != nil {
			return fmt.Errorf("failed to persist quota rollover: %w", err)
		}
	}

	limit := TierLimit(user.SubscriptionType)
	if user.DailyRequests >= limit {
		return &LimitError{
			SubscriptionType: user.SubscriptionType,
			DailyLimit:       limit,
			RequestsUsed:     user.DailyRequests,
		}
	}
	return nil
}

// Increment bumps the daily and lifetime counters and persists them. Called
// only after a request has been fully processed, never on rejection.
func (g *Guard) Increment(ctx context.Context, user *model.User) error {
	user.DailyRequests++
	user.TotalRequests++
	return g.store.SaveUser(ctx, user)
}

// Remaining reports how many requests the user has left today, for the quota
// endpoint. Assumes Check (and its rollover) already ran.
func (g *Guard) Remaining(user *model.User) int {
	limit := TierLimit(user.SubscriptionType)
	if remaining := limit - user.DailyRequests; remaining > 0 {
		return remaining
	}
	return 0
}
