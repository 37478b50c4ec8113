// Package quota enforces the per-user, per-day chat message budget tied
// to the user's plan tier. The window is the current UTC calendar day.
package quota

import (
	"time"

	"aveta_backend/internal/models"
	"aveta_backend/pkg/apperrors"
)

// Limits maps plan tier to the daily message budget. Configuration, not
// business logic: keep the mapping exactly as deployed.
var Limits = map[models.UserPlan]int{
	models.UserPlanFree:    30,
	models.UserPlanBasic:   100,
	models.UserPlanPremium: 200,
}

// LimitFor returns the daily budget for a plan, falling back to the free
// tier for unknown values.
func LimitFor(plan models.UserPlan) int {
	if limit, ok := Limits[plan]; ok {
		return limit
	}
	return Limits[models.UserPlanFree]
}

// EffectiveCount is the number of messages charged to the user within the
// current window. The stored counter is stale once the UTC day of the
// last send differs from today, in which case it logically reads as zero
// (reset-on-read; the physical reset happens in Record).
func EffectiveCount(user *models.User, now time.Time) int {
	if user.LastMessageSentAt == nil {
		return 0
	}
	if !sameUTCDay(*user.LastMessageSentAt, now) {
		return 0
	}
	return user.MessagesSentToday
}

// Check decides whether the user may send another message right now.
// It never mutates the user: the counter is charged by Record only after
// the whole exchange succeeds, so a failed request costs nothing.
func Check(user *models.User, now time.Time) *apperrors.AppError {
	limit := LimitFor(user.Plan)
	if EffectiveCount(user, now) >= limit {
		return apperrors.QuotaExceeded(limit)
	}
	return nil
}

// Record charges one message to the user's window: it applies the
// physical reset when the window rolled over, then increments the counter
// and stamps the send time. The caller persists the user afterwards.
func Record(user *models.User, now time.Time) {
	if user.LastMessageSentAt == nil || !sameUTCDay(*user.LastMessageSentAt, now) {
		user.MessagesSentToday = 0
	}
	user.MessagesSentToday++
	sentAt := now
	user.LastMessageSentAt = &sentAt
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
