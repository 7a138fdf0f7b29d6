// Package view holds the profile view tuple and the visitor key rules.
package view

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxUserAgentRunes bounds the user-agent part of a fallback visitor key.
const MaxUserAgentRunes = 50

// View is recorded at most once per (ProfileID, VisitorID).
type View struct {
	ProfileID uuid.UUID `json:"profile_id"`
	VisitorID string    `json:"visitor_id"`
	ViewedAt  time.Time `json:"viewed_at"`
}

// Repository is the view store. Record must be idempotent per
// (profile, visitor); duplicates are not errors.
type Repository interface {
	Record(ctx context.Context, v View) error
	Count(ctx context.Context, profileID uuid.UUID) (int64, error)
}

// VisitorKey returns the cookie UUID when present, else a key derived from
// the client IP and the first 50 characters of the user agent.
func VisitorKey(cookieID, clientIP, userAgent string) string {
	if cookieID = strings.TrimSpace(cookieID); cookieID != "" {
		return cookieID
	}
	return clientIP + "-" + truncateRunes(userAgent, MaxUserAgentRunes)
}

// ClientIP picks the first X-Forwarded-For entry, falling back to remoteIP.
func ClientIP(forwardedFor, remoteIP string) string {
	if forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	return remoteIP
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
