package entity

import (
	"strings"
	"time"
)

// NotAvailable is the placeholder used for text fields absent from the source profile
const NotAvailable = "not available"

// Verification represents the platform-asserted verification tier of an account
type Verification string

const (
	VerificationNone         Verification = "none"
	VerificationStandard     Verification = "standard"
	VerificationOrganization Verification = "organization"
)

// IsVerified returns true for any tier other than none
func (v Verification) IsVerified() bool {
	return v == VerificationStandard || v == VerificationOrganization
}

// IsValidVerification checks if a verification tier is one of the known values
func IsValidVerification(v Verification) bool {
	switch v {
	case VerificationNone, VerificationStandard, VerificationOrganization:
		return true
	}
	return false
}

// ParseVerification parses a string into a Verification tier
func ParseVerification(s string) (Verification, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return VerificationNone, nil
	case "standard":
		return VerificationStandard, nil
	case "organization":
		return VerificationOrganization, nil
	default:
		return "", ErrInvalidVerification
	}
}

// RawProfile is a key/value record as returned by an external profile source
type RawProfile map[string]any

// AccountSnapshot is a point-in-time capture of an account's public profile.
// It is passed by value and never mutated by the engine.
type AccountSnapshot struct {
	DisplayName     string       `json:"display_name"`
	Handle          string       `json:"handle"`
	FollowerCount   int64        `json:"follower_count"`
	FollowingCount  int64        `json:"following_count"`
	PostCount       int64        `json:"post_count"`
	LikeCount       int64        `json:"like_count"`
	RepostCount     int64        `json:"repost_count"`
	MentionCount    int64        `json:"mention_count"`
	ListedCount     int64        `json:"listed_count"`
	MediaCount      int64        `json:"media_count"`
	CreatedAt       time.Time    `json:"created_at"`
	Verification    Verification `json:"verification"`
	CapturedAt      time.Time    `json:"captured_at"`
	Location        string       `json:"location"`
	Bio             string       `json:"bio"`
	ProfileImageURL string       `json:"profile_image_url,omitempty"`
}

// Activity is the raw activity breakdown shown next to an analysis
type Activity struct {
	Posts    int64 `json:"posts"`
	Reposts  int64 `json:"reposts"`
	Mentions int64 `json:"mentions"`
	Likes    int64 `json:"likes"`
}

// Activity returns the activity breakdown of the snapshot
func (s AccountSnapshot) Activity() Activity {
	return Activity{
		Posts:    s.PostCount,
		Reposts:  s.RepostCount,
		Mentions: s.MentionCount,
		Likes:    s.LikeCount,
	}
}
