package engine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/vadim/bot-radar/internal/domain/analysis/entity"
)

// Normalize converts a raw profile record into an AccountSnapshot.
// It never fails: every absent or malformed field degrades to its default.
// now is used as the capture time when the record carries none.
func Normalize(raw entity.RawProfile, now time.Time) entity.AccountSnapshot {
	metrics := nested(raw, "public_metrics")

	capturedAt, ok := timeField(raw, "captured_at")
	if !ok {
		capturedAt = now
	}
	createdAt, ok := timeField(raw, "created_at")
	if !ok {
		createdAt = capturedAt
	}

	return entity.AccountSnapshot{
		DisplayName:     textField(raw, "name"),
		Handle:          strings.TrimPrefix(textField(raw, "username"), "@"),
		FollowerCount:   countField(metrics, "followers_count"),
		FollowingCount:  countField(metrics, "following_count"),
		PostCount:       countField(metrics, "tweet_count"),
		LikeCount:       countField(metrics, "like_count"),
		RepostCount:     countField(metrics, "retweet_count"),
		MentionCount:    countField(metrics, "mention_count"),
		ListedCount:     countField(metrics, "listed_count"),
		MediaCount:      countField(metrics, "media_count"),
		CreatedAt:       createdAt,
		Verification:    verificationOf(raw),
		CapturedAt:      capturedAt,
		Location:        textField(raw, "location"),
		Bio:             textField(raw, "description"),
		ProfileImageURL: optionalText(raw, "profile_image_url"),
	}
}

// verificationOf maps the provider's verified flag and verified_type to a tier.
// The flag decides when present; verified_type alone is used otherwise.
func verificationOf(raw entity.RawProfile) entity.Verification {
	kind := strings.ToLower(optionalText(raw, "verified_type"))

	verified, present := boolField(raw, "verified")
	if present {
		if !verified {
			return entity.VerificationNone
		}
		if kind == "blue" {
			return entity.VerificationStandard
		}
		return entity.VerificationOrganization
	}

	switch kind {
	case "blue":
		return entity.VerificationStandard
	case "business", "government":
		return entity.VerificationOrganization
	}
	return entity.VerificationNone
}

func nested(raw entity.RawProfile, key string) map[string]any {
	switch v := raw[key].(type) {
	case map[string]any:
		return v
	case entity.RawProfile:
		return v
	}
	return nil
}

func textField(raw entity.RawProfile, key string) string {
	if s := optionalText(raw, key); s != "" {
		return s
	}
	return entity.NotAvailable
}

func optionalText(raw entity.RawProfile, key string) string {
	s, ok := raw[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

func boolField(raw entity.RawProfile, key string) (bool, bool) {
	switch v := raw[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// countField reads a non-negative integer count. Fractions are truncated,
// negatives and non-numeric values become 0.
func countField(m map[string]any, key string) int64 {
	var f float64
	switch v := m[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		if v < 0 {
			return 0
		}
		return v
	case uint:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return max(n, 0)
		}
		parsed, err := v.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(f)
}

func timeField(raw entity.RawProfile, key string) (time.Time, bool) {
	switch v := raw[key].(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseAny(s)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
