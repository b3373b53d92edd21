package entity

import (
	"encoding/json"
	"math"
)

// Number is a float64 that survives JSON encoding when it is not finite.
// +Inf and -Inf are encoded as the strings "Infinity" and "-Infinity", NaN as null.
type Number float64

// MarshalJSON implements json.Marshaler
func (n Number) MarshalJSON() ([]byte, error) {
	v := float64(n)
	switch {
	case math.IsNaN(v):
		return []byte("null"), nil
	case math.IsInf(v, 1):
		return []byte(`"Infinity"`), nil
	case math.IsInf(v, -1):
		return []byte(`"-Infinity"`), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(b []byte) error {
	switch string(b) {
	case "null":
		*n = Number(math.NaN())
		return nil
	case `"Infinity"`:
		*n = Number(math.Inf(1))
		return nil
	case `"-Infinity"`:
		*n = Number(math.Inf(-1))
		return nil
	}

	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Number(v)
	return nil
}

type factorSetJSON struct {
	FollowRatio      Number       `json:"follow_ratio"`
	AccountAgeDays   Number       `json:"account_age_days"`
	PostsPerDay      Number       `json:"posts_per_day"`
	RepostPercentage Number       `json:"repost_percentage"`
	InteractionRate  Number       `json:"interaction_rate"`
	EngagementRate   Number       `json:"engagement_rate"`
	Verification     Verification `json:"verification"`
}

// MarshalJSON implements json.Marshaler
func (f FactorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(factorSetJSON{
		FollowRatio:      Number(f.FollowRatio),
		AccountAgeDays:   Number(f.AccountAgeDays),
		PostsPerDay:      Number(f.PostsPerDay),
		RepostPercentage: Number(f.RepostPercentage),
		InteractionRate:  Number(f.InteractionRate),
		EngagementRate:   Number(f.EngagementRate),
		Verification:     f.Verification,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (f *FactorSet) UnmarshalJSON(b []byte) error {
	var raw factorSetJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*f = FactorSet{
		FollowRatio:      float64(raw.FollowRatio),
		AccountAgeDays:   float64(raw.AccountAgeDays),
		PostsPerDay:      float64(raw.PostsPerDay),
		RepostPercentage: float64(raw.RepostPercentage),
		InteractionRate:  float64(raw.InteractionRate),
		EngagementRate:   float64(raw.EngagementRate),
		Verification:     raw.Verification,
	}
	return nil
}
