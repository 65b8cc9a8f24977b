// internal/models/profile.go
package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityVery      ActivityLevel = "very"
)

// Accepted ranges for setup input. Values outside these are rejected
// during the setup dialog.
const (
	MinAge      = 10
	MaxAge      = 120
	MinWeightKg = 30.0
	MaxWeightKg = 300.0
	MinHeightCm = 100.0
	MaxHeightCm = 250.0
)

// Profile is the stored nutrition profile for the authorized user.
// There is at most one per user id; re-running setup replaces it wholesale.
type Profile struct {
	UserID      int64         `json:"user_id"`
	Age         int           `json:"age"`
	WeightKg    float64       `json:"weight"`
	HeightCm    float64       `json:"height"`
	Sex         Sex           `json:"sex"`
	Activity    ActivityLevel `json:"activity_level"`
	ProteinGoal float64       `json:"protein_goal"`
	CreatedAt   time.Time     `json:"created_at"`
}

const kgToLbs = 2.20462

// proteinMultipliers maps activity level to grams of protein per pound
// of body weight.
var proteinMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 0.8,
	ActivityLight:     1.0,
	ActivityModerate:  1.2,
	ActivityActive:    1.3,
	ActivityVery:      1.4,
}

// ProteinGoalFor returns the daily protein goal in grams for the given
// body weight and activity level, rounded to the nearest gram. Unknown
// levels fall back to the 1.0 g/lb multiplier.
func ProteinGoalFor(weightKg float64, level ActivityLevel) float64 {
	m, ok := proteinMultipliers[level]
	if !ok {
		m = 1.0
	}
	return math.Round(weightKg * kgToLbs * m)
}

// ParseSex normalizes free-text input to a Sex value.
func ParseSex(s string) (Sex, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "man":
		return SexMale, nil
	case "female", "f", "woman":
		return SexFemale, nil
	}
	return "", fmt.Errorf("unrecognized sex %q", s)
}

// ParseActivityLevel normalizes free-text input to an ActivityLevel.
// Common phrasings like "very active" or "lightly active" are accepted.
func ParseActivityLevel(s string) (ActivityLevel, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch {
	case norm == "sedentary":
		return ActivitySedentary, nil
	case norm == "light" || norm == "lightly active":
		return ActivityLight, nil
	case norm == "moderate" || norm == "moderately active":
		return ActivityModerate, nil
	case norm == "active":
		return ActivityActive, nil
	case norm == "very" || norm == "very active":
		return ActivityVery, nil
	}
	return "", fmt.Errorf("unrecognized activity level %q", s)
}
