// internal/models/meal.go
package models

import (
	"strings"
	"time"
)

// MealEntry is one analyzed meal logged against a calendar day. Entries
// stay mutable only while their refinement session is open; once the
// session closes the row is never touched again.
type MealEntry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Date        string    `json:"date"` // YYYY-MM-DD in the bot's timezone
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	Fiber       float64   `json:"fiber"`
	SessionID   string    `json:"session_id"`
	Analysis    string    `json:"analysis,omitempty"` // raw model analysis JSON
}

// DailyTotals holds summed nutrition fields for one user and day.
type DailyTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

type ConfidenceLevel string

const (
	HighConfidence   ConfidenceLevel = "high"
	MediumConfidence ConfidenceLevel = "medium"
	LowConfidence    ConfidenceLevel = "low"
)

// Nutrition holds the estimated macro fields for one meal.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// FoodAnalysis is the structured result of one vision analysis call.
// Field names mirror the JSON schema the model is prompted to return.
type FoodAnalysis struct {
	IsFood            bool            `json:"is_food"`
	FoodItems         []string        `json:"food_items"`
	PortionConfidence ConfidenceLevel `json:"portion_confidence"`
	Nutrition         Nutrition       `json:"nutrition"`
	Questions         []string        `json:"questions,omitempty"`
	Comment           string          `json:"motivational_comment,omitempty"`
	Suggestions       string          `json:"suggestions,omitempty"`
}

// Description joins the identified food items into the entry description.
func (a *FoodAnalysis) Description() string {
	return strings.Join(a.FoodItems, ", ")
}

// NeedsClarification reports whether the portion size could not be pinned
// down from the image and the model supplied follow-up questions.
func (a *FoodAnalysis) NeedsClarification() bool {
	return a.PortionConfidence == LowConfidence && len(a.Questions) > 0
}
