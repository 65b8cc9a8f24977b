// internal/models/meal_test.go
package models

import (
	"encoding/json"
	"testing"
)

func TestNeedsClarification(t *testing.T) {
	tests := []struct {
		name     string
		analysis FoodAnalysis
		want     bool
	}{
		{
			name:     "low confidence with questions",
			analysis: FoodAnalysis{PortionConfidence: LowConfidence, Questions: []string{"How big was the bowl?"}},
			want:     true,
		},
		{
			name:     "low confidence without questions",
			analysis: FoodAnalysis{PortionConfidence: LowConfidence},
			want:     false,
		},
		{
			name:     "high confidence with questions",
			analysis: FoodAnalysis{PortionConfidence: HighConfidence, Questions: []string{"Really?"}},
			want:     false,
		},
		{
			name:     "medium confidence",
			analysis: FoodAnalysis{PortionConfidence: MediumConfidence},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.analysis.NeedsClarification(); got != tt.want {
				t.Errorf("NeedsClarification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	a := FoodAnalysis{FoodItems: []string{"grilled chicken", "rice", "broccoli"}}
	if got := a.Description(); got != "grilled chicken, rice, broccoli" {
		t.Errorf("Description() = %q", got)
	}

	empty := FoodAnalysis{}
	if got := empty.Description(); got != "" {
		t.Errorf("Description() on empty analysis = %q, want empty", got)
	}
}

func TestFoodAnalysisJSON(t *testing.T) {
	payload := `{
		"is_food": true,
		"food_items": ["oatmeal", "banana"],
		"portion_confidence": "medium",
		"nutrition": {"calories": 420, "protein": 12, "carbs": 74, "fat": 9, "fiber": 8},
		"questions": [],
		"motivational_comment": "Great fiber start to the day!",
		"suggestions": "Add some Greek yogurt for extra protein."
	}`

	var a FoodAnalysis
	if err := json.Unmarshal([]byte(payload), &a); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if !a.IsFood {
		t.Error("IsFood = false, want true")
	}
	if a.PortionConfidence != MediumConfidence {
		t.Errorf("PortionConfidence = %q, want %q", a.PortionConfidence, MediumConfidence)
	}
	if a.Nutrition.Calories != 420 || a.Nutrition.Fiber != 8 {
		t.Errorf("Nutrition = %+v", a.Nutrition)
	}
	if a.Comment != "Great fiber start to the day!" {
		t.Errorf("Comment = %q", a.Comment)
	}
	if a.Suggestions == "" {
		t.Error("Suggestions empty, want populated")
	}
	if a.NeedsClarification() {
		t.Error("NeedsClarification() = true for medium confidence")
	}
}
