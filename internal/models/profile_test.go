// internal/models/profile_test.go
package models

import "testing"

func TestProteinGoalFor(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		level    ActivityLevel
		want     float64
	}{
		{name: "sedentary", weightKg: 70, level: ActivitySedentary, want: 123},
		{name: "light", weightKg: 70, level: ActivityLight, want: 154},
		{name: "moderate", weightKg: 80, level: ActivityModerate, want: 212},
		{name: "active", weightKg: 80, level: ActivityActive, want: 229},
		{name: "very", weightKg: 90, level: ActivityVery, want: 278},
		{name: "unknown level falls back to 1.0", weightKg: 70, level: "couch", want: 154},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProteinGoalFor(tt.weightKg, tt.level)
			if got != tt.want {
				t.Errorf("ProteinGoalFor(%v, %q) = %v, want %v", tt.weightKg, tt.level, got, tt.want)
			}
		})
	}
}

func TestParseSex(t *testing.T) {
	tests := []struct {
		input   string
		want    Sex
		wantErr bool
	}{
		{input: "male", want: SexMale},
		{input: "Male", want: SexMale},
		{input: " m ", want: SexMale},
		{input: "female", want: SexFemale},
		{input: "F", want: SexFemale},
		{input: "woman", want: SexFemale},
		{input: "dude", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSex(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseSex(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSex(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSex(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseActivityLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    ActivityLevel
		wantErr bool
	}{
		{input: "sedentary", want: ActivitySedentary},
		{input: "light", want: ActivityLight},
		{input: "Lightly Active", want: ActivityLight},
		{input: "moderate", want: ActivityModerate},
		{input: "moderately_active", want: ActivityModerate},
		{input: "active", want: ActivityActive},
		{input: "VERY", want: ActivityVery},
		{input: "very-active", want: ActivityVery},
		{input: "ultra", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseActivityLevel(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseActivityLevel(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseActivityLevel(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseActivityLevel(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
