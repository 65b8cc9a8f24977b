// internal/bot/setup.go
package bot

import (
	"fmt"
	"strconv"
	"strings"

	"nutrition-bot/internal/models"
)

type validationError string

func (e validationError) Error() string { return string(e) }

const setupWelcome = "👋 Welcome to your personal nutrition tracker! Let's set up your profile so I can work out your daily protein goal."

func setupPrompt(step SetupStep) string {
	switch step {
	case StepAge:
		return "How old are you?"
	case StepWeight:
		return "What's your weight in kg?"
	case StepHeight:
		return "What's your height in cm?"
	case StepSex:
		return "What's your sex? (male/female)"
	case StepActivity:
		return "How active are you? (sedentary, light, moderate, active, very)"
	default:
		return ""
	}
}

// applySetupAnswer validates one questionnaire answer and writes it into
// the draft profile. The returned error text is shown to the user as-is
// and the questionnaire stays on the same step.
func applySetupAnswer(draft *models.Profile, step SetupStep, text string) error {
	text = strings.TrimSpace(text)

	switch step {
	case StepAge:
		age, err := strconv.Atoi(text)
		if err != nil || age < models.MinAge || age > models.MaxAge {
			return validationError(fmt.Sprintf("Please enter a valid age between %d and %d.", models.MinAge, models.MaxAge))
		}
		draft.Age = age

	case StepWeight:
		// ParseFloat accepts "nan" and "inf". NaN compares false to
		// everything, so the bounds are checked in the affirmative and
		// only finite in-range values pass.
		weight, err := strconv.ParseFloat(text, 64)
		if err != nil || !(weight >= models.MinWeightKg && weight <= models.MaxWeightKg) {
			return validationError(fmt.Sprintf("Please enter a valid weight in kg (%.0f-%.0f).", models.MinWeightKg, models.MaxWeightKg))
		}
		draft.WeightKg = weight

	case StepHeight:
		height, err := strconv.ParseFloat(text, 64)
		if err != nil || !(height >= models.MinHeightCm && height <= models.MaxHeightCm) {
			return validationError(fmt.Sprintf("Please enter a valid height in cm (%.0f-%.0f).", models.MinHeightCm, models.MaxHeightCm))
		}
		draft.HeightCm = height

	case StepSex:
		sex, err := models.ParseSex(text)
		if err != nil {
			return validationError("Please answer male or female.")
		}
		draft.Sex = sex

	case StepActivity:
		level, err := models.ParseActivityLevel(text)
		if err != nil {
			return validationError("Please choose one of: sedentary, light, moderate, active, very.")
		}
		draft.Activity = level
	}

	return nil
}
