// internal/summary/summary.go
// Package summary renders the daily nutrition report shown by the bot's
// /stats command and by the offline stats subcommand.
package summary

import (
	"fmt"
	"strings"
	"time"

	"nutrition-bot/internal/models"
)

// RemainingProtein returns how many grams are still missing toward the
// goal, clamped at zero once the goal is met.
func RemainingProtein(goal, consumed float64) float64 {
	if consumed >= goal {
		return 0
	}
	return goal - consumed
}

// ProteinProgress picks the progress message for the day. At or above
// the goal it congratulates, at 75% it encourages, below that it states
// the remaining grams.
func ProteinProgress(consumed, goal float64) string {
	if goal <= 0 {
		return ""
	}

	pct := consumed / goal * 100
	switch {
	case pct >= 100:
		return "🎉 Congratulations! You hit your protein goal today!"
	case pct >= 75:
		return "💪 Almost there! Keep it up!"
	default:
		return fmt.Sprintf("You need %.0fg more protein to reach your goal.", RemainingProtein(goal, consumed))
	}
}

// DayReport renders the full report for one day: the logged meals,
// the nutrition totals and the protein progress message. Timestamps
// are shown in loc. A day with no meals still gets the totals block,
// zeroed, with the whole goal remaining.
func DayReport(date string, meals []*models.MealEntry, totals models.DailyTotals, goal float64, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Nutrition summary for %s\n\n", date)

	if len(meals) == 0 {
		b.WriteString("You haven't logged any meals today yet! 📷 Send me a photo of your food to get started.\n")
	} else {
		for i, meal := range meals {
			fmt.Fprintf(&b, "%d. %s  %s (%.0f kcal, %.0fg protein)\n",
				i+1, meal.Timestamp.In(loc).Format("15:04"), meal.Description, meal.Calories, meal.Protein)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "🔥 Calories: %.0f kcal\n", totals.Calories)
	fmt.Fprintf(&b, "🥩 Protein: %.0fg / %.0fg\n", totals.Protein, goal)
	fmt.Fprintf(&b, "🍞 Carbs: %.0fg\n", totals.Carbs)
	fmt.Fprintf(&b, "🧈 Fat: %.0fg\n", totals.Fat)
	fmt.Fprintf(&b, "🌾 Fiber: %.0fg\n", totals.Fiber)

	if msg := ProteinProgress(totals.Protein, goal); msg != "" {
		b.WriteString("\n" + msg)
	}

	return b.String()
}
