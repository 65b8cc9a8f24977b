// internal/bot/format.go
package bot

import (
	"fmt"
	"strings"

	"nutrition-bot/internal/models"
	"nutrition-bot/internal/summary"
)

const (
	privateReply       = "Sorry, this bot is private."
	idleNudge          = "📷 Send me a photo of your meal and I'll log its nutrition! Use /stats for today's summary."
	noProfileReply     = "You haven't set up your profile yet. Send /start to begin."
	setupPhotoReply    = "Let's finish your profile first."
	notFoodReply       = "🤔 That doesn't look like food to me. Send me a photo of your meal!"
	unavailableReply   = "⚠️ The analysis service is unavailable right now. Please try again in a moment."
	unparseableReply   = "⚠️ I couldn't make sense of the analysis for this photo. Please try another photo."
	applyFailedReply   = "🤔 I couldn't apply that. Could you rephrase?"
	storageReply       = "⚠️ Something went wrong saving your data. Please try again."
	downloadReply      = "⚠️ I couldn't download that photo. Please try again."
	mealClosedReply    = "👍 Meal saved."
	bestEstimateReply  = "Alright, I'll go with my best estimate."
	refineNotFoodReply = "🤔 That doesn't look like food, so I left the meal as it was."
	refineHint         = "Send another photo of this meal to refine the estimate, or \"done\" to close it."

	helpReply = "📸 Send a photo of your meal and I'll estimate calories, protein, carbs, fat and fiber.\n\n" +
		"Commands:\n" +
		"/start - set up or redo your profile\n" +
		"/stats - today's nutrition summary\n" +
		"/help - this message\n\n" +
		"While a meal is open you can send more photos of it to refine the estimate, or \"done\" to close it."

	unknownCommandReply = "Unknown command. Try /help."
)

func formatNutritionLine(n models.Nutrition) string {
	return fmt.Sprintf("🔥 %.0f kcal  🥩 %.0fg protein  🍞 %.0fg carbs  🧈 %.0fg fat  🌾 %.0fg fiber",
		n.Calories, n.Protein, n.Carbs, n.Fat, n.Fiber)
}

// formatCommit builds the confirmation sent right after a meal is
// written to storage.
func formatCommit(analysis *models.FoodAnalysis, proteinToday, goal float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Logged: %s\n\n", analysis.Description())
	b.WriteString(formatNutritionLine(analysis.Nutrition))

	if analysis.Comment != "" {
		b.WriteString("\n\n💬 " + analysis.Comment)
	}
	if analysis.Suggestions != "" {
		b.WriteString("\n💡 " + analysis.Suggestions)
	}

	if goal > 0 {
		fmt.Fprintf(&b, "\n\n🥩 Protein today: %.0fg / %.0fg", proteinToday, goal)
		if msg := summary.ProteinProgress(proteinToday, goal); msg != "" {
			b.WriteString("\n" + msg)
		}
	}

	b.WriteString("\n\n" + refineHint)
	return b.String()
}

func formatRefined(analysis *models.FoodAnalysis) string {
	return fmt.Sprintf("🔄 Updated: %s\n\n%s", analysis.Description(), formatNutritionLine(analysis.Nutrition))
}

func formatQuestions(questions []string) string {
	var b strings.Builder
	b.WriteString("🤔 I need a bit more detail before logging this:\n")
	for _, q := range questions {
		b.WriteString("\n• " + q)
	}
	return b.String()
}

func formatProfileDone(goal float64) string {
	return fmt.Sprintf("🎯 All set! Your daily protein goal is %.0fg.\n\n📷 Send me a photo of your food to start tracking!", goal)
}
