// internal/bot/dialog.go
package bot

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"nutrition-bot/internal/estimator"
	"nutrition-bot/internal/models"
	"nutrition-bot/internal/summary"
)

// Store is the slice of the storage layer the dialog needs.
type Store interface {
	GetProfile(userID int64) (*models.Profile, error)
	SaveProfile(profile *models.Profile) error
	InsertMeal(entry *models.MealEntry) (int64, error)
	UpdateMealAnalysis(id int64, analysis *models.FoodAnalysis, raw string) error
	MealsForDay(userID int64, date string) ([]*models.MealEntry, error)
	DailyTotals(userID int64, date string) (models.DailyTotals, error)
}

// Estimator analyzes meal photos and folds follow-up context, either a
// clarification answer or another photo, into an earlier analysis.
type Estimator interface {
	AnalyzeImage(ctx context.Context, imageData []byte, mimeType string) (*models.FoodAnalysis, string, error)
	Adjust(ctx context.Context, prior, detail string) (*models.FoodAnalysis, string, error)
	Reanalyze(ctx context.Context, prior string, imageData []byte, mimeType string) (*models.FoodAnalysis, string, error)
}

// Dialog drives the conversation with the authorized user. It is not
// safe for concurrent use: the update loop feeds it one message at a
// time, which is also what keeps replies in arrival order.
type Dialog struct {
	store         Store
	estimator     Estimator
	userID        int64
	clarifyRounds int
	refineWindow  time.Duration
	loc           *time.Location
	now           func() time.Time

	session Session
}

func NewDialog(store Store, est Estimator, userID int64, clarifyRounds int, refineWindow time.Duration, loc *time.Location) *Dialog {
	if loc == nil {
		loc = time.Local
	}
	return &Dialog{
		store:         store,
		estimator:     est,
		userID:        userID,
		clarifyRounds: clarifyRounds,
		refineWindow:  refineWindow,
		loc:           loc,
		now:           time.Now,
		session:       Session{Phase: PhaseIdle},
	}
}

func (d *Dialog) today() string {
	return d.now().In(d.loc).Format("2006-01-02")
}

// expireRefinement closes a refinement window that has sat idle longer
// than the configured timeout. Checked lazily when the next update
// arrives, there is no background timer.
func (d *Dialog) expireRefinement() {
	if d.session.Phase == PhaseRefining && d.now().Sub(d.session.LastActivity) > d.refineWindow {
		d.session = Session{Phase: PhaseIdle}
	}
}

// HandleCommand processes a slash command. Commands are routed ahead of
// the conversation state: /stats never touches the session and /start
// resets it from any phase.
func (d *Dialog) HandleCommand(ctx context.Context, command string) []string {
	switch command {
	case "start":
		d.session = Session{Phase: PhaseSetup, Step: StepAge, Draft: models.Profile{UserID: d.userID}}
		return []string{setupWelcome + "\n\n" + setupPrompt(StepAge)}
	case "stats":
		return d.stats()
	case "help":
		return []string{helpReply}
	default:
		return []string{unknownCommandReply}
	}
}

func (d *Dialog) stats() []string {
	profile, err := d.store.GetProfile(d.userID)
	if err != nil {
		log.Printf("stats: load profile: %v", err)
		return []string{storageReply}
	}
	if profile == nil {
		return []string{noProfileReply}
	}

	date := d.today()
	meals, err := d.store.MealsForDay(d.userID, date)
	if err != nil {
		log.Printf("stats: load meals: %v", err)
		return []string{storageReply}
	}
	totals, err := d.store.DailyTotals(d.userID, date)
	if err != nil {
		log.Printf("stats: sum meals: %v", err)
		return []string{storageReply}
	}

	return []string{summary.DayReport(date, meals, totals, profile.ProteinGoal, d.loc)}
}

// HandlePhoto routes a food photo. While a refinement window is open
// the photo refines the logged meal in place; otherwise it starts a
// fresh analysis, discarding any unanswered clarification first.
func (d *Dialog) HandlePhoto(ctx context.Context, imageData []byte, mimeType string) []string {
	d.expireRefinement()

	switch d.session.Phase {
	case PhaseSetup:
		return []string{setupPhotoReply + "\n\n" + setupPrompt(d.session.Step)}
	case PhaseRefining:
		return d.handleRefinementPhoto(ctx, imageData, mimeType)
	case PhaseClarifying:
		// Nothing was written for the pending draft, drop it.
		d.session = Session{Phase: PhaseIdle}
	}

	profile, err := d.store.GetProfile(d.userID)
	if err != nil {
		log.Printf("photo: load profile: %v", err)
		return []string{storageReply}
	}
	if profile == nil {
		return []string{noProfileReply}
	}

	analysis, raw, err := d.estimator.AnalyzeImage(ctx, imageData, mimeType)
	if err != nil {
		return []string{estimatorReply(err)}
	}
	if !analysis.IsFood {
		return []string{notFoodReply}
	}

	if analysis.NeedsClarification() {
		d.session = Session{Phase: PhaseClarifying, PendingRaw: raw, Rounds: 1}
		return []string{formatQuestions(analysis.Questions)}
	}

	return d.commitMeal(analysis, raw)
}

// HandleText routes free text by phase: a questionnaire answer, a
// clarification answer, a close signal for the open meal, or an idle
// nudge.
func (d *Dialog) HandleText(ctx context.Context, text string) []string {
	d.expireRefinement()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	switch d.session.Phase {
	case PhaseSetup:
		return d.handleSetupAnswer(text)
	case PhaseClarifying:
		return d.handleClarificationAnswer(ctx, text)
	case PhaseRefining:
		return d.handleRefinement(text)
	default:
		return []string{idleNudge}
	}
}

func (d *Dialog) handleSetupAnswer(text string) []string {
	if err := applySetupAnswer(&d.session.Draft, d.session.Step, text); err != nil {
		return []string{err.Error()}
	}

	if d.session.Step < StepActivity {
		d.session.Step++
		return []string{setupPrompt(d.session.Step)}
	}

	profile := d.session.Draft
	profile.ProteinGoal = models.ProteinGoalFor(profile.WeightKg, profile.Activity)
	if err := d.store.SaveProfile(&profile); err != nil {
		// Session stays on the last step so re-sending the answer
		// retries the save.
		log.Printf("save profile: %v", err)
		return []string{storageReply}
	}

	d.session = Session{Phase: PhaseIdle}
	return []string{formatProfileDone(profile.ProteinGoal)}
}

func (d *Dialog) handleClarificationAnswer(ctx context.Context, text string) []string {
	analysis, raw, err := d.estimator.Adjust(ctx, d.session.PendingRaw, text)
	if err != nil {
		return []string{estimatorReply(err)}
	}
	if !analysis.IsFood {
		return []string{applyFailedReply}
	}

	if analysis.NeedsClarification() && d.session.Rounds < d.clarifyRounds {
		d.session.Rounds++
		d.session.PendingRaw = raw
		return []string{formatQuestions(analysis.Questions)}
	}

	if analysis.NeedsClarification() {
		// Round cap reached. Log the best estimate instead of asking
		// forever.
		return append([]string{bestEstimateReply}, d.commitMeal(analysis, raw)...)
	}

	return d.commitMeal(analysis, raw)
}

// handleRefinement closes the open meal. "done" gets an explicit
// confirmation; any other text closes it the same way the inactivity
// timeout does and then falls through to the idle reply.
func (d *Dialog) handleRefinement(text string) []string {
	d.session = Session{Phase: PhaseIdle}
	if strings.EqualFold(text, "done") {
		return []string{mealClosedReply}
	}
	return []string{idleNudge}
}

// handleRefinementPhoto folds another photo of the open meal into the
// logged estimate. The same row is updated, never a second one.
func (d *Dialog) handleRefinementPhoto(ctx context.Context, imageData []byte, mimeType string) []string {
	d.session.LastActivity = d.now()

	analysis, raw, err := d.estimator.Reanalyze(ctx, d.session.RefineRaw, imageData, mimeType)
	if err != nil {
		return []string{estimatorReply(err)}
	}
	if !analysis.IsFood {
		return []string{refineNotFoodReply}
	}

	if err := d.store.UpdateMealAnalysis(d.session.MealID, analysis, raw); err != nil {
		log.Printf("refine meal: %v", err)
		return []string{storageReply}
	}

	d.session.RefineRaw = raw
	return []string{formatRefined(analysis)}
}

// commitMeal writes the analysis as a new meal row and opens the
// refinement window for it.
func (d *Dialog) commitMeal(analysis *models.FoodAnalysis, raw string) []string {
	now := d.now()
	entry := &models.MealEntry{
		UserID:      d.userID,
		Date:        now.In(d.loc).Format("2006-01-02"),
		Timestamp:   now,
		Description: analysis.Description(),
		Calories:    analysis.Nutrition.Calories,
		Protein:     analysis.Nutrition.Protein,
		Carbs:       analysis.Nutrition.Carbs,
		Fat:         analysis.Nutrition.Fat,
		Fiber:       analysis.Nutrition.Fiber,
		SessionID:   uuid.NewString(),
		Analysis:    raw,
	}

	id, err := d.store.InsertMeal(entry)
	if err != nil {
		log.Printf("commit meal: %v", err)
		d.session = Session{Phase: PhaseIdle}
		return []string{storageReply}
	}

	d.session = Session{Phase: PhaseRefining, MealID: id, RefineRaw: raw, LastActivity: now}

	proteinToday, goal := d.proteinProgress(entry.Date)
	return []string{formatCommit(analysis, proteinToday, goal)}
}

// proteinProgress fetches today's protein total and the goal for the
// commit confirmation. A failure here only costs the progress line.
func (d *Dialog) proteinProgress(date string) (float64, float64) {
	totals, err := d.store.DailyTotals(d.userID, date)
	if err != nil {
		log.Printf("daily totals: %v", err)
		return 0, 0
	}

	profile, err := d.store.GetProfile(d.userID)
	if err != nil {
		log.Printf("load profile: %v", err)
		return 0, 0
	}
	if profile == nil {
		return 0, 0
	}

	return totals.Protein, profile.ProteinGoal
}

func estimatorReply(err error) string {
	log.Printf("estimator: %v", err)
	if errors.Is(err, estimator.ErrUnparseable) {
		return unparseableReply
	}
	return unavailableReply
}
