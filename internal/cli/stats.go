// internal/cli/stats.go
package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"nutrition-bot/internal/config"
	"nutrition-bot/internal/storage"
	"nutrition-bot/internal/summary"
)

var statsDate string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print a day's nutrition summary",
	Long: `Read the local SQLite database and print the nutrition summary for
one day without talking to Telegram or the vision model.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsDate, "date", "", "Day to summarize as YYYY-MM-DD (default today)")
}

func runStats(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadLocal(configPath)
	if err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	date := statsDate
	if date == "" {
		date = time.Now().In(loc).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
	}

	store, err := storage.NewSQLiteStorage(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	profile, err := store.GetProfile(cfg.AuthorizedUserID)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	if profile == nil {
		return fmt.Errorf("no profile found; run the bot and send /start first")
	}

	meals, err := store.MealsForDay(cfg.AuthorizedUserID, date)
	if err != nil {
		return fmt.Errorf("failed to load meals: %w", err)
	}
	totals, err := store.DailyTotals(cfg.AuthorizedUserID, date)
	if err != nil {
		return fmt.Errorf("failed to sum meals: %w", err)
	}

	fmt.Println(summary.DayReport(date, meals, totals, profile.ProteinGoal, loc))
	return nil
}
