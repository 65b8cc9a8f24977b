// internal/storage/sqlite.go
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"nutrition-bot/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	storage := &SQLiteStorage{db: db}
	if err := storage.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return storage, nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS user_profile (
        user_id INTEGER PRIMARY KEY,
        age INTEGER NOT NULL,
        weight REAL NOT NULL,
        height REAL NOT NULL,
        sex TEXT NOT NULL,
        activity_level TEXT NOT NULL,
        protein_goal REAL NOT NULL,
        created_at TEXT NOT NULL
    );

    CREATE TABLE IF NOT EXISTS meals (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        user_id INTEGER NOT NULL,
        date TEXT NOT NULL,
        timestamp TEXT NOT NULL,
        food_description TEXT NOT NULL,
        calories REAL NOT NULL,
        protein REAL NOT NULL,
        carbs REAL NOT NULL,
        fat REAL NOT NULL,
        fiber REAL NOT NULL DEFAULT 0,
        session_id TEXT NOT NULL DEFAULT '',
        image_analysis TEXT,
        FOREIGN KEY (user_id) REFERENCES user_profile (user_id)
    );

    CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, date);
    CREATE INDEX IF NOT EXISTS idx_meals_session ON meals(session_id);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// GetProfile returns the stored profile for userID, or nil when setup has
// never completed.
func (s *SQLiteStorage) GetProfile(userID int64) (*models.Profile, error) {
	query := `
        SELECT user_id, age, weight, height, sex, activity_level, protein_goal, created_at
        FROM user_profile
        WHERE user_id = ?
    `

	profile := &models.Profile{}
	var sexStr, activityStr, createdAtStr string

	err := s.db.QueryRow(query, userID).Scan(
		&profile.UserID, &profile.Age, &profile.WeightKg, &profile.HeightCm,
		&sexStr, &activityStr, &profile.ProteinGoal, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	profile.Sex = models.Sex(sexStr)
	profile.Activity = models.ActivityLevel(activityStr)
	if profile.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr); err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return profile, nil
}

// SaveProfile upserts the profile, replacing any existing row for the same
// user id. Re-running setup overwrites the old profile wholesale.
func (s *SQLiteStorage) SaveProfile(profile *models.Profile) error {
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT OR REPLACE INTO user_profile
        (user_id, age, weight, height, sex, activity_level, protein_goal, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := s.db.Exec(query,
		profile.UserID, profile.Age, profile.WeightKg, profile.HeightCm,
		string(profile.Sex), string(profile.Activity), profile.ProteinGoal,
		profile.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	return nil
}

// InsertMeal appends a meal row and returns its id.
func (s *SQLiteStorage) InsertMeal(entry *models.MealEntry) (int64, error) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	query := `
        INSERT INTO meals
        (user_id, date, timestamp, food_description, calories, protein, carbs, fat, fiber, session_id, image_analysis)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	res, err := s.db.Exec(query,
		entry.UserID, entry.Date, entry.Timestamp.Format(time.RFC3339),
		entry.Description, entry.Calories, entry.Protein, entry.Carbs,
		entry.Fat, entry.Fiber, entry.SessionID, entry.Analysis)
	if err != nil {
		return 0, fmt.Errorf("failed to insert meal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read meal id: %w", err)
	}
	entry.ID = id

	return id, nil
}

// UpdateMealAnalysis replaces the description, nutrition fields and raw
// analysis of an existing row in place. Used while the meal's refinement
// window is still open, so a refined meal stays a single row.
func (s *SQLiteStorage) UpdateMealAnalysis(id int64, analysis *models.FoodAnalysis, raw string) error {
	query := `
        UPDATE meals
        SET food_description = ?, calories = ?, protein = ?, carbs = ?, fat = ?, fiber = ?, image_analysis = ?
        WHERE id = ?
    `
	res, err := s.db.Exec(query,
		analysis.Description(), analysis.Nutrition.Calories, analysis.Nutrition.Protein,
		analysis.Nutrition.Carbs, analysis.Nutrition.Fat, analysis.Nutrition.Fiber,
		raw, id)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("meal %d not found", id)
	}

	return nil
}

// MealsForDay returns the meals logged for userID on date (YYYY-MM-DD),
// oldest first.
func (s *SQLiteStorage) MealsForDay(userID int64, date string) ([]*models.MealEntry, error) {
	query := `
        SELECT id, user_id, date, timestamp, food_description, calories, protein, carbs, fat, fiber, session_id, COALESCE(image_analysis, '')
        FROM meals
        WHERE user_id = ? AND date = ?
        ORDER BY timestamp, id
    `

	rows, err := s.db.Query(query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query meals: %w", err)
	}
	defer rows.Close()

	var meals []*models.MealEntry
	for rows.Next() {
		entry := &models.MealEntry{}
		var timestampStr string

		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Date, &timestampStr,
			&entry.Description, &entry.Calories, &entry.Protein, &entry.Carbs,
			&entry.Fat, &entry.Fiber, &entry.SessionID, &entry.Analysis)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}

		if entry.Timestamp, err = time.Parse(time.RFC3339, timestampStr); err != nil {
			return nil, fmt.Errorf("failed to parse timestamp: %w", err)
		}

		meals = append(meals, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read meals: %w", err)
	}

	return meals, nil
}

// DailyTotals sums the nutrition columns across all meals for userID on
// date. A day with no meals yields zeros, not an error.
func (s *SQLiteStorage) DailyTotals(userID int64, date string) (models.DailyTotals, error) {
	query := `
        SELECT COALESCE(SUM(calories), 0), COALESCE(SUM(protein), 0),
               COALESCE(SUM(carbs), 0), COALESCE(SUM(fat), 0), COALESCE(SUM(fiber), 0)
        FROM meals
        WHERE user_id = ? AND date = ?
    `

	var totals models.DailyTotals
	err := s.db.QueryRow(query, userID, date).Scan(
		&totals.Calories, &totals.Protein, &totals.Carbs, &totals.Fat, &totals.Fiber)
	if err != nil {
		return models.DailyTotals{}, fmt.Errorf("failed to sum meals: %w", err)
	}

	return totals, nil
}
