// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setRequiredEnv fills the three required variables and blanks the
// optional overrides so ambient environment can't leak into a test.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("AUTHORIZED_USER_ID", "42")
	t.Setenv("NUTRITION_DB_PATH", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("BOT_TIMEZONE", "")
	t.Setenv("HEALTH_ADDR", "")
}

func missingFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nope.yaml")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(missingFile(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "nutrition_data.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.ClarifyRounds != 3 {
		t.Errorf("ClarifyRounds = %d, want 3", cfg.ClarifyRounds)
	}
	if cfg.RefineWindow != 10*time.Minute {
		t.Errorf("RefineWindow = %v, want 10m", cfg.RefineWindow)
	}
	if cfg.AuthorizedUserID != 42 {
		t.Errorf("AuthorizedUserID = %d, want 42", cfg.AuthorizedUserID)
	}
	if cfg.TelegramToken != "test-token" || cfg.GeminiAPIKey != "test-key" {
		t.Errorf("credentials not picked up: %+v", cfg)
	}
}

func TestLoadMissingCredentials(t *testing.T) {
	for _, name := range []string{"TELEGRAM_TOKEN", "GEMINI_API_KEY", "AUTHORIZED_USER_ID"} {
		t.Run(name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(name, "")

			if _, err := Load(missingFile(t)); err == nil {
				t.Fatalf("Load with %s unset succeeded, want error", name)
			}
		})
	}
}

func TestLoadRejectsBadUserID(t *testing.T) {
	for _, bad := range []string{"abc", "-5", "0"} {
		t.Run(bad, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv("AUTHORIZED_USER_ID", bad)

			if _, err := Load(missingFile(t)); err == nil {
				t.Fatalf("Load with AUTHORIZED_USER_ID=%q succeeded, want error", bad)
			}
		})
	}
}

func TestLoadFileOverlay(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "nutrition-bot.yaml")
	content := `db_path: /tmp/custom.db
model: gemini-1.5-pro
timezone: Europe/Berlin
clarification_rounds: 5
refine_window_minutes: 20
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DBPath != "/tmp/custom.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.Timezone != "Europe/Berlin" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.ClarifyRounds != 5 {
		t.Errorf("ClarifyRounds = %d", cfg.ClarifyRounds)
	}
	if cfg.RefineWindow != 20*time.Minute {
		t.Errorf("RefineWindow = %v", cfg.RefineWindow)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("GEMINI_MODEL", "gemini-from-env")

	path := filepath.Join(t.TempDir(), "nutrition-bot.yaml")
	if err := os.WriteFile(path, []byte("model: gemini-from-file\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Model != "gemini-from-env" {
		t.Errorf("Model = %q, want env value", cfg.Model)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "nutrition-bot.yaml")
	if err := os.WriteFile(path, []byte("model: [unclosed\n"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("Load on malformed YAML succeeded, want error")
	}
}

func TestLoadLocalSkipsCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := LoadLocal(missingFile(t))
	if err != nil {
		t.Fatalf("LoadLocal failed: %v", err)
	}
	if cfg.AuthorizedUserID != 42 {
		t.Errorf("AuthorizedUserID = %d, want 42", cfg.AuthorizedUserID)
	}

	// The full Load still insists on the credentials.
	if _, err := Load(missingFile(t)); err == nil {
		t.Fatal("Load without credentials succeeded, want error")
	}
}

func TestLocation(t *testing.T) {
	cfg := Default()
	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location with empty timezone failed: %v", err)
	}
	if loc != time.Local {
		t.Errorf("Location = %v, want time.Local", loc)
	}

	cfg.Timezone = "UTC"
	loc, err = cfg.Location()
	if err != nil {
		t.Fatalf("Location(UTC) failed: %v", err)
	}
	if loc.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", loc)
	}

	cfg.Timezone = "Not/AZone"
	if _, err := cfg.Location(); err == nil {
		t.Error("Location with bogus timezone succeeded, want error")
	}
}
