package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Database.Path != "./notioncal.db" {
			t.Errorf("expected database path ./notioncal.db, got %s", config.Database.Path)
		}

		if config.Notion.TitleProperty != "Task name" {
			t.Errorf("expected title property 'Task name', got %s", config.Notion.TitleProperty)
		}

		if config.Exporters.AppleCalendar.CalendarName != "Notion Tasks" {
			t.Errorf("expected calendar name 'Notion Tasks', got %s", config.Exporters.AppleCalendar.CalendarName)
		}

		if !config.Exporters.AppleCalendar.SkipCompleted {
			t.Error("expected skip_completed to default to true")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[notion]
token = "secret_test_token"
database_id = "abc123"
title_property = "Name"

[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[cache]
dir = "/tmp/notioncal-cache"

[exporters.apple_calendar]
calendar_name = "Work"
account_name = "iCloud"
event_prefix = ""
skip_completed = false
done_statuses = ["Done", "Archived"]
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Notion.Token != "secret_test_token" {
			t.Errorf("expected token secret_test_token, got %s", config.Notion.Token)
		}
		if config.Notion.DatabaseID != "abc123" {
			t.Errorf("expected database_id abc123, got %s", config.Notion.DatabaseID)
		}
		if config.Cache.Dir != "/tmp/notioncal-cache" {
			t.Errorf("expected cache dir /tmp/notioncal-cache, got %s", config.Cache.Dir)
		}
		if config.Exporters.AppleCalendar.SkipCompleted {
			t.Error("expected skip_completed false")
		}
		if len(config.Exporters.AppleCalendar.DoneStatuses) != 2 {
			t.Errorf("expected 2 done statuses, got %d", len(config.Exporters.AppleCalendar.DoneStatuses))
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected error for missing config file")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		config := &Config{}
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials, got %v", err)
		}

		config.Notion.Token = "tok"
		if err := config.Validate(); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("expected ErrMissingCredentials for missing database_id, got %v", err)
		}

		config.Notion.DatabaseID = "db"
		if err := config.Validate(); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("ResolveConfig explicit path", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "custom.toml")
		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config: %v", err)
		}

		config, path, err := ResolveConfig(configPath)
		if err != nil {
			t.Fatalf("failed to resolve config: %v", err)
		}
		if path != configPath {
			t.Errorf("expected path %s, got %s", configPath, path)
		}
		if config == nil {
			t.Fatal("expected a config")
		}
	})
}
