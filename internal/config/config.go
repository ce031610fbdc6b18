package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Report
		Audit
		Tasks
		Shell
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path   string
		LogSQL bool // Log every SQL statement through gorm
	}
	Report struct {
		Path            string
		OpenBrowser     bool   // Open the report after the CLI or shell writes it
		ScheduleEnabled bool   // Regenerate periodically while serving
		Schedule        string // Cron format: "0 * * * *" = hourly
	}
	Audit struct {
		Enabled       bool
		RetentionDays int // Days to keep audit events (default: 90)
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Shell struct {
		HistoryPath string
	}
)

// defaultHistoryPath puts the shell history in the user's home directory,
// or the working directory when there is no home.
func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".librarian_history"
	}
	return filepath.Join(home, ".librarian_history")
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("database_log_sql", false)

	// Report defaults
	v.SetDefault("report_path", DefaultReportPath)
	v.SetDefault("report_open_browser", true)
	v.SetDefault("report_schedule_enabled", false)
	v.SetDefault("report_schedule", DefaultReportSchedule)

	v.SetDefault("audit_enabled", true)
	v.SetDefault("audit_retention_days", 90)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "5m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("shell_history_path", defaultHistoryPath())

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path:   v.GetString("DATABASE_PATH"),
			LogSQL: v.GetBool("DATABASE_LOG_SQL"),
		},
		Report: Report{
			Path:            v.GetString("REPORT_PATH"),
			OpenBrowser:     v.GetBool("REPORT_OPEN_BROWSER"),
			ScheduleEnabled: v.GetBool("REPORT_SCHEDULE_ENABLED"),
			Schedule:        v.GetString("REPORT_SCHEDULE"),
		},
		Audit: Audit{
			Enabled:       v.GetBool("AUDIT_ENABLED"),
			RetentionDays: v.GetInt("AUDIT_RETENTION_DAYS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		Shell: Shell{
			HistoryPath: v.GetString("SHELL_HISTORY_PATH"),
		},
	}
}
