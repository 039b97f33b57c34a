package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "intern-attendance",
	Short: "Intern Attendance",
	Long:  `Tracks daily intern check-ins and check-outs and reports on them.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

var defaults = map[string]interface{}{
	"http_server.port":                8080,
	"http_server.allowed_origins":     "",
	"http_server.read_header_timeout": "5s",
	"http_server.read_timeout":        "15s",
	"http_server.write_timeout":       "30s",
	"http_server.idle_timeout":        "60s",
	"http_server.request_timeout":     "10s",

	"database.driver":            "sqlite",
	"database.source":            "file:attendance.db?_foreign_keys=on",
	"database.max_open_conns":    10,
	"database.max_idle_conns":    5,
	"database.conn_max_lifetime": "30m",
	"database.auto_migrate":      true,

	"security.access_token_duration":  "15m",
	"security.refresh_token_duration": "168h",
	"security.bcrypt_cost":            10,

	"attendance.timezone":               "Asia/Kolkata",
	"attendance.work_start_time":        "09:00",
	"attendance.work_end_time":          "17:00",
	"attendance.late_threshold_minutes": 30,
	"attendance.max_report_days":        366,

	"bootstrap.enabled":        true,
	"bootstrap.admin_username": "admin",
	"bootstrap.admin_password": "admin123",
	"bootstrap.admin_name":     "Administrator",
	"bootstrap.admin_email":    "admin@example.com",

	"observability.metrics.enabled": true,
	"observability.metrics.path":    "/metrics",
	"observability.logging.level":   "info",
	"observability.logging.format":  "json",
}

// loadConfig reads config.yml from path when present, then lets .env and
// ENV_* variables override it. ENV_DATABASE_SOURCE sets database.source.
func loadConfig(path string) (*internal.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// secrets have no default but still need a key for AutomaticEnv to bind
	v.SetDefault("security.jwt_access_secret", "")
	v.SetDefault("security.jwt_refresh_secret", "")
	v.SetDefault("bootstrap.departments", []string{})

	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("ENV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg internal.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", ".", "directory containing config.yml")

	rootCmd.AddCommand(httpServerCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(userCmd)
}
