package internal_test

import (
	"testing"
	"time"

	"github.com/frahmantamala/intern-attendance/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestInternal(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Internal Suite")
}

func validConfig() *internal.Config {
	return &internal.Config{
		Server: internal.ServerConfig{
			Port:              8080,
			AllowedOrigins:    "http://localhost:3000, https://hr.example.com",
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
		},
		Database: internal.DatabaseConfig{
			Driver:       "sqlite",
			Source:       ":memory:",
			MaxOpenConns: 4,
			MaxIdleConns: 2,
		},
		Security: internal.SecurityConfig{
			JWTAccessSecret:      "0123456789abcdef0123456789abcdef",
			JWTRefreshSecret:     "fedcba9876543210fedcba9876543210",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
			BCryptCost:           10,
		},
		Attendance: internal.AttendanceConfig{
			Timezone:             "Asia/Kolkata",
			WorkStartTime:        "09:00",
			WorkEndTime:          "17:00",
			LateThresholdMinutes: 30,
			MaxReportDays:        366,
		},
		Observability: internal.ObservabilityConfig{
			Logging: internal.LoggingConfig{Level: "info", Format: "json"},
		},
	}
}

var _ = Describe("Config", func() {
	It("accepts a complete configuration", func() {
		Expect(validConfig().Validate()).To(Succeed())
	})

	It("splits allowed origins", func() {
		Expect(validConfig().Server.Origins()).To(Equal([]string{"http://localhost:3000", "https://hr.example.com"}))
	})

	It("rejects short jwt secrets and unknown drivers", func() {
		cfg := validConfig()
		cfg.Security.JWTAccessSecret = "short"
		cfg.Database.Driver = "mysql"

		err := cfg.Validate()
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("JWTAccessSecret"))
		Expect(err.Error()).To(ContainSubstring("Driver"))
	})

	It("rejects an unknown timezone", func() {
		cfg := validConfig()
		cfg.Attendance.Timezone = "Mars/Olympus"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("unknown timezone")))
	})

	It("requires the work day to end after it starts", func() {
		cfg := validConfig()
		cfg.Attendance.WorkEndTime = "08:00"
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("work_end_time must be after work_start_time")))
	})

	It("requires a bounded report range", func() {
		cfg := validConfig()
		cfg.Attendance.MaxReportDays = 0
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("MaxReportDays")))
	})

	It("rejects more idle than open connections", func() {
		cfg := validConfig()
		cfg.Database.MaxIdleConns = 10
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("max_idle_conns")))
	})

	It("needs admin credentials when bootstrapping", func() {
		cfg := validConfig()
		cfg.Bootstrap.Enabled = true
		Expect(cfg.Validate()).To(MatchError(ContainSubstring("AdminUsername")))

		cfg.Bootstrap.AdminUsername = "admin"
		cfg.Bootstrap.AdminPassword = "admin123"
		Expect(cfg.Validate()).To(Succeed())
	})
})
