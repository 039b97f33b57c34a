package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/frahmantamala/intern-attendance/internal/auth"
	"github.com/frahmantamala/intern-attendance/internal/bootstrap"
	"github.com/frahmantamala/intern-attendance/pkg/logger"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the administrator account and default departments",
	Long:  `Seed the administrator account and the default departments. Rows that already exist are left untouched.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		logger.Init(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
		lg := logger.LoggerWrapper()

		db, err := openDB(ctx, cfg, lg)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		// hashing only, no tokens are issued
		hasher := auth.NewService(nil, nil, cfg.Security.BCryptCost, lg)
		res, err := bootstrap.NewSeeder(db, hasher, lg).Seed(ctx, bootstrap.FromConfig(cfg.Bootstrap))
		if err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		if res.AdminCreated {
			fmt.Println("Seeded admin user:", bootstrap.FromConfig(cfg.Bootstrap).AdminUsername)
		} else {
			fmt.Println("admin user already exists")
		}
		if len(res.DepartmentsCreated) > 0 {
			fmt.Println("Seeded departments:", strings.Join(res.DepartmentsCreated, ", "))
		}
	},
}
