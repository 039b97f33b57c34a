package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/auth"
	"github.com/frahmantamala/intern-attendance/internal/user"
	userPostgres "github.com/frahmantamala/intern-attendance/internal/user/postgres"
	"github.com/frahmantamala/intern-attendance/pkg/logger"
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts from the command line",
}

var newUser user.CreateUserDTO

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an intern or admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		hasher := auth.NewService(nil, nil, cfg.Security.BCryptCost, lg)
		svc := user.NewService(userPostgres.NewUserRepository(db), hasher, nil, lg)
		u, err := svc.Create(ctx, newUser)
		if err != nil {
			if appErr, ok := internal.IsAppError(err); ok {
				return errors.New(appErr.GetDetailedMessage())
			}
			return err
		}
		fmt.Printf("Created %s %q with id %d\n", u.Role, u.Username, u.ID)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&newUser.Username, "username", "", "login name")
	f.StringVar(&newUser.Password, "password", "", "initial password")
	f.StringVar(&newUser.Name, "name", "", "display name")
	f.StringVar(&newUser.Email, "email", "", "email address")
	f.StringVar(&newUser.Role, "role", internal.RoleIntern, "intern or admin")
	f.StringVar(&newUser.Department, "department", "", "department name")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
}
