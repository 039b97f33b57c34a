package postgres_test

import (
	"context"
	"testing"

	"github.com/frahmantamala/intern-attendance/db/migrations"
	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/auth"
	authPostgres "github.com/frahmantamala/intern-attendance/internal/auth/postgres"
	"github.com/frahmantamala/intern-attendance/internal/core/common/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

func TestAuthPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Postgres Suite")
}

var _ = Describe("Auth Repository", func() {
	var (
		db   *gorm.DB
		repo auth.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = database.Open(internal.DatabaseConfig{Driver: database.DriverSQLite, Source: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1}, nil)
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(sqlDB.Close)
		Expect(migrations.Up(ctx, sqlDB, database.DriverSQLite)).To(Succeed())

		Expect(db.Exec(`INSERT INTO users (username, password_hash, role, name, email)
			VALUES ('alice', 'hash-a', 'intern', 'Alice', 'alice@example.com')`).Error).To(Succeed())

		repo = authPostgres.NewRepository(db)
	})

	It("loads credentials by username", func() {
		creds, err := repo.GetCredentials(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())
		Expect(creds).NotTo(BeNil())
		Expect(creds.PasswordHash).To(Equal("hash-a"))
		Expect(creds.Role).To(Equal(internal.RoleIntern))
	})

	It("returns nil for unknown usernames", func() {
		creds, err := repo.GetCredentials(ctx, "mallory")
		Expect(err).NotTo(HaveOccurred())
		Expect(creds).To(BeNil())
	})

	It("loads principals by id", func() {
		creds, err := repo.GetCredentials(ctx, "alice")
		Expect(err).NotTo(HaveOccurred())

		p, err := repo.GetPrincipal(ctx, creds.UserID)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Username).To(Equal("alice"))

		p, err = repo.GetPrincipal(ctx, creds.UserID+100)
		Expect(err).NotTo(HaveOccurred())
		Expect(p).To(BeNil())
	})
})
