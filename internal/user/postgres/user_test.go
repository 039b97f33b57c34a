package postgres_test

import (
	"context"
	"testing"

	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	"github.com/frahmantamala/intern-attendance/internal/user"
	userPostgres "github.com/frahmantamala/intern-attendance/internal/user/postgres"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

func newUser(username, email, name string) *userDatamodel.User {
	return &userDatamodel.User{Username: username, PasswordHash: "hash", Role: "intern", Name: name, Email: email}
}

var _ = Describe("User Repository", func() {
	var (
		db   *gorm.DB
		repo user.RepositoryAPI
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{})).To(Succeed())

		repo = userPostgres.NewUserRepository(db)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("assigns an id and creation time", func() {
			u := newUser("alice", "alice@example.com", "Alice")
			ok, err := repo.Create(ctx, u)
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())
			Expect(u.ID).To(BeNumerically(">", 0))
			Expect(u.CreatedAt).NotTo(BeZero())
		})

		It("reports a duplicate username as false", func() {
			_, err := repo.Create(ctx, newUser("alice", "alice@example.com", "Alice"))
			Expect(err).NotTo(HaveOccurred())

			ok, err := repo.Create(ctx, newUser("alice", "other@example.com", "Other"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("reports a duplicate email as false", func() {
			_, err := repo.Create(ctx, newUser("alice", "alice@example.com", "Alice"))
			Expect(err).NotTo(HaveOccurred())

			ok, err := repo.Create(ctx, newUser("alice2", "alice@example.com", "Alice Two"))
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})

	Describe("queries", func() {
		BeforeEach(func() {
			for _, u := range []*userDatamodel.User{
				newUser("zed", "zed@example.com", "Zed"),
				newUser("amy", "amy@example.com", "Amy"),
				{Username: "admin", PasswordHash: "hash", Role: "admin", Name: "Administrator", Email: "admin@example.com"},
			} {
				_, err := repo.Create(ctx, u)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("lists by role ordered by name", func() {
			interns, err := repo.List(ctx, "intern")
			Expect(err).NotTo(HaveOccurred())
			Expect(interns).To(HaveLen(2))
			Expect(interns[0].Name).To(Equal("Amy"))

			all, err := repo.List(ctx, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(3))
		})

		It("returns nil for unknown users", func() {
			u, err := repo.GetByUsername(ctx, "ghost")
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())

			u, err = repo.GetByID(ctx, 999)
			Expect(err).NotTo(HaveOccurred())
			Expect(u).To(BeNil())
		})

		It("updates only the given profile fields", func() {
			amy, err := repo.GetByUsername(ctx, "amy")
			Expect(err).NotTo(HaveOccurred())

			ok, err := repo.UpdateProfile(ctx, amy.ID, map[string]interface{}{"department": "Finance"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeTrue())

			amy, err = repo.GetByID(ctx, amy.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(*amy.Department).To(Equal("Finance"))
			Expect(amy.Name).To(Equal("Amy"))
		})

		It("reports an email collision on update as false", func() {
			amy, err := repo.GetByUsername(ctx, "amy")
			Expect(err).NotTo(HaveOccurred())

			ok, err := repo.UpdateProfile(ctx, amy.ID, map[string]interface{}{"email": "zed@example.com"})
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})

		It("reports a password update for a missing user as false", func() {
			ok, err := repo.UpdatePassword(ctx, 999, "new")
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(BeFalse())
		})
	})
})
