package bootstrap_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/bootstrap"
	departmentDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestBootstrap(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Bootstrap Suite")
}

type bcryptHasher struct{}

func (bcryptHasher) HashPassword(p string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(p), bcrypt.MinCost)
	return string(h), err
}

var _ = Describe("Seeder", func() {
	var (
		db     *gorm.DB
		seeder *bootstrap.Seeder
		ctx    context.Context
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
		Expect(db.AutoMigrate(&userDatamodel.User{}, &departmentDatamodel.Department{})).To(Succeed())

		seeder = bootstrap.NewSeeder(db, bcryptHasher{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
		ctx = context.Background()
	})

	It("fills stock defaults", func() {
		cfg := bootstrap.FromConfig(internal.BootstrapConfig{Enabled: true, AdminUsername: "root"})
		Expect(cfg.AdminUsername).To(Equal("root"))
		Expect(cfg.AdminPassword).To(Equal("admin123"))
		Expect(cfg.AdminEmail).To(Equal("admin@example.com"))
		Expect(cfg.Departments).To(Equal(bootstrap.DefaultDepartments))
	})

	It("creates the admin and departments once", func() {
		cfg := bootstrap.FromConfig(internal.BootstrapConfig{})

		res, err := seeder.Seed(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.AdminCreated).To(BeTrue())
		Expect(res.DepartmentsCreated).To(Equal([]string{"IT", "HR", "Finance", "Marketing", "Operations"}))

		res, err = seeder.Seed(ctx, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.AdminCreated).To(BeFalse())
		Expect(res.DepartmentsCreated).To(BeEmpty())

		var users []userDatamodel.User
		Expect(db.Find(&users).Error).To(Succeed())
		Expect(users).To(HaveLen(1))
		Expect(users[0].Role).To(Equal(internal.RoleAdmin))
		Expect(bcrypt.CompareHashAndPassword([]byte(users[0].PasswordHash), []byte("admin123"))).To(Succeed())

		var count int64
		Expect(db.Model(&departmentDatamodel.Department{}).Count(&count).Error).To(Succeed())
		Expect(count).To(Equal(int64(5)))
	})

	It("adds only the missing departments", func() {
		Expect(db.Create(&departmentDatamodel.Department{Name: "HR"}).Error).To(Succeed())

		res, err := seeder.Seed(ctx, bootstrap.SeedConfig{
			AdminUsername: "admin", AdminPassword: "secret1", AdminName: "Admin", AdminEmail: "a@example.com",
			Departments: []string{"HR", " Legal ", ""},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.DepartmentsCreated).To(Equal([]string{"Legal"}))
	})
})
