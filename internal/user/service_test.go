package user_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/frahmantamala/intern-attendance/internal"
	userDatamodel "github.com/frahmantamala/intern-attendance/internal/core/datamodel/user"
	"github.com/frahmantamala/intern-attendance/internal/core/events"
	"github.com/frahmantamala/intern-attendance/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUser(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Suite")
}

type mockUserRepository struct {
	users      map[int64]*userDatamodel.User
	nextID     int64
	shouldFail bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[int64]*userDatamodel.User{}}
}

func (m *mockUserRepository) Create(_ context.Context, u *userDatamodel.User) (bool, error) {
	if m.shouldFail {
		return false, errors.New("database error")
	}
	for _, existing := range m.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return false, nil
		}
	}
	m.nextID++
	u.ID = m.nextID
	cp := *u
	m.users[u.ID] = &cp
	return true, nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id int64) (*userDatamodel.User, error) {
	if m.shouldFail {
		return nil, errors.New("database error")
	}
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockUserRepository) GetByUsername(_ context.Context, username string) (*userDatamodel.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepository) List(_ context.Context, role string) ([]*userDatamodel.User, error) {
	var out []*userDatamodel.User
	for _, u := range m.users {
		if role == "" || u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) UpdateProfile(_ context.Context, id int64, fields map[string]interface{}) (bool, error) {
	u := m.users[id]
	if email, ok := fields["email"].(string); ok {
		for otherID, other := range m.users {
			if otherID != id && other.Email == email {
				return false, nil
			}
		}
		u.Email = email
	}
	if name, ok := fields["name"].(string); ok {
		u.Name = name
	}
	if dept, ok := fields["department"].(string); ok {
		u.Department = &dept
	}
	return true, nil
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id int64, hash string) (bool, error) {
	u, ok := m.users[id]
	if !ok {
		return false, nil
	}
	u.PasswordHash = hash
	return true, nil
}

type plainHasher struct{}

func (plainHasher) HashPassword(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) VerifyPassword(hash, p string) error {
	if hash != "hashed:"+p {
		return errors.New("mismatch")
	}
	return nil
}

var _ = Describe("User Service", func() {
	var (
		repo    *mockUserRepository
		bus     *events.EventBus
		service *user.Service
		ctx     context.Context
	)

	validDTO := func() user.CreateUserDTO {
		return user.CreateUserDTO{
			Username:   "alice",
			Password:   "secret123",
			Name:       "Alice",
			Email:      "alice@example.com",
			Department: "IT",
		}
	}

	BeforeEach(func() {
		repo = newMockUserRepository()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		bus = events.NewEventBus(slogger)
		service = user.NewService(repo, plainHasher{}, bus, slogger)
		ctx = context.Background()
	})

	Describe("Create", func() {
		It("hashes the password and defaults the role to intern", func() {
			u, err := service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Role).To(Equal(internal.RoleIntern))
			Expect(u.PasswordHash).To(Equal("hashed:secret123"))
			Expect(u.Department).To(Equal("IT"))
		})

		It("announces the new account", func() {
			var got []events.UserCreatedEvent
			bus.Subscribe(events.EventTypeUserCreated, func(_ context.Context, e events.Event) error {
				got = append(got, e.(events.UserCreatedEvent))
				return nil
			})

			u, err := service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(HaveLen(1))
			Expect(got[0].UserID).To(Equal(u.ID))
			Expect(got[0].Role).To(Equal(internal.RoleIntern))
		})

		It("maps a duplicate to ErrUserExists", func() {
			_, err := service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())

			_, err = service.Create(ctx, validDTO())
			Expect(errors.Is(err, internal.ErrUserExists)).To(BeTrue())
		})

		It("collects validation failures", func() {
			dto := validDTO()
			dto.Email = "not-an-email"
			dto.Password = "123"
			dto.Role = "superuser"

			_, err := service.Create(ctx, dto)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors).To(HaveLen(3))
		})
	})

	Describe("UpdateProfile", func() {
		var alice *user.User

		BeforeEach(func() {
			var err error
			alice, err = service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("ignores empty fields", func() {
			u, err := service.UpdateProfile(ctx, alice.ID, user.UpdateUserDTO{Department: "HR"})
			Expect(err).NotTo(HaveOccurred())
			Expect(u.Department).To(Equal("HR"))
			Expect(u.Name).To(Equal("Alice"))
			Expect(u.Email).To(Equal("alice@example.com"))
		})

		It("fails when nothing is supplied", func() {
			_, err := service.UpdateProfile(ctx, alice.ID, user.UpdateUserDTO{})
			Expect(errors.Is(err, internal.ErrNothingToUpdate)).To(BeTrue())
		})

		It("fails for unknown users", func() {
			_, err := service.UpdateProfile(ctx, 42, user.UpdateUserDTO{Name: "Ghost"})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})

	Describe("passwords", func() {
		var alice *user.User

		BeforeEach(func() {
			var err error
			alice, err = service.Create(ctx, validDTO())
			Expect(err).NotTo(HaveOccurred())
		})

		It("resets without the old password", func() {
			Expect(service.ChangePassword(ctx, alice.ID, "newpass1")).To(Succeed())
			Expect(repo.users[alice.ID].PasswordHash).To(Equal("hashed:newpass1"))
		})

		It("requires the current password for self-service changes", func() {
			err := service.ChangeOwnPassword(ctx, alice.ID, "wrong", "newpass1")
			Expect(errors.Is(err, internal.ErrInvalidCredentials)).To(BeTrue())

			Expect(service.ChangeOwnPassword(ctx, alice.ID, "secret123", "newpass1")).To(Succeed())
		})

		It("reports unknown users", func() {
			err := service.ChangePassword(ctx, 42, "newpass1")
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})
	})
})
