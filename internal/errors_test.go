package internal_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/frahmantamala/intern-attendance/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("AppError", func() {
	It("is found through wrapping", func() {
		err := fmt.Errorf("check out: %w", internal.ErrCheckInRequired)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(http.StatusConflict))
		Expect(errors.Is(err, internal.ErrCheckInRequired)).To(BeTrue())
	})

	It("does not treat plain errors as app errors", func() {
		_, ok := internal.IsAppError(errors.New("disk full"))
		Expect(ok).To(BeFalse())
	})

	It("hides the cause from the wire format", func() {
		appErr := internal.NewInternalError("Internal server error", errors.New("connection refused"))
		raw, err := json.Marshal(appErr)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).NotTo(ContainSubstring("connection refused"))
		Expect(errors.Unwrap(appErr)).To(MatchError("connection refused"))
	})

	It("joins field messages", func() {
		appErr := internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
			WithDetails(internal.ValidationErrors{Errors: []internal.ValidationError{
				{Field: "date", Message: "date must be a date in YYYY-MM-DD format"},
				{Field: "time", Message: "time must be a time in HH:MM or HH:MM:SS format"},
			}})
		Expect(appErr.GetDetailedMessage()).To(Equal("date must be a date in YYYY-MM-DD format; time must be a time in HH:MM or HH:MM:SS format"))
		Expect(appErr.Error()).To(Equal("date must be a date in YYYY-MM-DD format"))
	})
})
