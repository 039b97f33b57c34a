package rest

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/frahmantamala/intern-attendance/internal"
	"github.com/frahmantamala/intern-attendance/internal/core/common/database"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRest(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rest Suite")
}

var _ = Describe("HealthHandler", func() {
	var sqlDB *sql.DB

	BeforeEach(func() {
		db, err := database.Open(internal.DatabaseConfig{Driver: database.DriverSQLite, Source: ":memory:", MaxOpenConns: 1, MaxIdleConns: 1}, nil)
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err = db.DB()
		Expect(err).NotTo(HaveOccurred())
	})

	check := func(h *HealthHandler) (int, HealthResponse) {
		rec := httptest.NewRecorder()
		h.healthCheckHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		var resp HealthResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		return rec.Code, resp
	}

	It("reports the database under the driver name", func() {
		code, resp := check(NewHealthHandler(sqlDB, "sqlite"))
		Expect(code).To(Equal(http.StatusOK))
		Expect(resp.Status).To(Equal(HealthHealthy))
		Expect(resp.Components).To(HaveKey("sqlite"))
		Expect(resp.Components["sqlite"].Details).To(HaveKeyWithValue("max_open", BeNumerically("==", 1)))
	})

	It("turns unavailable once the pool is closed", func() {
		Expect(sqlDB.Close()).To(Succeed())

		code, resp := check(NewHealthHandler(sqlDB, ""))
		Expect(code).To(Equal(http.StatusServiceUnavailable))
		Expect(resp.Components["database"].Status).To(Equal(HealthUnhealthy))
		Expect(resp.Components["database"].Message).NotTo(BeEmpty())
	})

	It("answers liveness without touching the database", func() {
		rec := httptest.NewRecorder()
		NewHealthHandler(nil, "").pingHandler(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"OK"`))
	})
})
