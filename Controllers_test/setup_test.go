package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yeremiapane/reservation-app/middlewares"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validators"
)

const testSecret = "controllers-test-secret"

// Monday 2035-01-01 12:00 UTC. 2035-01-02 is a Tuesday, 2035-01-03 a Wednesday.
var fixedNow = time.Date(2035, time.January, 1, 12, 0, 0, 0, time.UTC)

func init() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT(testSecret, time.Hour)
}

// setupTestDB opens a private in-memory database for the test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Reservation{}, &models.Table{}, &models.Staff{}))
	return db
}

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupRouterWith(t, router.Options{
		StaffLimiter: middlewares.NewLocalLimiter(rate.Inf, 1),
	})
}

// setupRouterWith fills the business rules and origins the tests share into opts.
func setupRouterWith(t *testing.T, opts router.Options) (*gin.Engine, *gorm.DB) {
	db := setupTestDB(t)
	rules := validators.DefaultRules()
	rules.Now = func() time.Time { return fixedNow }
	opts.Rules = rules
	opts.StrictStatusTransitions = true
	opts.AllowedOrigins = []string{"*"}
	return router.SetupRouter(db, opts), db
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func doRequest(t *testing.T, r http.Handler, method, url string, payload interface{}, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func decode(t *testing.T, raw json.RawMessage, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, v), string(raw))
}

func data(v interface{}) map[string]interface{} {
	return map[string]interface{}{"data": v}
}

func reservationPayload(people int, date, at string) map[string]interface{} {
	return data(map[string]interface{}{
		"first_name":       "Ada",
		"last_name":        "Lovelace",
		"mobile_number":    "555-0101",
		"people":           people,
		"reservation_date": date,
		"reservation_time": at,
	})
}

func createReservation(t *testing.T, r http.Handler, people int, at string) models.Reservation {
	t.Helper()
	w, env := doRequest(t, r, http.MethodPost, "/reservations", reservationPayload(people, "2035-01-03", at))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res models.Reservation
	decode(t, env.Data, &res)
	return res
}

func createTable(t *testing.T, r http.Handler, name string, capacity int) models.Table {
	t.Helper()
	w, env := doRequest(t, r, http.MethodPost, "/tables", data(map[string]interface{}{"table_name": name, "capacity": capacity}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var table models.Table
	decode(t, env.Data, &table)
	return table
}
