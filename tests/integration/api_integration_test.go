package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dairymanager/dairy-api/config"
	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/routes"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/tests/testutil"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// APIIntegrationTestSuite drives the full router with real tokens against SQLite
type APIIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	store  *services.MockObjectStore
	admin  string
	staff  string
}

// SetupSuite runs once before all tests
func (suite *APIIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	testutil.RequireTestEnvironment(suite.T())
	suite.cfg = testutil.TestConfig()
}

// SetupTest gives every test a fresh database, tenant and logins
func (suite *APIIntegrationTestSuite) SetupTest() {
	suite.db = testutil.NewTestDB(suite.T())
	suite.store = services.NewMockObjectStore()

	loc := time.FixedZone("IST", 5*60*60+30*60)
	router, err := routes.NewRouter(routes.Dependencies{
		Config: suite.cfg,
		DB:     suite.db,
		Logger: zap.NewNop(),
		Clock:  timeutil.FixedClock(time.Date(2024, time.January, 15, 8, 0, 0, 0, loc)),
		Store:  suite.store,
	})
	suite.Require().NoError(err)
	suite.router = router

	auth := services.NewAuthService(suite.db, services.NewTokenService(suite.cfg), zap.NewNop())
	ctx := context.Background()
	_, err = auth.CreateTenant(ctx, "sunrise", "Sunrise Dairy", "owner", "owner-pass")
	suite.Require().NoError(err)
	_, err = auth.CreateUser(ctx, "sunrise", "driver", "driver-pass", models.RoleStaff)
	suite.Require().NoError(err)

	suite.admin = suite.login("owner", "owner-pass")
	suite.staff = suite.login("driver", "driver-pass")
}

func (suite *APIIntegrationTestSuite) login(username, password string) string {
	w := suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"tenant": "sunrise", "username": username, "password": password,
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	data := suite.decode(w)["data"].(map[string]interface{})
	return "Bearer " + data["token"].(string)
}

func (suite *APIIntegrationTestSuite) request(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APIIntegrationTestSuite) decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func (suite *APIIntegrationTestSuite) createCustomer(name, phone string, dues float64) string {
	w := suite.request(http.MethodPost, "/api/v1/customers", suite.staff, map[string]interface{}{
		"name": name, "phone": phone, "dues": dues,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	return suite.decode(w)["data"].(map[string]interface{})["id"].(string)
}

func (suite *APIIntegrationTestSuite) TestHealth() {
	w := suite.request(http.MethodGet, "/api/v1/health", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.True(suite.decode(w)["success"].(bool))
}

func (suite *APIIntegrationTestSuite) TestDatabaseStatus() {
	w := suite.request(http.MethodGet, "/api/v1/database/status", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(suite.decode(w)["tables"], "ledger_entries")
}

func (suite *APIIntegrationTestSuite) TestLogin_WrongPassword() {
	w := suite.request(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"tenant": "sunrise", "username": "owner", "password": "nope",
	})

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "INVALID_CREDENTIALS")
}

func (suite *APIIntegrationTestSuite) TestProtectedRoutesNeedToken() {
	w := suite.request(http.MethodGet, "/api/v1/customers", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "INVALID_TOKEN")

	w = suite.request(http.MethodGet, "/api/v1/customers", "Bearer not-a-token", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APIIntegrationTestSuite) TestAdminOnlyRoutes() {
	body := map[string]interface{}{"name": "Lassi", "price": 25}

	w := suite.request(http.MethodPost, "/api/v1/products", suite.staff, body)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Contains(w.Body.String(), "INSUFFICIENT_ROLE")

	w = suite.request(http.MethodPost, "/api/v1/products", suite.admin, body)
	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	suite.Equal("p26", suite.decode(w)["data"].(map[string]interface{})["code"])
}

func (suite *APIIntegrationTestSuite) TestStaffCannotSetDues() {
	id := suite.createCustomer("Ravi", "9811111111", 100)

	w := suite.request(http.MethodPut, "/api/v1/customers/"+id, suite.staff, map[string]interface{}{
		"name": "Ravi", "phone": "9811111111", "dues": 0,
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(100.0, testutil.Dues(suite.T(), suite.db, id))
}

// TestDailyCycle saves drafts, finalizes the day, collects a payment and reads the dashboard
func (suite *APIIntegrationTestSuite) TestDailyCycle() {
	id := suite.createCustomer("Ravi", "9811111111", 100)

	w := suite.request(http.MethodPost, "/api/v1/orders/save", suite.staff, map[string]interface{}{
		"date": "2024-01-15",
		"orders": []map[string]interface{}{{
			"customerId": id,
			"status":     models.OrderDraft,
			"items":      []map[string]interface{}{{"name": "FCM 1L", "quantity": 2, "price": 70}},
		}},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(100.0, testutil.Dues(suite.T(), suite.db, id))

	w = suite.request(http.MethodPost, "/api/v1/orders/finalize", suite.staff, map[string]interface{}{"date": "2024-01-15"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(240.0, testutil.Dues(suite.T(), suite.db, id))

	w = suite.request(http.MethodPost, "/api/v1/payments", suite.staff, map[string]interface{}{
		"customerId": id, "amount": 40, "date": "2024-01-15",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.request(http.MethodGet, "/api/v1/dashboard?date=2024-01-15", suite.staff, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	data := suite.decode(w)["data"].(map[string]interface{})
	suite.Equal(140.0, data["revenue_today"])
	suite.Equal(140.0, data["revenue_finalized"])
	suite.Equal(40.0, data["collection_today"])
	suite.Equal(200.0, data["total_dues"])
	suite.Equal(100.0, data["opening_balance"])
	suite.Equal(100.0, data["revenue_pct_change"])

	w = suite.request(http.MethodGet, "/api/v1/customers/"+id+"/reconcile", suite.admin, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal(0.0, suite.decode(w)["data"].(map[string]interface{})["drift"])
}

func (suite *APIIntegrationTestSuite) TestReportArchive() {
	w := suite.request(http.MethodPost, "/api/v1/reports/archive?start=2024-01-01&end=2024-01-31", suite.admin, nil)

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	key := suite.decode(w)["data"].(map[string]interface{})["key"].(string)
	suite.True(strings.HasPrefix(key, "reports/"))
	suite.Equal("application/json", suite.store.ContentType(key))
}

func (suite *APIIntegrationTestSuite) TestMetricsEndpoint() {
	suite.request(http.MethodGet, "/api/v1/health", "", nil)

	w := suite.request(http.MethodGet, "/metrics", "", nil)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "dairy_http_requests_total")
}

// TestAPIIntegrationTestSuite runs the suite
func TestAPIIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(APIIntegrationTestSuite))
}
