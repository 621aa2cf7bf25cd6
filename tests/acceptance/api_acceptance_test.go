package acceptance

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/routes"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

// APIAcceptanceTestSuite exercises the API the way the mobile client does, over real HTTP
type APIAcceptanceTestSuite struct {
	suite.Suite
	server *httptest.Server
	token  string
}

// SetupTest starts a server with one provisioned tenant
func (suite *APIAcceptanceTestSuite) SetupTest() {
	suite.server = nil
	suite.token = ""
	gin.SetMode(gin.TestMode)
	testutil.RequireTestEnvironment(suite.T())

	cfg := testutil.TestConfig()
	db := testutil.NewTestDB(suite.T())
	router, err := routes.NewRouter(routes.Dependencies{Config: cfg, DB: db, Logger: zap.NewNop()})
	suite.Require().NoError(err)
	suite.server = httptest.NewServer(router)

	auth := services.NewAuthService(db, services.NewTokenService(cfg), zap.NewNop())
	_, err = auth.CreateTenant(context.Background(), "sunrise", "Sunrise Dairy", "owner", "owner-pass")
	suite.Require().NoError(err)

	resp, body := suite.call(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"tenant": "sunrise", "username": "owner", "password": "owner-pass",
	})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	suite.token = "Bearer " + body["data"].(map[string]interface{})["token"].(string)
}

// TearDownTest stops the server
func (suite *APIAcceptanceTestSuite) TearDownTest() {
	if suite.server != nil {
		suite.server.Close()
		suite.server = nil
	}
}

func (suite *APIAcceptanceTestSuite) call(method, path string, payload interface{}) (*http.Response, map[string]interface{}) {
	var buf bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(payload))
	}
	req, err := http.NewRequest(method, suite.server.URL+path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if suite.token != "" {
		req.Header.Set("Authorization", suite.token)
	}

	resp, err := http.DefaultClient.Do(req)
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var body map[string]interface{}
	suite.Require().NoError(json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func (suite *APIAcceptanceTestSuite) TestSyncReturnsSeededCatalogue() {
	resp, body := suite.call(http.MethodGet, "/api/v1/sync", nil)

	suite.Equal(http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	suite.Len(data["products"], 25)
	suite.Empty(data["customers"])
}

// TestCustomRateRepricesTodaysDraft covers an agent changing a rate mid-round
func (suite *APIAcceptanceTestSuite) TestCustomRateRepricesTodaysDraft() {
	_, body := suite.call(http.MethodPost, "/api/v1/customers", map[string]interface{}{"name": "Ravi", "phone": "9822222222"})
	customer := body["data"].(map[string]interface{})
	id := customer["id"].(string)

	_, body = suite.call(http.MethodGet, "/api/v1/products", nil)
	product := body["data"].([]interface{})[0].(map[string]interface{})

	_, today := suite.call(http.MethodGet, "/api/v1/dashboard", nil)
	date := today["data"].(map[string]interface{})["date"].(string)

	resp, _ := suite.call(http.MethodPost, "/api/v1/orders/save", map[string]interface{}{
		"date": date,
		"orders": []map[string]interface{}{{
			"customerId": id,
			"status":     models.OrderDraft,
			"items": []map[string]interface{}{{
				"productId": product["id"], "name": product["name"], "quantity": 2, "price": product["price"],
			}},
		}},
	})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)

	resp, body = suite.call(http.MethodPost, "/api/v1/customers/"+id+"/rates", map[string]interface{}{
		"rates": map[string]float64{product["id"].(string): 18},
		"scope": services.RateScopeToday,
	})
	suite.Require().Equal(http.StatusOK, resp.StatusCode)
	result := body["data"].(map[string]interface{})
	suite.True(result["draft_updated"].(bool))

	_, body = suite.call(http.MethodGet, "/api/v1/orders?date="+date, nil)
	orders := body["data"].([]interface{})
	suite.Require().Len(orders, 1)
	suite.Equal(36.0, orders[0].(map[string]interface{})["total"])
}

func TestTearDownWithoutServer(t *testing.T) {
	s := new(APIAcceptanceTestSuite)
	s.TearDownTest()
}

// TestAPIAcceptanceTestSuite runs the suite
func TestAPIAcceptanceTestSuite(t *testing.T) {
	suite.Run(t, new(APIAcceptanceTestSuite))
}
