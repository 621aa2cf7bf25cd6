package routes

import (
	"fmt"

	"github.com/dairymanager/dairy-api/config"
	"github.com/dairymanager/dairy-api/controllers"
	"github.com/dairymanager/dairy-api/logger"
	"github.com/dairymanager/dairy-api/middleware"
	"github.com/dairymanager/dairy-api/models"
	"github.com/dairymanager/dairy-api/services"
	"github.com/dairymanager/dairy-api/timeutil"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies are what the router needs from the process
type Dependencies struct {
	Config *config.Config
	DB     *gorm.DB
	Logger *zap.Logger
	Clock  *timeutil.Clock
	Store  services.ObjectStore // nil disables report archiving
}

// NewRouter builds the services and mounts every endpoint under /api/v1
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Clock == nil {
		clock, err := timeutil.NewClock(deps.Config.BusinessTimezone)
		if err != nil {
			return nil, err
		}
		deps.Clock = clock
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	db := deps.DB

	tokens := services.NewTokenService(deps.Config)
	ledger := services.NewLedgerService(db, log.Named("ledger"))
	reports := services.NewReportService(db, deps.Clock)
	dashboard := services.NewDashboardService(db, log.Named("dashboard"))

	health := controllers.NewHealthController(db)
	auth := controllers.NewAuthController(services.NewAuthService(db, tokens, log.Named("auth")))
	customers := controllers.NewCustomerController(
		services.NewCustomerService(db, deps.Clock, log.Named("customers")),
		services.NewRateService(db, deps.Clock, log.Named("rates")),
		ledger,
		dashboard,
		deps.Clock,
	)
	orders := controllers.NewOrderController(ledger, reports, deps.Clock)
	payments := controllers.NewPaymentController(ledger)
	expenses := controllers.NewExpenseController(services.NewExpenseService(db, log.Named("expenses")))
	reportCtl := controllers.NewReportController(reports, services.NewReportArchiver(reports, deps.Store, deps.Clock, log.Named("archive")))
	dashboardCtl := controllers.NewDashboardController(dashboard, deps.Clock)
	catalogue := controllers.NewCatalogueController(
		services.NewProductService(db, log.Named("products")),
		services.NewEmployeeService(db, log.Named("employees")),
	)

	requireAuth, err := middleware.EnsureValidToken(deps.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to build auth middleware: %w", err)
	}
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router := gin.New()
	router.Use(
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Metrics(),
		middleware.CORS(deps.Config.CORSAllowedOrigins),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", health.Health)
		v1.GET("/database/status", health.DatabaseStatus)
		v1.POST("/auth/login", auth.Login)

		api := v1.Group("", requireAuth)
		{
			api.GET("/sync", reportCtl.Sync)

			api.GET("/customers", customers.List)
			api.POST("/customers", customers.Create)
			api.GET("/customers/:id", customers.Get)
			api.PUT("/customers/:id", customers.Update)
			api.DELETE("/customers/:id", customers.Delete)
			api.POST("/customers/:id/rates", customers.UpdateRates)
			api.GET("/customers/:id/balance", customers.Balance)
			api.GET("/customers/:id/ledger", customers.Ledger)
			api.GET("/customers/:id/reconcile", adminOnly, customers.Reconcile)

			api.GET("/orders", orders.List)
			api.POST("/orders/save", orders.Save)
			api.POST("/orders/finalize", orders.Finalize)

			api.POST("/payments", payments.Create)

			api.GET("/expenses", expenses.List)
			api.POST("/expenses", expenses.Create)

			api.GET("/reports/data", reportCtl.Data)
			api.POST("/reports/archive", reportCtl.Archive)

			api.GET("/dashboard", dashboardCtl.Get)

			api.GET("/products", catalogue.ListProducts)
			api.POST("/products", adminOnly, catalogue.CreateProduct)
			api.PUT("/products/:id", adminOnly, catalogue.UpdateProduct)
			api.DELETE("/products/:id", adminOnly, catalogue.DeleteProduct)

			api.GET("/employees", catalogue.ListEmployees)
			api.POST("/employees", adminOnly, catalogue.CreateEmployee)
			api.DELETE("/employees/:id", adminOnly, catalogue.DeleteEmployee)
		}
	}

	return router, nil
}
