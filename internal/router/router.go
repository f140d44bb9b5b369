package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "gstledger/docs"
	"gstledger/internal/config"
	"gstledger/internal/handler"
	"gstledger/internal/middleware"
	"gstledger/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	authSvc service.AuthService,
	authH *handler.AuthHandler,
	companyH *handler.CompanyHandler,
	partyH *handler.PartyHandler,
	itemH *handler.ItemHandler,
	billH *handler.BillHandler,
	paymentH *handler.PaymentHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	// Company profile
	protected.GET("/company", companyH.Get)
	protected.PUT("/company", companyH.Update)

	// Parties
	parties := protected.Group("/parties")
	parties.POST("", partyH.Create)
	parties.GET("", partyH.List)
	parties.GET("/:id", partyH.GetByID)
	parties.PUT("/:id", partyH.Update)
	parties.DELETE("/:id", partyH.Delete)

	// Items
	items := protected.Group("/items")
	items.POST("", itemH.Create)
	items.GET("", itemH.List)
	items.GET("/:id", itemH.GetByID)
	items.PUT("/:id", itemH.Update)
	items.DELETE("/:id", itemH.Delete)

	// Bills (all five document types, discriminated by bill_type)
	bills := protected.Group("/bills")
	bills.GET("/propose-number", billH.ProposeNumber)
	bills.POST("", billH.Create)
	bills.GET("", billH.List)
	bills.GET("/:id", billH.GetByID)
	bills.PUT("/:id", billH.Update)
	bills.DELETE("/:id", billH.Delete)

	// Payments and outstanding
	payments := protected.Group("/payments")
	payments.GET("/open-bills", paymentH.OpenBills)
	payments.GET("/advance", paymentH.AdvanceAvailable)
	payments.POST("", paymentH.Create)
	payments.GET("", paymentH.List)
	payments.GET("/:id", paymentH.GetByID)
	payments.DELETE("/:id", paymentH.Delete)

	// Reports
	reports := protected.Group("/reports")
	reports.GET("/register", reportH.Register)
	reports.GET("/register/export", reportH.ExportRegister)
	reports.GET("/net-tax", reportH.NetTax)
	reports.GET("/hsn-summary", reportH.HSNSummary)
	reports.GET("/hsn-summary/export", reportH.ExportHSN)
	reports.GET("/payments", reportH.PaymentRegister)
	reports.GET("/aging", reportH.Aging)

	return r
}
