package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/auth"
	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/config"
	handler "invoice-dashboard-backend/internal/handlers"
	"invoice-dashboard-backend/internal/middleware"
	"invoice-dashboard-backend/internal/money"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/seed"
	"invoice-dashboard-backend/internal/services/dashboard"
	"invoice-dashboard-backend/internal/services/invoices"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, store cache.Store, cfg *config.Config, log *zap.Logger) error {
	formatter, err := money.NewFormatter(cfg.Currency.Code, cfg.Currency.Locale, money.SymbolPosition(cfg.Currency.SymbolPosition))
	if err != nil {
		return err
	}

	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	revenueRepo := repository.NewRevenueRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	dashboardService := dashboard.NewService(invoiceRepo, customerRepo, revenueRepo,
		dashboard.WithCache(store, cfg.Cache.TTL),
		dashboard.WithFormatter(formatter),
		dashboard.WithAuditLog(auditRepo),
		dashboard.WithLogger(log),
	)
	invoiceService := invoices.NewService(invoiceRepo,
		invoices.WithCache(store),
		invoices.WithAudit(auditRepo),
		invoices.WithDeletion(cfg.Features.InvoiceDeletion),
		invoices.WithLogger(log),
	)
	seeder := seed.NewSeeder(userRepo, customerRepo, invoiceRepo, revenueRepo, log)

	tokens := auth.NewTokenService(cfg.JWT, store)
	authenticator := auth.NewAuthenticator(userRepo, log)

	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, seeder, store)
	authHandler := handler.NewAuthHandler(authenticator, tokens, cfg.Cookie)

	// Health check
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/login", authHandler.Login)
	r.POST("/logout", authHandler.Logout)

	dash := r.Group("/dashboard", middleware.RequireSession(tokens, cfg.Cookie.Name))
	dash.GET("", dashboardHandler.Overview)
	dash.GET("/customers", dashboardHandler.ListCustomers)

	inv := dash.Group("/invoices")
	{
		inv.GET("", dashboardHandler.ListInvoices)
		inv.GET("/create", dashboardHandler.CreateForm)
		inv.POST("", invoiceHandler.Create)
		inv.POST("/upload", invoiceHandler.Upload)
		inv.GET("/:id/edit", dashboardHandler.EditForm)
		inv.GET("/:id/audit", dashboardHandler.InvoiceAudit)
		inv.POST("/:id", invoiceHandler.Update)
		inv.PUT("/:id", invoiceHandler.Update)
		inv.POST("/:id/delete", invoiceHandler.Delete)
		inv.DELETE("/:id", invoiceHandler.Delete)
	}

	return nil
}
