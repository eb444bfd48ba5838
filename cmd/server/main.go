package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"invoice-dashboard-backend/internal/cache"
	"invoice-dashboard-backend/internal/config"
	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/migration"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/routes"
	"invoice-dashboard-backend/internal/seed"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "apply the schema and exit")
	migrateDown := flag.Bool("migrate-down", false, "roll back every SQL migration and exit")
	seedOnly := flag.Bool("seed-only", false, "apply the schema, insert placeholder data and exit")
	seedCSV := flag.String("seed-csv", "", "with -seed-only, also import invoices from this CSV file")
	flag.Parse()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync(zapLog)

	db, err := config.InitDB(&cfg.Database, logger.NewGormLogger(zapLog, logger.MapGormLogLevel(cfg.Log.Level)))
	if err != nil {
		zapLog.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *migrateDown {
		m, err := newMigrator(db, zapLog)
		if err != nil {
			zapLog.Fatal("Failed to create migrator", zap.Error(err))
		}
		if err := m.Down(); err != nil {
			zapLog.Fatal("Failed to roll back migrations", zap.Error(err))
		}
		return
	}

	if err := migrate(db, cfg, zapLog); err != nil {
		zapLog.Fatal("Failed to migrate database", zap.Error(err))
	}
	if *migrateOnly {
		return
	}

	if *seedOnly {
		if err := runSeed(db, *seedCSV, zapLog); err != nil {
			zapLog.Fatal("Seeding failed", zap.Error(err))
		}
		return
	}

	store, err := cache.NewFactory(cfg.Redis, cfg.Cache, cache.WithLogger(zapLog)).CreateStore()
	if err != nil {
		zapLog.Fatal("Failed to create view store", zap.Error(err))
	}
	defer store.Close()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(logger.RequestID(), logger.GinMiddleware(zapLog), logger.Recovery(zapLog))
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := routes.RegisterRoutes(r, db, store, cfg, zapLog); err != nil {
		zapLog.Fatal("Failed to register routes", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	go func() {
		zapLog.Info("Server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLog.Error("Server forced to shutdown", zap.Error(err))
	}
}

// migrate applies the embedded SQL migrations when enabled and falls back
// to AutoMigrate otherwise.
func migrate(db *gorm.DB, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Database.SQLMigrations {
		return db.AutoMigrate(models.All()...)
	}

	m, err := newMigrator(db, log)
	if err != nil {
		return err
	}
	return m.Up()
}

func newMigrator(db *gorm.DB, log *zap.Logger) (*migration.Migrator, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return migration.New(sqlDB, log)
}

func runSeed(db *gorm.DB, csvPath string, log *zap.Logger) error {
	seeder := seed.NewSeeder(
		repository.NewUserRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewRevenueRepository(db),
		log,
	)

	data := seed.Placeholder()
	if csvPath != "" {
		f, err := os.Open(csvPath)
		if err != nil {
			return err
		}
		defer f.Close()

		rows, err := seed.ParseInvoicesCSV(f, filepath.Base(csvPath))
		if err != nil {
			log.Warn("Skipped invalid CSV rows", zap.String("file", csvPath), zap.Error(err))
		}
		data.Invoices = append(data.Invoices, rows...)
	}

	_, err := seeder.Run(context.Background(), data)
	if err == nil {
		log.Info("Database seeded successfully")
	}
	return err
}
