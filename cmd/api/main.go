package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-branchpos-ws/internal/alert"
	"go-branchpos-ws/internal/cache"
	"go-branchpos-ws/internal/config"
	"go-branchpos-ws/internal/handler"
	"go-branchpos-ws/internal/middleware"
	"go-branchpos-ws/internal/model"
	"go-branchpos-ws/internal/repository"
	"go-branchpos-ws/internal/service"
	"go-branchpos-ws/internal/ws"
	"go-branchpos-ws/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.Branch{}, &model.Item{}, &model.TransactionGroup{}, &model.TransactionLine{}, &model.User{})

	store := repository.NewGormStore(db)

	// 3. Seed default branch and admin user
	seedBranchAndAdmin(store)

	// 4. Setup WebSocket Hub (the change-notification feed)
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Optional infrastructure: stats cache and low-stock alerts
	var statsCache cache.StatsCache = cache.NoopStatsCache{}
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisStatsCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(context.Background()); err != nil {
			log.Printf("Warning: Redis unreachable, stats cache disabled: %v", err)
		} else {
			statsCache = redisCache
			log.Println("Redis stats cache enabled")
		}
	}

	var notifier alert.Notifier = alert.NoopNotifier{}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := alert.NewTelegramNotifier(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Printf("Warning: Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
			log.Println("Telegram low-stock alerts enabled")
		}
	}

	// 6. Dependency Injection (Wiring Layers)
	catalogService := service.NewCatalogService(store, wsHub, statsCache)
	txService := service.NewTransactionService(store, wsHub, statsCache, notifier, cfg.LowStockThreshold)
	dashService := service.NewDashboardService(store, statsCache, cfg.LowStockThreshold)
	authService := service.NewAuthService(store.Users(), wsHub)
	userService := service.NewUserService(store.Users())

	catalogHandler := handler.NewCatalogHandler(catalogService)
	txHandler := handler.NewTransactionHandler(txService, catalogService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "BranchPOS Inventory v1.0",
	})

	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(store.Users()), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(store.Users()))

	// Dashboard (any authenticated staff)
	protected.Get("/dashboard/stats", dashHandler.GetStats)
	protected.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)
	protected.Get("/dashboard/low-stock", dashHandler.GetLowStock)

	// Catalog (reads for everyone, mutations admin-only)
	protected.Get("/items", catalogHandler.GetItems)
	protected.Get("/items/:id", catalogHandler.GetItem)
	protected.Post("/items", middleware.RequireRole(model.RoleAdmin), catalogHandler.CreateItem)
	protected.Put("/items/:id", middleware.RequireRole(model.RoleAdmin), catalogHandler.UpdateItem)
	protected.Delete("/items/:id", middleware.RequireRole(model.RoleAdmin), catalogHandler.DeleteItem)

	// Ledger (direction authorization happens inside the committer)
	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Post("/transactions", txHandler.CreateTransaction)

	// Staff management
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequireRole(model.RoleAdmin), userHandler.CreateUser)
	protected.Put("/users/:id/active", middleware.RequireRole(model.RoleAdmin), userHandler.SetUserActive)
	protected.Delete("/users/:id", middleware.RequireRole(model.RoleAdmin), userHandler.DeleteUser)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(cfg.Address()); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedBranchAndAdmin creates the default branch and admin account on an empty
// database so the app is usable right after first boot.
func seedBranchAndAdmin(store repository.Store) {
	branch, err := store.Branches().FindByName("Pusat")
	if err != nil {
		branch = &model.Branch{BranchName: "Pusat", Address: ""}
		branch.CreatedBy = "system"
		branch.UpdatedBy = "system"
		if err := store.Branches().Create(branch); err != nil {
			log.Printf("Warning: Failed to seed default branch: %v", err)
			return
		}
		log.Println("✅ Default branch created: Pusat")
	}

	if _, err := store.Users().FindByEmail("admin@example.com"); err == nil {
		return
	}

	admin := &model.User{
		Email:    "admin@example.com",
		Username: "Administrator",
		Role:     model.RoleAdmin,
		BranchID: branch.ID,
		IsActive: true,
	}
	admin.CreatedBy = "system"
	admin.UpdatedBy = "system"

	if err := admin.SetPassword("admin123"); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := store.Users().Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
		return
	}
	log.Println("✅ Admin user created: admin@example.com / admin123")
}
