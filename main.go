package main

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"time"

	"shopfront/internal/api"
	"shopfront/internal/config"
	"shopfront/internal/handlers"
	"shopfront/internal/localstore"
	"shopfront/internal/logger"
	"shopfront/internal/middleware"
	"shopfront/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.Initialize(logger.ParseLevel(cfg.LogLevel), cfg.IsDevelopment())

	local, err := localstore.Initialize(cfg.StatePath, cfg.SecretKey)
	if err != nil {
		log.Fatal("Failed to initialize local state:", err)
	}
	defer local.Close()

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)
	stores := store.New(client, local)

	if stores.Session.Restore() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout)
		if _, err := stores.Basket.LoadCart(ctx); err != nil {
			logger.Warn("Failed to load cart for restored session", "error", err)
		}
		cancel()
	}

	r := gin.Default()

	funcMap := template.FuncMap{
		"money": func(amount float64) string {
			return fmt.Sprintf("$%.2f", amount)
		},
		"mulQty": func(price float64, quantity int) float64 {
			return price * float64(quantity)
		},
		"timeAgo": func(t time.Time) string {
			now := time.Now()
			duration := now.Sub(t)

			if duration.Minutes() < 1 {
				return "Just now"
			} else if duration.Hours() < 1 {
				minutes := int(duration.Minutes())
				if minutes == 1 {
					return "1 minute ago"
				}
				return fmt.Sprintf("%d minutes ago", minutes)
			} else if duration.Hours() < 24 {
				hours := int(duration.Hours())
				if hours == 1 {
					return "1 hour ago"
				}
				return fmt.Sprintf("%d hours ago", hours)
			} else if duration.Hours() < 48 {
				return "Yesterday"
			} else if duration.Hours() < 168 { // 7 days
				days := int(duration.Hours() / 24)
				return fmt.Sprintf("%d days ago", days)
			} else {
				return t.Format("Jan 2")
			}
		},
	}

	r.SetFuncMap(funcMap)
	r.LoadHTMLGlob("templates/*.html")
	r.Static("/static", "./static")

	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(cfg))

	handlers.SetupRoutes(r, stores, cfg)

	log.Printf("Server starting on port %s (API at %s)", cfg.Port, cfg.APIBaseURL)
	log.Fatal(r.Run(":" + cfg.Port))
}
