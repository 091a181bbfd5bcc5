package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spothunt-backend/clients"
	"spothunt-backend/config"
	"spothunt-backend/database"
	"spothunt-backend/handlers"
	"spothunt-backend/routes"
	"spothunt-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	if err := database.LoadSpotData(db, cfg.SeedSpotsPath); err != nil {
		log.Printf("Failed to load seed spots: %v", err)
	}
	if err := database.SeedDemoUser(db); err != nil {
		log.Printf("Failed to seed demo user: %v", err)
	}

	// Discovery tries OpenStreetMap, then Google Places, then stored spots
	overpass := clients.NewOverpassClient(cfg.OverpassURL, cfg.OverpassTimeout)
	google := clients.NewGooglePlacesClient(cfg.GoogleMapsAPIKey, 10*time.Second)
	finder := services.NewNearbySpotFinder(cfg, db,
		services.NewOverpassSource(overpass, cfg.OverpassTimeout),
		services.NewGooglePlacesSource(google),
		services.NewStoredSpotSource(db),
	)

	spotService := services.NewSpotService(cfg, db)
	queryService := services.NewSpotQueryService(cfg, finder)
	huntService := services.NewHuntService(cfg, db, services.NoBadges{})
	userService := services.NewUserService(cfg, db)
	notificationService := services.NewNotificationService(cfg, db, finder, nil)

	router := routes.SetupRouter(cfg, routes.Handlers{
		Spots:         handlers.NewSpotHandler(finder, spotService, queryService),
		Hunts:         handlers.NewHuntHandler(huntService),
		Users:         handlers.NewUserHandler(userService),
		Notifications: handlers.NewNotificationHandler(notificationService),
	})

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Spot hunt server listening on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	notificationService.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped gracefully")
}
