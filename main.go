package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"scribble/internal/api"
	"scribble/internal/auth"
	"scribble/internal/config"
	"scribble/internal/database"
	"scribble/internal/logger"
	"scribble/internal/maintenance"
	"scribble/internal/services"
	"scribble/internal/web"
	"scribble/internal/websocket"
)

func main() {
	initDB := flag.Bool("init-db", false, "drop and recreate the database schema, destroying existing data")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.LogLevel)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if *initDB {
		if err := database.Reset(db); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset database schema")
		}
		log.Info().Str("path", cfg.DatabasePath).Msg("Initialized the database")
		return
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the live-feed hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	postService := services.NewPostService(db, hub)
	sessions := auth.NewSessions(userService, cfg.JWTSecret, cfg.SessionTTL, cfg.Production())

	render, err := web.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse templates")
	}

	// Set up and run the background maintenance janitor
	janitor, err := maintenance.NewJanitor(db, cfg.MaintenanceSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid maintenance schedule")
	}
	go janitor.Run()

	// Set up router
	router := api.NewRouter(cfg, sessions, render, hub, userService, postService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	janitor.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
