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

	"github.com/joho/godotenv"
	"github.com/vitrine-dev/vitrine/db"
	"github.com/vitrine-dev/vitrine/internal/auth"
	"github.com/vitrine-dev/vitrine/internal/config"
	"github.com/vitrine-dev/vitrine/internal/handlers"
	"github.com/vitrine-dev/vitrine/internal/records"
	"github.com/vitrine-dev/vitrine/internal/router"
	"github.com/vitrine-dev/vitrine/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := db.EnsureDatabase(cfg.ServerDSN(), cfg.DBName); err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	conn, err := db.Connect(cfg.DSN())

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(conn); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := auth.EnsureDefaultAdmin(conn, cfg.DefaultUsername, cfg.DefaultPassword); err != nil {
		log.Fatalf("Failed to ensure default user: %v", err)
	}

	uploads, err := storage.New(cfg.UploadDir, storage.TimestampName)

	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	tokens, err := auth.NewManager(cfg.JWTSecret)

	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	store := records.NewStore(conn, uploads)
	h := handlers.New(conn, store, tokens)
	r := router.New(h, tokens, uploads.Dir())

	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		log.Printf("Listening on :%s", cfg.ServerPort)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := db.Close(conn); err != nil {
		log.Printf("Failed to close database: %v", err)
	}
}
