package main

import (
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"

	"github.com/simbachu/monrank/internal/db"
	"github.com/simbachu/monrank/internal/lookup"
	"github.com/simbachu/monrank/internal/tournament"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbPath := envOr("MONRANK_DB", "monrank.db")
	database := db.InitDB(dbPath)
	defer database.Close()

	migrationsDir := envOr("MONRANK_MIGRATIONS", "migrations")
	if err := db.RunMigrations(database.DB, migrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	sessionManager := scs.New()
	sessionManager.Lifetime = 24 * time.Hour
	sessionManager.Store = sqlite3store.New(database.DB)

	cfg := tournament.DefaultConfig()
	if v, err := strconv.Atoi(os.Getenv("MONRANK_WIN_POINTS")); err == nil && v > 0 {
		cfg.WinPoints = v
	}
	if v, err := strconv.Atoi(os.Getenv("MONRANK_DRAW_POINTS")); err == nil && v >= 0 {
		cfg.DrawPoints = v
	}

	species := lookup.NewClient(os.Getenv("MONRANK_LOOKUP_URL"))

	router := newRouter(sessionManager, database, cfg, species)

	addr := envOr("MONRANK_ADDR", ":8080")
	log.Println("Server starting on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatal(err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
