package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/taxdesk/schedule-generator/internal/adapters/genservice"
	sqliteadapter "github.com/taxdesk/schedule-generator/internal/adapters/sqlite"
	"github.com/taxdesk/schedule-generator/internal/handlers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		slog.Warn("error loading .env file", "err", err)
	}
	origin := os.Getenv("SERVICE_ORIGIN")
	if origin == "" {
		origin = "http://localhost:9000"
	}
	dsn := os.Getenv("DB_PATH")
	if dsn == "" {
		dsn = "drafts.db"
	}
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	repo, err := sqliteadapter.New(dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	svc := genservice.New(origin, nil)
	h := handlers.New(svc, repo, slog.Default())

	log.Printf("Tax Schedule Generator running on http://localhost:%s", port)
	log.Printf("Generation service: %s", origin)
	log.Printf("Database: %s", dsn)
	if err := http.ListenAndServe(":"+port, h.Routes()); err != nil {
		log.Fatal(err)
	}
}
