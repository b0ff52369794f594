/*
main.go - Application entry point

PURPOSE:
  Starts the Iron Sovereign XP engine server: SQLite store, ledger engine,
  chi router, graceful shutdown.

CONFIGURATION:
  Environment variables (see Config), with flags overriding the common
  ones for local runs:

  PORT             HTTP port                         (default 8080)
  DB_PATH          SQLite database path              (default ironsov.db)
  TIMEZONE         calendar-date resolution zone     (default America/Chicago)
  CALORIE_TARGET   nutrition adherence target, kcal  (default 2000)
  PROTEIN_TARGET   protein target, grams             (default 200)
  STEP_TARGET      auxiliary stat step target        (default 10000)

  Use DB_PATH=":memory:" for a throwaway database.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain for up to 30s,
  close the database, exit.

SEE ALSO:
  - api/server.go: router configuration
  - store/sqlite/sqlite.go: persistence
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/Ncaofa1996/iron-sovereign/api"
	"github.com/Ncaofa1996/iron-sovereign/engine"
	"github.com/Ncaofa1996/iron-sovereign/store/sqlite"
	"github.com/Ncaofa1996/iron-sovereign/xp"
)

// Config is the server's environment configuration.
type Config struct {
	Port          int     `env:"PORT" envDefault:"8080"`
	DBPath        string  `env:"DB_PATH" envDefault:"ironsov.db"`
	Timezone      string  `env:"TIMEZONE" envDefault:"America/Chicago"`
	CalorieTarget float64 `env:"CALORIE_TARGET" envDefault:"2000"`
	ProteinTarget float64 `env:"PROTEIN_TARGET" envDefault:"200"`
	StepTarget    float64 `env:"STEP_TARGET" envDefault:"10000"`
}

func main() {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		log.Fatalf("Failed to parse environment: %v", err)
	}

	// Flags override env for local runs.
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("Invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	eng := engine.New(store, engine.WithTimezone(loc))
	handler := api.NewHandler(eng, xp.Config{
		CalorieTarget: cfg.CalorieTarget,
		ProteinTarget: cfg.ProteinTarget,
		StepTarget:    cfg.StepTarget,
	})
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d (today: %s)", *port, eng.Today())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server stopped")
}
