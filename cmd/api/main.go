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

	"sagliktur.org/internal/auth"
	"sagliktur.org/internal/httpapi"
	"sagliktur.org/internal/lead"
	"sagliktur.org/internal/note"
	"sagliktur.org/internal/obs"
	"sagliktur.org/internal/patient"
	"sagliktur.org/internal/session"
	"sagliktur.org/internal/store"
)

var version = "0.3.1"

func main() {
	// Optional .env for local development; real deployments set env directly.
	_ = godotenv.Load()

	obs.Init()

	addr := os.Getenv("SAGLIKTUR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	// Record store: durable Badger directory, or in-memory when unset.
	var records store.RecordStore
	if dir := os.Getenv("SAGLIKTUR_DATA_DIR"); dir != "" {
		badgerStore, err := store.OpenBadger(dir)
		if err != nil {
			log.Fatalf("open record store: %v", err)
		}
		records = badgerStore
	} else {
		records = store.NewMemory()
	}

	// The theme key always holds the single supported value.
	if _, err := records.Get(store.KeyTheme); errors.Is(err, store.ErrKeyNotFound) {
		if err := records.Put(store.KeyTheme, []byte(store.ThemeDefault)); err != nil {
			log.Printf("seed theme: %v", err)
		}
	}

	// Role table: compiled default, replaceable by a JSON file.
	table := auth.DefaultRoleTable()
	if path := os.Getenv("SAGLIKTUR_ROLES_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatalf("open role table: %v", err)
		}
		table, err = auth.LoadRoleTable(f)
		f.Close()
		if err != nil {
			log.Fatalf("load role table: %v", err)
		}
	}

	directory := auth.NewDirectory(table)
	if err := auth.SeedDemo(directory); err != nil {
		log.Fatalf("seed directory: %v", err)
	}

	var tracker session.Tracker = session.LogTracker{}
	if url := os.Getenv("SAGLIKTUR_TRACKER_URL"); url != "" {
		tracker = session.NewHTTPTracker(url)
	}

	sessions := session.New(directory, tracker, records)
	if err := sessions.Restore(); err != nil && !errors.Is(err, session.ErrExpired) {
		log.Printf("session restore: %v", err)
	}

	broker := lead.NewBroker()
	leads := lead.NewService(broker, records)
	if err := leads.Load(); err != nil {
		log.Printf("lead load: %v", err)
	}
	patients := patient.NewService(records)
	if err := patients.Load(); err != nil {
		log.Printf("patient load: %v", err)
	}
	notes := note.NewService(records)
	if err := notes.Load(); err != nil {
		log.Printf("note load: %v", err)
	}

	engine := auth.NewEngine(sessions)
	limiter := auth.NewLimiter()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sessions.StartRevalidation(ctx, session.RevalidateInterval)

	api := httpapi.New(sessions, engine, limiter, leads, patients, notes, broker, version)
	handler := httpapi.RequestID(api.Handler())
	handler = httpapi.Logging(handler)
	handler = httpapi.SecurityHeaders(handler)
	handler = httpapi.CORS(handler)
	handler = httpapi.MaxBodyBytes(handler, 1<<20)
	handler = httpapi.RateLimit(handler, 20, 10)

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting sagliktur-api %s on %s", version, srv.Addr)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	cancel()
	if err := records.Close(); err != nil {
		log.Printf("close record store: %v", err)
	}
	log.Println("Stopped")
}
