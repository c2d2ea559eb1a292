// jobmate-scout-service
//
// Ingests LinkedIn posts behind an authenticated browser session on a weekly
// cron trigger: crawl → extract → capture assets → aggregate → summarize →
// merge-persist. Exposes HTTP endpoints to fire a run on demand and read
// stored results.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"jobmate/scout-service/internal/api"
	"jobmate/scout-service/internal/browser"
	"jobmate/scout-service/internal/config"
	"jobmate/scout-service/internal/db"
	"jobmate/scout-service/internal/llm"
	"jobmate/scout-service/internal/scheduler"
	"jobmate/scout-service/internal/scraper"
	"jobmate/scout-service/internal/store"
)

const version = "1.0.0"

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[scout-service] Config error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL ───────────────────────────────────────────────────────────
	log.Println("[scout-service] Connecting to PostgreSQL…")
	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("[scout-service] PostgreSQL: %v", err)
	}
	defer pool.Close()
	log.Println("[scout-service] PostgreSQL connected ✓")

	// ── Redis ────────────────────────────────────────────────────────────────
	log.Println("[scout-service] Connecting to Redis…")
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("[scout-service] Redis: %v", err)
	}
	defer rdb.Close()
	log.Println("[scout-service] Redis connected ✓")

	// ── Store ────────────────────────────────────────────────────────────────
	posts := store.New(pool, rdb)
	if err := posts.EnsureSchema(ctx); err != nil {
		log.Fatalf("[scout-service] Schema: %v", err)
	}
	log.Println("[scout-service] job_posts schema ready ✓")

	// ── Pipeline ─────────────────────────────────────────────────────────────
	assets, err := scraper.NewAssetStore(cfg.AssetDir)
	if err != nil {
		log.Fatalf("[scout-service] Asset store: %v", err)
	}

	chat, err := llm.NewOllamaChatModel(ctx, cfg.OllamaBaseURL, cfg.LLMModel)
	if err != nil {
		log.Fatalf("[scout-service] Chat model: %v", err)
	}

	crawler := browser.NewLinkedIn(cfg.LinkedInEmail, cfg.LinkedInPassword, cfg.BrowserHeadless)
	worker := scraper.NewWorker(crawler, assets, llm.New(chat), posts, cfg.MaxPosts)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(worker, cfg.SearchTerm, cfg.ScrapeCronSpec)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[scout-service] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)

	h := api.NewHandler(sched, posts, cfg.SearchTerm)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("[scout-service] v%s listening on :%s", version, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[scout-service] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[scout-service] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[scout-service] HTTP shutdown error: %v", err)
	}
	log.Println("[scout-service] Bye")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"scout-service","version":%q}`, version)
}
