package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/poliux/poliux/internal/api"
	"github.com/poliux/poliux/internal/ingest"
	"github.com/poliux/poliux/internal/service"
	"github.com/poliux/poliux/internal/store"
	"github.com/poliux/poliux/internal/webhook"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func main() {
	// .env is optional; container deployments set real env vars.
	_ = godotenv.Load()

	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "poliux_db")
	dbUser := envOrDefault("DB_USER", "poliux_user")
	dbPass := envOrDefault("DB_PASS", "poliux")
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	tokenSecret := envOrDefault("TOKEN_SECRET", "dev-only-secret")
	port := envOrDefault("PORT", "8080")

	pgUrl := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgUrl)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Printf("waiting for db: attempt %d, err: %v", i+1, err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Fatalf("could not connect to db: %v", err)
	}

	// ensure tables exist (run migrations)
	if err := store.RunMigrations(db); err != nil {
		log.Fatalf("migrations: %v", err)
	}

	redisOpts := &redis.Options{Addr: redisAddr}
	rdb := redis.NewClient(redisOpts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warning: redis ping failed: %v", err)
	}

	repo := store.NewPgStore(db)

	// analysis workflow client (reads ANALYSIS_WEBHOOK_URL / _SECRET from env)
	wf := webhook.NewClientFromEnv()
	wf.SetLogger(log.Printf)

	svc := service.NewService(repo, rdb, wf, nil)

	// feed collection runs in-process when RSS_FEEDS is configured
	if feeds := splitFeeds(os.Getenv("RSS_FEEDS")); len(feeds) > 0 {
		collector := ingest.NewCollector(svc, feeds)
		sched := cron.New()
		sched.AddFunc("@every 30m", func() { collector.CollectOnce(context.Background()) })
		sched.AddFunc("@daily", func() { collector.Prune(context.Background()) })
		sched.Start()
		defer sched.Stop()
		go collector.CollectOnce(context.Background())
		log.Printf("feed collector scheduled for %d feeds", len(feeds))
	}

	handler := api.NewHandler(svc, tokenSecret)

	router := gin.Default()
	api.RegisterRoutes(router, handler)

	log.Printf("listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func splitFeeds(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
