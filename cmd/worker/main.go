package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"classreminder/internal/config"
	"classreminder/internal/datasource"
	"classreminder/internal/linepush"
	"classreminder/internal/notifylog"
	"classreminder/internal/queue"
	"classreminder/internal/reminder"
	"classreminder/internal/store"
)

// Worker persists send outcomes from the queue into the notification log.
// With CRON_SPEC set it also runs reminder cycles itself, for deployments
// without an external scheduler hitting the API.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer db.Close()

	redisClient := store.NewRedis(cfg.RedisAddr)

	var q queue.Queue
	if cfg.QueueBackend == "memory" {
		q = queue.NewInMemory(64)
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "reminder:notifications")
	}

	repo := notifylog.NewRepository(db.Client)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatalf("ensure schema failed: %v", err)
	}

	if cfg.CronSpec != "" {
		if missing := cfg.Missing(); len(missing) > 0 {
			log.Fatalf("CRON_SPEC set but configuration missing: %v", missing)
		}
		source := datasource.New(cfg.DataSourceURL, cfg.ProjectID, cfg.DataSourceKey, cfg.Collection, cfg.SendTimeout)
		channel := linepush.New("", cfg.LineToken, cfg.LineSkip, cfg.SendTimeout)
		dedup := store.NewRedisDeduper(redisClient.Client, "reminder:sent")
		svc := reminder.NewService(source, channel, dedup, q)

		c := cron.New()
		if _, err := c.AddFunc(cfg.CronSpec, func() {
			summary := svc.RunCycle(ctx)
			log.Printf("cron cycle: %d sent, %d skipped", summary.SentCount(), summary.SkippedCount)
		}); err != nil {
			log.Fatalf("invalid CRON_SPEC %q: %v", cfg.CronSpec, err)
		}
		c.Start()
		defer c.Stop()
		log.Printf("internal scheduler running with spec %q", cfg.CronSpec)
	}

	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Println("worker started, waiting for messages...")
	for msg := range messages {
		if msg.Type != queue.TypeNotification {
			continue
		}

		evt, err := reminder.UnmarshalSentEvent(msg.Body)
		if err != nil {
			log.Printf("decode sent event failed: %v", err)
			continue
		}

		entry, err := repo.Insert(ctx, notifylog.Entry{
			ScheduleID: evt.ScheduleID,
			Student:    evt.Student,
			Window:     evt.Window,
			Status:     evt.Status,
			Result:     evt.Result,
			Message:    evt.Message,
			SentAt:     evt.SentAt,
		})
		if err != nil {
			log.Printf("persist send log for %s failed: %v", evt.ScheduleID, err)
			continue
		}
		log.Printf("logged %s notification for %s (%s)", entry.Window, entry.Student, entry.Result)
	}

	log.Println("worker stopped")
}
