package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rollcall/internal/broadcast"
	"github.com/KirkDiggler/rollcall/internal/config"
	"github.com/KirkDiggler/rollcall/internal/handlers/discord"
	"github.com/KirkDiggler/rollcall/internal/handlers/web"
	snapshotRepo "github.com/KirkDiggler/rollcall/internal/repositories/snapshot"
	"github.com/KirkDiggler/rollcall/internal/services/attendance"
)

func main() {
	// .env is optional; real deployments configure the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	repo, err := snapshotRepo.NewRedis(&snapshotRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create snapshot repository: %v", err)
	}

	hub := broadcast.NewHub()

	engine, err := attendance.New(&attendance.Config{
		SnapshotRepo: repo,
		Broadcaster:  hub,
	})
	if err != nil {
		log.Fatalf("Failed to create attendance engine: %v", err)
	}

	// Resume from the persisted snapshot; a missing or corrupt snapshot is a
	// recoverable cold start
	persisted, err := repo.Load(ctx, &snapshotRepo.LoadInput{})
	if err != nil {
		if errors.Is(err, snapshotRepo.ErrSnapshotNotFound) {
			log.Println("No persisted snapshot, starting cold")
		} else {
			log.Printf("Failed to load persisted snapshot, starting cold: %v", err)
		}
	}

	restoreOut, err := engine.Restore(ctx, &attendance.RestoreInput{Snapshot: persisted})
	if err != nil {
		log.Fatalf("Failed to restore attendance state: %v", err)
	}
	if restoreOut.Restored {
		log.Println("Restored attendance state from persisted snapshot")
	}

	webServer, err := web.New(&web.Config{
		Addr:              cfg.HTTPAddr,
		AttendanceService: engine,
		Hub:               hub,
	})
	if err != nil {
		log.Fatalf("Failed to create web server: %v", err)
	}
	webServer.Start()

	bot, err := discord.New(&discord.Config{
		Token:             cfg.DiscordToken,
		GuildID:           cfg.GuildID,
		ChannelIDs:        cfg.VoiceChannelIDs,
		SkipUnnamed:       cfg.SkipUnnamed,
		AttendanceService: engine,
	})
	if err != nil {
		log.Fatalf("Failed to create Discord bot: %v", err)
	}

	if err := bot.Start(); err != nil {
		log.Fatalf("Failed to start Discord bot: %v", err)
	}

	log.Println("Rollcall is running. Press CTRL-C to exit.")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	if err := bot.Stop(); err != nil {
		log.Printf("Error stopping bot: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := webServer.Stop(shutdownCtx); err != nil {
		log.Printf("Error stopping web server: %v", err)
	}

	log.Println("Rollcall has been shut down")
}
