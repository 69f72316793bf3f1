package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/srgjo27/gym_booking/internal/adapter/cache"
	"github.com/srgjo27/gym_booking/internal/adapter/handler"
	"github.com/srgjo27/gym_booking/internal/adapter/publisher"
	"github.com/srgjo27/gym_booking/internal/adapter/repository/memory"
	"github.com/srgjo27/gym_booking/internal/adapter/repository/postgres"
	"github.com/srgjo27/gym_booking/internal/core/ports"
	"github.com/srgjo27/gym_booking/internal/core/services"
	"github.com/srgjo27/gym_booking/internal/platform/clock"
	"github.com/srgjo27/gym_booking/internal/platform/config"
	"github.com/srgjo27/gym_booking/internal/platform/database"
)

type repositories struct {
	classes    ports.ClassRepository
	bookings   ports.BookingRepository
	attendance ports.AttendanceRepository
	close      func()
}

func openRepositories(ctx context.Context, cfg config.Config) repositories {
	if cfg.StoreDriver == "memory" {
		log.Println("Using in-memory store; data is lost on restart.")
		return repositories{
			classes:    memory.NewClassRepository(),
			bookings:   memory.NewBookingRepository(),
			attendance: memory.NewAttendanceRepository(),
			close:      func() {},
		}
	}

	db, err := database.NewPostgresDB(ctx, database.Config{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	return repositories{
		classes:    postgres.NewClassRepository(db),
		bookings:   postgres.NewBookingRepository(db),
		attendance: postgres.NewAttendanceRepository(db),
		close:      func() { _ = db.Close() },
	}
}

// connectRedis returns nil when Redis is unreachable; the schedule then
// reads straight from the store.
func connectRedis(cfg config.Config) *redis.Client {
	log.Printf("Connecting to Redis at %s...", cfg.RedisAddr())

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, schedule cache disabled: %v", err)
		_ = client.Close()
		return nil
	}
	log.Println("Redis connected successfully!")
	return client
}

func main() {
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := openRepositories(ctx, cfg)
	defer repos.close()

	var hooks services.Hooks
	var scheduleCache ports.ScheduleCache
	if rdb := connectRedis(cfg); rdb != nil {
		defer rdb.Close()
		c := cache.NewScheduleCache(rdb, "schedule", cfg.CacheTTL)
		scheduleCache = c
		hooks.Cache = c
	}

	if cfg.RabbitMQURL != "" {
		pub := publisher.NewRabbitPublisher(cfg.RabbitMQURL, cfg.EventsQueue)
		defer pub.Close()
		hooks.Events = pub
	} else {
		hooks.Events = publisher.LogPublisher{}
	}

	clk := clock.System{}

	ledger := services.NewCapacityLedger(repos.classes, clk, services.LedgerConfig{
		MaxRetries: cfg.LedgerMaxRetries,
		Backoff:    cfg.LedgerBackoff,
	})
	bookingService := services.NewBookingService(repos.classes, repos.bookings, ledger, clk, hooks)
	catalogService := services.NewCatalogService(repos.classes, bookingService, clk, hooks, cfg.LedgerMaxRetries)
	attendanceService := services.NewAttendanceService(repos.classes, repos.attendance, bookingService, clk, hooks)
	scheduleQuery := services.NewScheduleQuery(repos.classes, repos.bookings, scheduleCache, clk, cfg.Timezone)

	sweeper := services.NewStatusSweeper(catalogService, repos.classes, clk, cfg.SweepInterval)
	go sweeper.Run(ctx)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 120 * time.Second

	handler.RegisterRoutes(e,
		cfg.JWTSecret,
		handler.NewClassHandler(catalogService, scheduleQuery, bookingService, attendanceService),
		handler.NewBookingHandler(bookingService, scheduleQuery),
	)

	go func() {
		addr := ":" + cfg.Port
		log.Printf("Server starting on port %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exiting")
}
