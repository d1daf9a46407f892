package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/medicareai/clinic-booking/internal/api"
	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/config"
	"github.com/medicareai/clinic-booking/internal/confirm"
	"github.com/medicareai/clinic-booking/internal/csvstore"
	"github.com/medicareai/clinic-booking/internal/db"
	"github.com/medicareai/clinic-booking/internal/logging"
	"github.com/medicareai/clinic-booking/internal/notify"
	redisclient "github.com/medicareai/clinic-booking/internal/redis"
	"github.com/medicareai/clinic-booking/internal/seed"
)

var version = "dev"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	log.Printf("running in env=%s http_port=%s storage=%s", cfg.Env, cfg.HTTPPort, cfg.StorageMode)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		deps    booking.Deps
		pgPool  *pgxpool.Pool
		rdb     *redis.Client
		intake  booking.IntakeLedger
		appts   booking.AppointmentLedger
		locker  booking.Locker
		dir     booking.PatientDirectory
		sched   booking.ScheduleStore
		cleanup []func()
	)

	switch cfg.StorageMode {
	case config.StoragePostgres:
		pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
		pgPool, err = db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
		cancelPg()
		if err != nil {
			log.Fatalf("postgres connection error: %v", err)
		}
		cleanup = append(cleanup, pgPool.Close)
		log.Println("connected to Postgres")

		rdb, err = redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis connection error: %v", err)
		}
		cleanup = append(cleanup, func() {
			if err := rdb.Close(); err != nil {
				log.Printf("error closing redis: %v", err)
			}
		})
		log.Println("connected to Redis")

		repo := booking.NewPgRepository(pgPool)
		dir, sched, appts = repo, repo, repo
		intake = booking.NewPgIntakeLedger(pgPool)
		locker = redisclient.NewRedisSlotLocker(rdb, cfg.LockTTL)

	case config.StorageFile:
		if err := ensureDataFiles(cfg.DataDir); err != nil {
			log.Fatalf("data dir setup error: %v", err)
		}

		directory, err := csvstore.NewDirectory(filepath.Join(cfg.DataDir, "patients.csv"))
		if err != nil {
			log.Fatalf("patient directory error: %v", err)
		}
		schedule, err := csvstore.NewSchedule(filepath.Join(cfg.DataDir, "doctor_schedule.csv"))
		if err != nil {
			log.Fatalf("schedule store error: %v", err)
		}

		dir, sched = directory, schedule
		appts = csvstore.NewAppointmentLedger(filepath.Join(cfg.DataDir, "appointments.csv"))
		intake = csvstore.NewIntakeLedger(filepath.Join(cfg.DataDir, "new_patients.csv"))
		locker = booking.NewMutexLocker()

	default:
		log.Fatalf("unknown storage mode %q", cfg.StorageMode)
	}

	generator, err := confirm.NewClient(confirm.Config{
		BaseURL: cfg.GeneratorURL,
		Model:   cfg.GeneratorModel,
		Timeout: cfg.GeneratorTimeout,
	})
	if err != nil {
		log.Fatalf("confirmation client error: %v", err)
	}

	deps = booking.Deps{
		Directory:        dir,
		Schedule:         sched,
		Appointments:     appts,
		Intake:           intake,
		Locker:           locker,
		Generator:        generator,
		Reminders:        notify.NewLogSender(logger),
		Logger:           logger,
		GeneratorTimeout: cfg.GeneratorTimeout,
	}

	router := api.NewRouter(api.RouterConfig{
		Service: booking.NewService(deps),
		Metrics: api.NewMetrics(),
		Logger:  logger,
		PgPool:  pgPool,
		Redis:   rdb,
		Storage: cfg.StorageMode,
		Env:     cfg.Env,
		Version: version,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		log.Println("shutting down api-server")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}
	log.Println("api-server stopped")
}

// ensureDataFiles seeds the CSV stores on first run so the server can come up
// against an empty data directory.
func ensureDataFiles(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	patientsPath := filepath.Join(dataDir, "patients.csv")
	if _, err := os.Stat(patientsPath); os.IsNotExist(err) {
		log.Printf("seeding %s with %d patients", patientsPath, seed.DefaultPatients)
		if err := csvstore.WriteDirectory(patientsPath, seed.Patients(seed.DefaultPatients)); err != nil {
			return err
		}
	}

	schedulePath := filepath.Join(dataDir, "doctor_schedule.csv")
	if _, err := os.Stat(schedulePath); os.IsNotExist(err) {
		start := time.Now().AddDate(0, 0, 1)
		log.Printf("seeding %s with %d days of slots", schedulePath, seed.DefaultScheduleDays)
		if err := csvstore.WriteSchedule(schedulePath, seed.ScheduleSlots(start, seed.DefaultScheduleDays)); err != nil {
			return err
		}
	}

	return nil
}
