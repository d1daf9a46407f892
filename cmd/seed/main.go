package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/config"
	"github.com/medicareai/clinic-booking/internal/csvstore"
	"github.com/medicareai/clinic-booking/internal/db"
	"github.com/medicareai/clinic-booking/internal/seed"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	patients := flag.Int("patients", seed.DefaultPatients, "number of patient records to generate")
	days := flag.Int("days", seed.DefaultScheduleDays, "days of schedule to generate, starting tomorrow")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	records := seed.Patients(*patients)
	slots := seed.ScheduleSlots(time.Now().AddDate(0, 0, 1), *days)

	switch cfg.StorageMode {
	case config.StorageFile:
		if err := seedFiles(cfg.DataDir, records, slots); err != nil {
			log.Fatalf("seed files: %v", err)
		}
	case config.StoragePostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		defer pool.Close()

		if err := createTables(ctx, pool); err != nil {
			log.Fatalf("create tables: %v", err)
		}
		if err := seedPatients(ctx, pool, records); err != nil {
			log.Fatalf("seed patients: %v", err)
		}
		if err := seedSchedule(ctx, pool, slots); err != nil {
			log.Fatalf("seed schedule: %v", err)
		}
	}

	log.Printf("seed complete: %d patients, %d slots", len(records), len(slots))
}

func seedFiles(dataDir string, records []booking.PatientRecord, slots []booking.Slot) error {
	log.Printf("writing CSV stores under %s", dataDir)

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}
	if err := csvstore.WriteDirectory(filepath.Join(dataDir, "patients.csv"), records); err != nil {
		return err
	}
	return csvstore.WriteSchedule(filepath.Join(dataDir, "doctor_schedule.csv"), slots)
}

func createTables(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			dob text NOT NULL,
			doctor text NOT NULL,
			location text NOT NULL DEFAULT '',
			email text NOT NULL DEFAULT '',
			phone text NOT NULL DEFAULT '',
			insurance_member_id text NOT NULL DEFAULT '',
			insurance_group text NOT NULL DEFAULT '',
			status text NOT NULL DEFAULT 'returning'
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_slots (
			id bigserial PRIMARY KEY,
			doctor text NOT NULL,
			slot_date text NOT NULL,
			slot_time text NOT NULL,
			available boolean NOT NULL DEFAULT TRUE,
			UNIQUE (doctor, slot_date, slot_time)
		)`,
		`CREATE TABLE IF NOT EXISTS appointments (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			dob text NOT NULL,
			doctor text NOT NULL,
			appt_type text NOT NULL,
			slot_date text NOT NULL,
			slot_time text NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS intake_records (
			id bigserial PRIMARY KEY,
			name text NOT NULL,
			dob text NOT NULL,
			doctor text NOT NULL,
			location text NOT NULL DEFAULT '',
			email text NOT NULL DEFAULT '',
			phone text NOT NULL DEFAULT '',
			insurance_member_id text NOT NULL DEFAULT '',
			insurance_group text NOT NULL DEFAULT '',
			status text NOT NULL DEFAULT 'new',
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, records []booking.PatientRecord) error {
	log.Printf("seeding %d patients", len(records))

	const batchSize = 500

	for offset := 0; offset < len(records); offset += batchSize {
		end := offset + batchSize
		if end > len(records) {
			end = len(records)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for _, rec := range records[offset:end] {
			_, err := tx.Exec(ctx, `
				INSERT INTO patients (name, dob, doctor, location, email, phone, insurance_member_id, insurance_group, status)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, rec.Name, rec.DOB, rec.Doctor, rec.Location, rec.Email, rec.Phone, rec.InsuranceMemberID, rec.InsuranceGroup, string(rec.Status))
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, len(records))
	}

	return nil
}

func seedSchedule(ctx context.Context, pool *pgxpool.Pool, slots []booking.Slot) error {
	log.Printf("seeding %d schedule slots", len(slots))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, slot := range slots {
		_, err := tx.Exec(ctx, `
			INSERT INTO schedule_slots (doctor, slot_date, slot_time, available)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (doctor, slot_date, slot_time) DO NOTHING
		`, slot.Doctor, slot.Date, slot.Time, slot.Available)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
