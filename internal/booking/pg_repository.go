package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies
// it in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PgRepository backs all four stores with Postgres. Reserve is a conditional
// UPDATE, so the availability check and the flip are one atomic statement
// even without the slot lock around it.
type PgRepository struct {
	db DB
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{db: pool}
}

// NewPgRepositoryWithDB allows injecting mocks for tests.
func NewPgRepositoryWithDB(db DB) *PgRepository {
	return &PgRepository{db: db}
}

var (
	_ PatientDirectory  = (*PgRepository)(nil)
	_ ScheduleStore     = (*PgRepository)(nil)
	_ AppointmentLedger = (*PgRepository)(nil)
	_ IntakeLedger      = (*PgIntakeLedger)(nil)
)

func scanPatientRecord(row pgx.Row) (*PatientRecord, error) {
	var p PatientRecord

	err := row.Scan(
		&p.Name,
		&p.DOB,
		&p.Doctor,
		&p.Location,
		&p.Email,
		&p.Phone,
		&p.InsuranceMemberID,
		&p.InsuranceGroup,
		&p.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) Lookup(ctx context.Context, name, dob string) (*PatientRecord, error) {
	row := r.db.QueryRow(ctx, `
		SELECT name, dob, doctor, location, email, phone, insurance_member_id, insurance_group, status
		FROM patients
		WHERE lower(name) = lower($1) AND dob = $2
		ORDER BY id
		LIMIT 1
	`, name, dob)
	return scanPatientRecord(row)
}

func (r *PgRepository) Doctors(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
		SELECT DISTINCT doctor
		FROM schedule_slots
		ORDER BY doctor
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var doctors []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		doctors = append(doctors, d)
	}
	return doctors, rows.Err()
}

func (r *PgRepository) AvailableSlots(ctx context.Context, doctor string) ([]Slot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT doctor, slot_date, slot_time, available
		FROM schedule_slots
		WHERE doctor = $1 AND available
		ORDER BY id
	`, doctor)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []Slot
	for rows.Next() {
		var s Slot
		if err := rows.Scan(&s.Doctor, &s.Date, &s.Time, &s.Available); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *PgRepository) Reserve(ctx context.Context, doctor, date, timeOfDay string) (*Slot, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE schedule_slots
		SET available = FALSE
		WHERE id = (
			SELECT id FROM schedule_slots
			WHERE doctor = $1 AND slot_date = $2 AND slot_time = $3 AND available
			ORDER BY id
			LIMIT 1
		)
		RETURNING doctor, slot_date, slot_time, available
	`, doctor, date, timeOfDay)

	var s Slot
	if err := row.Scan(&s.Doctor, &s.Date, &s.Time, &s.Available); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgRepository) Record(ctx context.Context, appt Appointment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (name, dob, doctor, appt_type, slot_date, slot_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
	`, appt.PatientName, appt.DOB, appt.Doctor, appt.Type, appt.Date, appt.Time)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

func (r *PgRepository) List(ctx context.Context) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, dob, doctor, appt_type, slot_date, slot_time
		FROM appointments
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []Appointment
	for rows.Next() {
		var a Appointment
		if err := rows.Scan(&a.PatientName, &a.DOB, &a.Doctor, &a.Type, &a.Date, &a.Time); err != nil {
			return nil, err
		}
		appts = append(appts, a)
	}
	return appts, rows.Err()
}

// PgIntakeLedger wraps the same pool behind the IntakeLedger interface. It
// is a distinct type because Record/List collide with the appointment ledger
// methods on PgRepository otherwise.
type PgIntakeLedger struct {
	db DB
}

func NewPgIntakeLedger(pool *pgxpool.Pool) *PgIntakeLedger {
	return &PgIntakeLedger{db: pool}
}

func NewPgIntakeLedgerWithDB(db DB) *PgIntakeLedger {
	return &PgIntakeLedger{db: db}
}

func (r *PgIntakeLedger) Record(ctx context.Context, rec PatientRecord) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO intake_records (name, dob, doctor, location, email, phone, insurance_member_id, insurance_group, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'new', now())
	`, rec.Name, rec.DOB, rec.Doctor, rec.Location, rec.Email, rec.Phone, rec.InsuranceMemberID, rec.InsuranceGroup)
	if err != nil {
		return fmt.Errorf("insert intake record: %w", err)
	}
	return nil
}

func (r *PgIntakeLedger) List(ctx context.Context) ([]PatientRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, dob, doctor, location, email, phone, insurance_member_id, insurance_group, status
		FROM intake_records
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []PatientRecord
	for rows.Next() {
		var p PatientRecord
		if err := rows.Scan(&p.Name, &p.DOB, &p.Doctor, &p.Location, &p.Email, &p.Phone, &p.InsuranceMemberID, &p.InsuranceGroup, &p.Status); err != nil {
			return nil, err
		}
		recs = append(recs, p)
	}
	return recs, rows.Err()
}
