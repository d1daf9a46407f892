package csvstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/medicareai/clinic-booking/internal/booking"
)

var appointmentHeader = []string{"name", "dob", "doctor", "appt_type", "date", "time"}

// AppointmentLedger appends confirmed bookings to a CSV file. Each Record
// call loads the existing entries, appends one, and rewrites the file; the
// mutex makes the read-modify-write safe within this process.
type AppointmentLedger struct {
	path string
	mu   sync.Mutex
}

func NewAppointmentLedger(path string) *AppointmentLedger {
	return &AppointmentLedger{path: path}
}

func (l *AppointmentLedger) Record(ctx context.Context, appt booking.Appointment) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := readRows(l.path)
	if err != nil {
		return err
	}
	rows = append(rows, []string{
		appt.PatientName,
		appt.DOB,
		appt.Doctor,
		string(appt.Type),
		appt.Date,
		appt.Time,
	})
	return writeRows(l.path, appointmentHeader, rows)
}

func (l *AppointmentLedger) List(ctx context.Context) ([]booking.Appointment, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := readRows(l.path)
	if err != nil {
		return nil, err
	}

	appts := make([]booking.Appointment, 0, len(rows))
	for i, row := range rows {
		if len(row) != len(appointmentHeader) {
			return nil, fmt.Errorf("%s row %d: want %d columns, got %d", l.path, i+2, len(appointmentHeader), len(row))
		}
		appts = append(appts, booking.Appointment{
			PatientName: row[0],
			DOB:         row[1],
			Doctor:      row[2],
			Type:        booking.AppointmentType(row[3]),
			Date:        row[4],
			Time:        row[5],
		})
	}
	return appts, nil
}

// IntakeLedger appends new-patient profiles. Missing or empty file is the
// "no entries yet" state.
type IntakeLedger struct {
	path string
	mu   sync.Mutex
}

func NewIntakeLedger(path string) *IntakeLedger {
	return &IntakeLedger{path: path}
}

func (l *IntakeLedger) Record(ctx context.Context, rec booking.PatientRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rec.Status = booking.StatusNew

	rows, err := readRows(l.path)
	if err != nil {
		return err
	}
	rows = append(rows, patientToRow(rec))
	return writeRows(l.path, patientHeader, rows)
}

func (l *IntakeLedger) List(ctx context.Context) ([]booking.PatientRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows, err := readRows(l.path)
	if err != nil {
		return nil, err
	}

	recs := make([]booking.PatientRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := patientFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", l.path, i+2, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

var (
	_ booking.PatientDirectory  = (*Directory)(nil)
	_ booking.ScheduleStore     = (*Schedule)(nil)
	_ booking.AppointmentLedger = (*AppointmentLedger)(nil)
	_ booking.IntakeLedger      = (*IntakeLedger)(nil)
)
