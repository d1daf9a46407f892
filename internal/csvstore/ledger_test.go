package csvstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicareai/clinic-booking/internal/booking"
)

func TestAppointmentLedgerAppends(t *testing.T) {
	ledger := NewAppointmentLedger(filepath.Join(t.TempDir(), "appointments.csv"))
	ctx := context.Background()

	var want []booking.Appointment
	for i := 0; i < 5; i++ {
		appt := booking.Appointment{
			PatientName: fmt.Sprintf("Patient %d", i),
			DOB:         "1980-01-01",
			Doctor:      "Dr. Gray",
			Type:        booking.TypeReturning,
			Date:        "2024-06-01",
			Time:        fmt.Sprintf("09:%02d", i*10),
		}
		require.NoError(t, ledger.Record(ctx, appt))
		want = append(want, appt)
	}

	got, err := ledger.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestAppointmentLedgerMissingFileIsEmpty(t *testing.T) {
	ledger := NewAppointmentLedger(filepath.Join(t.TempDir(), "appointments.csv"))

	got, err := ledger.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIntakeLedgerForcesNewStatus(t *testing.T) {
	ledger := NewIntakeLedger(filepath.Join(t.TempDir(), "new_patients.csv"))
	ctx := context.Background()

	err := ledger.Record(ctx, booking.PatientRecord{
		Name:   "Jane Doe",
		DOB:    "1990-05-05",
		Doctor: "Dr. Gray",
		Email:  "jane@example.com",
		Status: booking.StatusReturning, // overwritten on record
	})
	require.NoError(t, err)

	recs, err := ledger.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, booking.StatusNew, recs[0].Status)
	assert.Equal(t, "Jane Doe", recs[0].Name)
}

func TestIntakeLedgerToleratesEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new_patients.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	ledger := NewIntakeLedger(path)
	ctx := context.Background()

	recs, err := ledger.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, ledger.Record(ctx, booking.PatientRecord{Name: "A", DOB: "2000-01-01"}))
	recs, err = ledger.List(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
