package booking_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/csvstore"
)

type staticGenerator struct{}

func (staticGenerator) Generate(ctx context.Context, patientName, doctor, timeOfDay, date string) (string, error) {
	return "Your appointment with " + doctor + " is confirmed.", nil
}

// TestReturningPatientWorkflow walks the whole flow against the CSV stores:
// lookup a returning patient, list Dr. Gray's slots, book 2024-06-01 09:00,
// then verify the slot cannot be taken again and the ledger holds one entry.
func TestReturningPatientWorkflow(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	patientsPath := filepath.Join(dir, "patients.csv")
	require.NoError(t, csvstore.WriteDirectory(patientsPath, []booking.PatientRecord{{
		Name:   "Jane Doe",
		DOB:    "1990-05-05",
		Doctor: "Dr. Gray",
		Email:  "jane@example.com",
		Phone:  "555-0100",
		Status: booking.StatusReturning,
	}}))

	schedulePath := filepath.Join(dir, "doctor_schedule.csv")
	require.NoError(t, csvstore.WriteSchedule(schedulePath, []booking.Slot{
		{Doctor: "Dr. Gray", Date: "2024-06-01", Time: "09:00", Available: true},
		{Doctor: "Dr. Gray", Date: "2024-06-01", Time: "09:30", Available: true},
	}))

	directory, err := csvstore.NewDirectory(patientsPath)
	require.NoError(t, err)
	schedule, err := csvstore.NewSchedule(schedulePath)
	require.NoError(t, err)
	appointments := csvstore.NewAppointmentLedger(filepath.Join(dir, "appointments.csv"))
	intake := csvstore.NewIntakeLedger(filepath.Join(dir, "new_patients.csv"))

	svc := booking.NewService(booking.Deps{
		Directory:    directory,
		Schedule:     schedule,
		Appointments: appointments,
		Intake:       intake,
		Locker:       booking.NewMutexLocker(),
		Generator:    staticGenerator{},
	})

	sess := booking.NewSession()

	res, err := svc.LookupPatient(ctx, sess, "jane doe", "1990-05-05")
	require.NoError(t, err)
	assert.Equal(t, booking.TypeReturning, res.Type)
	assert.Equal(t, 30, res.DurationMinutes)

	open, err := svc.AvailableSlots(ctx, "Dr. Gray")
	require.NoError(t, err)
	require.NotEmpty(t, open)
	assert.Equal(t, "2024-06-01", open[0].Date)
	assert.Equal(t, "09:00", open[0].Time)

	require.NoError(t, svc.ChooseSlot(ctx, sess, "Dr. Gray", "2024-06-01", "09:00"))

	result, err := svc.Book(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, "Your appointment with Dr. Gray is confirmed.", result.Confirmation)

	// Same triple again: unavailable.
	_, err = schedule.Reserve(ctx, "Dr. Gray", "2024-06-01", "09:00")
	assert.ErrorIs(t, err, booking.ErrSlotUnavailable)

	booked, err := appointments.List(ctx)
	require.NoError(t, err)
	require.Len(t, booked, 1)
	assert.Equal(t, booking.Appointment{
		PatientName: "Jane Doe",
		DOB:         "1990-05-05",
		Doctor:      "Dr. Gray",
		Type:        booking.TypeReturning,
		Date:        "2024-06-01",
		Time:        "09:00",
	}, booked[0])

	// The directory is never written by the booking flow.
	none, err := intake.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, none)
}
