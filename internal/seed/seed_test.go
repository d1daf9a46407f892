package seed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicareai/clinic-booking/internal/booking"
)

func TestPatientsShape(t *testing.T) {
	records := Patients(25)
	require.Len(t, records, 25)

	now := time.Now()
	for _, rec := range records {
		assert.NotEmpty(t, rec.Name)
		assert.Contains(t, Doctors, rec.Doctor)
		assert.True(t, booking.ValidDate(rec.DOB), "dob %q", rec.DOB)
		assert.Contains(t, []booking.PatientStatus{booking.StatusNew, booking.StatusReturning}, rec.Status)
		assert.NotEmpty(t, rec.Email)
		assert.Len(t, rec.InsuranceMemberID, 7)
		assert.Len(t, rec.InsuranceGroup, 2)

		dob, err := time.Parse(booking.DateLayout, rec.DOB)
		require.NoError(t, err)
		age := now.Year() - dob.Year()
		assert.GreaterOrEqual(t, age, 17)
		assert.LessOrEqual(t, age, 91)
	}
}

func TestScheduleSlotsGrid(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	slots := ScheduleSlots(start, 3)

	// doctors x days x 16 half-hour slots from 09:00 through 16:30
	require.Len(t, slots, len(Doctors)*3*16)

	assert.Equal(t, booking.Slot{Doctor: "Dr. Gray", Date: "2024-06-01", Time: "09:00", Available: true}, slots[0])
	assert.Equal(t, "16:30", slots[15].Time)

	for _, slot := range slots {
		assert.True(t, slot.Available)
		assert.True(t, booking.ValidDate(slot.Date))
		assert.True(t, booking.ValidTime(slot.Time))
	}
}
