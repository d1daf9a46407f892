// Package seed generates synthetic clinic data: a patient directory and a
// fully open doctor schedule on a 30-minute grid.
package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/medicareai/clinic-booking/internal/booking"
)

// Doctors is the clinic roster.
var Doctors = []string{"Dr. Gray", "Dr. Brown", "Dr. Black"}

const (
	// DefaultPatients is the directory size when none is given.
	DefaultPatients = 50
	// DefaultScheduleDays is how many days of slots to generate.
	DefaultScheduleDays = 3
)

// Patients generates n synthetic directory records, ages 18 to 90.
func Patients(n int) []booking.PatientRecord {
	now := time.Now()
	records := make([]booking.PatientRecord, 0, n)
	for i := 0; i < n; i++ {
		dob := gofakeit.DateRange(now.AddDate(-90, 0, 0), now.AddDate(-18, 0, 0))
		status := booking.StatusReturning
		if gofakeit.Bool() {
			status = booking.StatusNew
		}
		records = append(records, booking.PatientRecord{
			Name:              gofakeit.Name(),
			DOB:               dob.Format(booking.DateLayout),
			Doctor:            Doctors[gofakeit.Number(0, len(Doctors)-1)],
			Location:          gofakeit.City(),
			Email:             gofakeit.Email(),
			Phone:             gofakeit.Phone(),
			InsuranceMemberID: gofakeit.Numerify(gofakeit.Lexify("???####")),
			InsuranceGroup:    gofakeit.Numerify("G#"),
			Status:            status,
		})
	}
	return records
}

// ScheduleSlots generates the full open schedule: every doctor, `days`
// consecutive days starting at `start`, half-hour slots from 09:00 through
// 16:30.
func ScheduleSlots(start time.Time, days int) []booking.Slot {
	var slots []booking.Slot
	for _, doctor := range Doctors {
		for day := 0; day < days; day++ {
			date := start.AddDate(0, 0, day).Format(booking.DateLayout)
			for hour := 9; hour < 17; hour++ {
				for _, minute := range []int{0, 30} {
					slots = append(slots, booking.Slot{
						Doctor:    doctor,
						Date:      date,
						Time:      fmt.Sprintf("%02d:%02d", hour, minute),
						Available: true,
					})
				}
			}
		}
	}
	return slots
}
