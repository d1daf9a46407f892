package booking

import "time"

const (
	// DateLayout is the wire and storage format for calendar dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire and storage format for slot times of day.
	TimeLayout = "15:04"
)

type PatientStatus string

const (
	StatusNew       PatientStatus = "new"
	StatusReturning PatientStatus = "returning"
)

// AppointmentType mirrors PatientStatus; a returning patient books a
// returning visit, a patient missing from the directory books a new one.
type AppointmentType string

const (
	TypeNew       AppointmentType = "new"
	TypeReturning AppointmentType = "returning"
)

// PatientRecord is one row of the patient directory. Records are immutable
// once loaded; newly collected profiles go to the intake ledger instead.
type PatientRecord struct {
	Name              string
	DOB               string // DateLayout
	Doctor            string
	Location          string
	Email             string
	Phone             string
	InsuranceMemberID string
	InsuranceGroup    string
	Status            PatientStatus
}

// Slot is one unit of bookable capacity, identified by (doctor, date, time).
type Slot struct {
	Doctor    string
	Date      string // DateLayout
	Time      string // TimeLayout
	Available bool
}

// Key returns the identity of a slot, used for lock scoping.
func (s Slot) Key() string {
	return SlotKey(s.Doctor, s.Date, s.Time)
}

func SlotKey(doctor, date, timeOfDay string) string {
	return doctor + "|" + date + "|" + timeOfDay
}

// Appointment is one confirmed booking. Appended exactly once per successful
// reservation and never mutated afterwards.
type Appointment struct {
	PatientName string
	DOB         string
	Doctor      string
	Type        AppointmentType
	Date        string
	Time        string
}

// ValidDate reports whether raw parses as a calendar date.
func ValidDate(raw string) bool {
	_, err := time.Parse(DateLayout, raw)
	return err == nil
}

// ValidTime reports whether raw parses as an HH:MM time of day.
func ValidTime(raw string) bool {
	_, err := time.Parse(TimeLayout, raw)
	return err == nil
}

// AppointmentDuration returns the advisory visit length in minutes. Slots
// stay on a fixed 30-minute grid regardless; a new-patient visit displays 60
// minutes but still consumes a single slot.
func AppointmentDuration(t AppointmentType) int {
	if t == TypeNew {
		return 60
	}
	return 30
}
