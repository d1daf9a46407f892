package booking

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrSlotUnavailable = errors.New("slot is not available")
	ErrLockNotAcquired = errors.New("slot lock not acquired")
)

// PatientDirectory is the read-only source of known patient identities.
// The booking flow never writes through it.
type PatientDirectory interface {
	// Lookup matches name case-insensitively and dob exactly, returning the
	// first match or ErrPatientNotFound.
	Lookup(ctx context.Context, name, dob string) (*PatientRecord, error)
}

// ScheduleStore is the single source of truth for slot availability.
type ScheduleStore interface {
	// Doctors lists the distinct doctors present in the schedule.
	Doctors(ctx context.Context) ([]string, error)

	// AvailableSlots lists the doctor's open slots in store order.
	AvailableSlots(ctx context.Context, doctor string) ([]Slot, error)

	// Reserve flips the first matching available slot to unavailable and
	// persists the change. Returns ErrSlotUnavailable, with no writes, when
	// no matching available slot exists.
	Reserve(ctx context.Context, doctor, date, timeOfDay string) (*Slot, error)
}

// AppointmentLedger is the append-only record of confirmed bookings.
type AppointmentLedger interface {
	Record(ctx context.Context, appt Appointment) error
	List(ctx context.Context) ([]Appointment, error)
}

// IntakeLedger is the append-only record of newly collected patient
// profiles. Implementations treat a missing backing store as empty.
type IntakeLedger interface {
	Record(ctx context.Context, rec PatientRecord) error
	List(ctx context.Context) ([]PatientRecord, error)
}

// Locker guards the reserve critical section per slot so that concurrent
// bookings of the same slot cannot interleave.
type Locker interface {
	WithSlotLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}
