package booking

import "github.com/google/uuid"

type State string

const (
	StateAwaitingLookup  State = "awaiting_lookup"
	StatePatientResolved State = "patient_resolved"
	StateSlotChosen      State = "slot_chosen"
	StateBooked          State = "booked"
)

// Intake carries the contact and insurance fields a new patient must supply
// before booking.
type Intake struct {
	Email             string
	Location          string
	Phone             string
	InsuranceMemberID string
	InsuranceGroup    string
}

// Session holds the per-flow state of one booking interaction. It replaces
// the process-wide form state of earlier iterations: every service operation
// takes the session it acts on.
type Session struct {
	ID    uuid.UUID
	State State

	PatientName string
	DOB         string
	Type        AppointmentType
	Intake      Intake

	// Chosen slot, valid from StateSlotChosen onward.
	Doctor string
	Date   string
	Time   string
}

func NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		State: StateAwaitingLookup,
	}
}

// intakeComplete reports whether enough contact data exists to book a
// new-patient visit. Returning patients are pre-filled from the directory.
func (s *Session) intakeComplete() bool {
	return s.Intake.Email != "" && s.Intake.Phone != ""
}
