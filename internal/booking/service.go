package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/medicareai/clinic-booking/internal/logging"
)

var (
	ErrInvalidState    = errors.New("operation not valid in current session state")
	ErrIntakeRequired  = errors.New("intake details required before booking")
	ErrInvalidInput    = errors.New("invalid input")
	ErrSlotBeingBooked = errors.New("slot is currently being booked, please retry")
)

// ConfirmationGenerator produces the human-readable confirmation text for a
// booked appointment. Failures never affect the booking itself.
type ConfirmationGenerator interface {
	Generate(ctx context.Context, patientName, doctor, timeOfDay, date string) (string, error)
}

// ReminderSender delivers placeholder reminder acknowledgments. Best effort,
// no delivery guarantee.
type ReminderSender interface {
	SendReminders(ctx context.Context, email string, appt Appointment)
}

// LookupResult is what the caller sees after resolving a patient.
type LookupResult struct {
	Type            AppointmentType
	DurationMinutes int
	// Record is non-nil for returning patients and carries the directory
	// row used to pre-fill contact and insurance fields.
	Record *PatientRecord
}

// BookingResult is the outcome of a successful Book call. Warnings carry
// persistence problems that were surfaced without unwinding the reservation.
type BookingResult struct {
	Appointment          Appointment
	Confirmation         string
	ConfirmationDegraded bool
	Warnings             []string
}

// Deps collects the collaborators of the booking service.
type Deps struct {
	Directory    PatientDirectory
	Schedule     ScheduleStore
	Appointments AppointmentLedger
	Intake       IntakeLedger
	Locker       Locker
	Generator    ConfirmationGenerator
	Reminders    ReminderSender
	Logger       *logging.Logger

	// GeneratorTimeout bounds the confirmation call so a slow generator
	// never blocks an already-committed booking.
	GeneratorTimeout time.Duration
}

// Service orchestrates lookup, slot selection, reservation and persistence.
// It is the only component holding business rules; the stores behind it are
// narrow and dumb.
type Service struct {
	deps Deps
}

func NewService(deps Deps) *Service {
	if deps.Logger == nil {
		deps.Logger = logging.Default()
	}
	if deps.GeneratorTimeout <= 0 {
		deps.GeneratorTimeout = 30 * time.Second
	}
	return &Service{deps: deps}
}

// LookupPatient resolves the patient and moves the session to
// StatePatientResolved. A directory miss is the new-patient path, not an
// error: the session type flips to new and intake fields are cleared for
// fresh entry.
func (s *Service) LookupPatient(ctx context.Context, sess *Session, name, dob string) (*LookupResult, error) {
	if sess.State == StateBooked {
		return nil, ErrInvalidState
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: patient name is required", ErrInvalidInput)
	}
	if !ValidDate(dob) {
		return nil, fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrInvalidInput)
	}

	sess.PatientName = name
	sess.DOB = dob
	sess.Doctor, sess.Date, sess.Time = "", "", ""

	rec, err := s.deps.Directory.Lookup(ctx, name, dob)
	switch {
	case errors.Is(err, ErrPatientNotFound):
		sess.Type = TypeNew
		sess.Intake = Intake{}
	case err != nil:
		return nil, fmt.Errorf("lookup patient: %w", err)
	default:
		sess.Type = TypeReturning
		// Canonical spelling from the directory, not the typed form.
		sess.PatientName = rec.Name
		sess.Intake = Intake{
			Email:             rec.Email,
			Location:          rec.Location,
			Phone:             rec.Phone,
			InsuranceMemberID: rec.InsuranceMemberID,
			InsuranceGroup:    rec.InsuranceGroup,
		}
	}

	sess.State = StatePatientResolved

	return &LookupResult{
		Type:            sess.Type,
		DurationMinutes: AppointmentDuration(sess.Type),
		Record:          rec,
	}, nil
}

// SetIntake records the contact and insurance details of a new patient.
func (s *Service) SetIntake(sess *Session, intake Intake) error {
	if sess.State != StatePatientResolved && sess.State != StateSlotChosen {
		return ErrInvalidState
	}
	if sess.Type != TypeNew {
		return fmt.Errorf("%w: intake applies to new patients only", ErrInvalidState)
	}
	sess.Intake = intake
	return nil
}

// Doctors lists the schedule's distinct doctors.
func (s *Service) Doctors(ctx context.Context) ([]string, error) {
	return s.deps.Schedule.Doctors(ctx)
}

// AvailableSlots lists the doctor's open slots in store order.
func (s *Service) AvailableSlots(ctx context.Context, doctor string) ([]Slot, error) {
	return s.deps.Schedule.AvailableSlots(ctx, doctor)
}

// ChooseSlot records the slot selection on the session. The slot must be
// open right now, and it is checked again inside Book since availability can
// change between display and confirmation.
func (s *Service) ChooseSlot(ctx context.Context, sess *Session, doctor, date, timeOfDay string) error {
	if sess.State != StatePatientResolved && sess.State != StateSlotChosen {
		return ErrInvalidState
	}
	if !ValidDate(date) || !ValidTime(timeOfDay) {
		return fmt.Errorf("%w: slot must be YYYY-MM-DD and HH:MM", ErrInvalidInput)
	}

	open, err := s.deps.Schedule.AvailableSlots(ctx, doctor)
	if err != nil {
		return fmt.Errorf("list slots: %w", err)
	}
	found := false
	for _, slot := range open {
		if slot.Date == date && slot.Time == timeOfDay {
			found = true
			break
		}
	}
	if !found {
		return ErrSlotUnavailable
	}

	sess.Doctor, sess.Date, sess.Time = doctor, date, timeOfDay
	sess.State = StateSlotChosen
	return nil
}

// Book reserves the chosen slot and persists the appointment. The reserve
// runs under a per-slot lock so concurrent bookings of the same slot cannot
// both succeed. On ErrSlotUnavailable nothing is written and the caller must
// pick another slot. Ledger and generator failures after a successful
// reservation are surfaced as warnings or degraded text, never rolled back.
func (s *Service) Book(ctx context.Context, sess *Session) (*BookingResult, error) {
	if sess.State != StateSlotChosen {
		return nil, ErrInvalidState
	}
	if sess.Type == TypeNew && !sess.intakeComplete() {
		return nil, ErrIntakeRequired
	}

	key := SlotKey(sess.Doctor, sess.Date, sess.Time)
	err := s.deps.Locker.WithSlotLock(ctx, key, func(lockCtx context.Context) error {
		_, err := s.deps.Schedule.Reserve(lockCtx, sess.Doctor, sess.Date, sess.Time)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrLockNotAcquired) {
			return nil, ErrSlotBeingBooked
		}
		if errors.Is(err, ErrSlotUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("reserve slot: %w", err)
	}

	appt := Appointment{
		PatientName: sess.PatientName,
		DOB:         sess.DOB,
		Doctor:      sess.Doctor,
		Type:        sess.Type,
		Date:        sess.Date,
		Time:        sess.Time,
	}

	result := &BookingResult{Appointment: appt}

	// Slot is committed from here on. Record failures are reported, not
	// unwound.
	if err := s.deps.Appointments.Record(ctx, appt); err != nil {
		s.deps.Logger.Error("record appointment failed", "error", err, "slot", key)
		result.Warnings = append(result.Warnings, fmt.Sprintf("appointment record not persisted: %v", err))
	}

	if sess.Type == TypeNew {
		rec := PatientRecord{
			Name:              sess.PatientName,
			DOB:               sess.DOB,
			Doctor:            sess.Doctor,
			Location:          sess.Intake.Location,
			Email:             sess.Intake.Email,
			Phone:             sess.Intake.Phone,
			InsuranceMemberID: sess.Intake.InsuranceMemberID,
			InsuranceGroup:    sess.Intake.InsuranceGroup,
			Status:            StatusNew,
		}
		if err := s.deps.Intake.Record(ctx, rec); err != nil {
			s.deps.Logger.Error("record intake failed", "error", err, "patient", sess.PatientName)
			result.Warnings = append(result.Warnings, fmt.Sprintf("intake record not persisted: %v", err))
		}
	}

	sess.State = StateBooked

	if s.deps.Reminders != nil {
		s.deps.Reminders.SendReminders(ctx, sess.Intake.Email, appt)
	}

	result.Confirmation, result.ConfirmationDegraded = s.confirmationText(ctx, appt)

	return result, nil
}

func (s *Service) confirmationText(ctx context.Context, appt Appointment) (string, bool) {
	if s.deps.Generator == nil {
		return "", true
	}

	genCtx, cancel := context.WithTimeout(ctx, s.deps.GeneratorTimeout)
	defer cancel()

	text, err := s.deps.Generator.Generate(genCtx, appt.PatientName, appt.Doctor, appt.Time, appt.Date)
	if err != nil {
		s.deps.Logger.Warn("confirmation generation failed", "error", err, "patient", appt.PatientName)
		return fmt.Sprintf("[generator error]: %v", err), true
	}
	return text, false
}
