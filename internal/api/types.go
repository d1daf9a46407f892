package api

import "github.com/google/uuid"

type SessionResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	State     string    `json:"state"`
}

type LookupRequest struct {
	Name string `json:"name"`
	DOB  string `json:"dob"`
}

type ContactDetails struct {
	Email             string `json:"email"`
	Location          string `json:"location"`
	Phone             string `json:"phone"`
	InsuranceMemberID string `json:"insurance_member_id"`
	InsuranceGroup    string `json:"insurance_group"`
}

type LookupResponse struct {
	SessionID       uuid.UUID       `json:"session_id"`
	State           string          `json:"state"`
	PatientType     string          `json:"patient_type"`
	DurationMinutes int             `json:"duration_minutes"`
	Contact         *ContactDetails `json:"contact,omitempty"`
}

type IntakeRequest struct {
	Email             string `json:"email"`
	Location          string `json:"location"`
	Phone             string `json:"phone"`
	InsuranceMemberID string `json:"insurance_member_id"`
	InsuranceGroup    string `json:"insurance_group"`
}

type DoctorsResponse struct {
	Doctors []string `json:"doctors"`
}

type SlotResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type SlotsResponse struct {
	Doctor string         `json:"doctor"`
	Slots  []SlotResponse `json:"slots"`
}

type ChooseSlotRequest struct {
	Doctor string `json:"doctor"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

type AppointmentResponse struct {
	PatientName string `json:"patient_name"`
	DOB         string `json:"dob"`
	Doctor      string `json:"doctor"`
	Type        string `json:"appt_type"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

type BookResponse struct {
	SessionID            uuid.UUID           `json:"session_id"`
	State                string              `json:"state"`
	Appointment          AppointmentResponse `json:"appointment"`
	Confirmation         string              `json:"confirmation"`
	ConfirmationDegraded bool                `json:"confirmation_degraded"`
	Warnings             []string            `json:"warnings,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
