package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/medicareai/clinic-booking/internal/booking"
)

func createSessionHandler(reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := reg.Create()
		writeJSON(w, http.StatusCreated, SessionResponse{
			SessionID: sess.ID,
			State:     string(sess.State),
		})
	}
}

func lookupHandler(svc *booking.Service, reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req LookupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var resp LookupResponse
		err := reg.With(id, func(sess *booking.Session) error {
			res, err := svc.LookupPatient(r.Context(), sess, req.Name, req.DOB)
			if err != nil {
				return err
			}
			resp = LookupResponse{
				SessionID:       sess.ID,
				State:           string(sess.State),
				PatientType:     string(res.Type),
				DurationMinutes: res.DurationMinutes,
			}
			if res.Record != nil {
				resp.Contact = &ContactDetails{
					Email:             res.Record.Email,
					Location:          res.Record.Location,
					Phone:             res.Record.Phone,
					InsuranceMemberID: res.Record.InsuranceMemberID,
					InsuranceGroup:    res.Record.InsuranceGroup,
				}
			}
			return nil
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func intakeHandler(svc *booking.Service, reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req IntakeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var resp SessionResponse
		err := reg.With(id, func(sess *booking.Session) error {
			if err := svc.SetIntake(sess, booking.Intake{
				Email:             req.Email,
				Location:          req.Location,
				Phone:             req.Phone,
				InsuranceMemberID: req.InsuranceMemberID,
				InsuranceGroup:    req.InsuranceGroup,
			}); err != nil {
				return err
			}
			resp = SessionResponse{SessionID: sess.ID, State: string(sess.State)}
			return nil
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func doctorsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := svc.Doctors(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, DoctorsResponse{Doctors: doctors})
	}
}

func slotsHandler(svc *booking.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctor := chi.URLParam(r, "doctor")

		slots, err := svc.AvailableSlots(r.Context(), doctor)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		resp := SlotsResponse{Doctor: doctor, Slots: make([]SlotResponse, 0, len(slots))}
		for _, slot := range slots {
			resp.Slots = append(resp.Slots, SlotResponse{Date: slot.Date, Time: slot.Time})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func chooseSlotHandler(svc *booking.Service, reg *SessionRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var req ChooseSlotRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		var resp SessionResponse
		err := reg.With(id, func(sess *booking.Session) error {
			if err := svc.ChooseSlot(r.Context(), sess, req.Doctor, req.Date, req.Time); err != nil {
				return err
			}
			resp = SessionResponse{SessionID: sess.ID, State: string(sess.State)}
			return nil
		})
		if err != nil {
			handleBookingError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func bookHandler(svc *booking.Service, reg *SessionRegistry, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r)
		if !ok {
			return
		}

		var resp BookResponse
		var patientType booking.AppointmentType
		err := reg.With(id, func(sess *booking.Session) error {
			patientType = sess.Type
			result, err := svc.Book(r.Context(), sess)
			if err != nil {
				return err
			}
			resp = BookResponse{
				SessionID: sess.ID,
				State:     string(sess.State),
				Appointment: AppointmentResponse{
					PatientName: result.Appointment.PatientName,
					DOB:         result.Appointment.DOB,
					Doctor:      result.Appointment.Doctor,
					Type:        string(result.Appointment.Type),
					Date:        result.Appointment.Date,
					Time:        result.Appointment.Time,
				},
				Confirmation:         result.Confirmation,
				ConfirmationDegraded: result.ConfirmationDegraded,
				Warnings:             result.Warnings,
			}
			return nil
		})
		if err != nil {
			if metrics != nil {
				metrics.BookingsTotal.WithLabelValues(string(patientType), bookingOutcome(err)).Inc()
			}
			handleBookingError(w, err)
			return
		}

		if metrics != nil {
			metrics.BookingsTotal.WithLabelValues(string(patientType), "booked").Inc()
			if resp.ConfirmationDegraded {
				metrics.GeneratorFailures.Inc()
			}
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_session_id", "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func bookingOutcome(err error) string {
	switch {
	case errors.Is(err, booking.ErrSlotUnavailable):
		return "slot_unavailable"
	case errors.Is(err, booking.ErrSlotBeingBooked):
		return "contended"
	default:
		return "error"
	}
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, booking.ErrIntakeRequired):
		writeError(w, http.StatusUnprocessableEntity, "intake_required", err.Error())
	case errors.Is(err, booking.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, booking.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "slot_unavailable", "slot is no longer available, please select another slot")
	case errors.Is(err, booking.ErrSlotBeingBooked),
		errors.Is(err, booking.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "slot_being_booked", "slot is currently being booked, please retry shortly")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
