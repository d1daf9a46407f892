// Package notify delivers placeholder booking acknowledgments. There is no
// real delivery channel yet: reminders and the intake form notice are logged
// so operators can see they fired.
package notify

import (
	"context"
	"fmt"

	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/logging"
)

// reminderCount matches the three acknowledgments the clinic sends today.
const reminderCount = 3

// LogSender acknowledges reminders in the log. Best effort by design: a
// booking never fails because a reminder did.
type LogSender struct {
	logger *logging.Logger
}

func NewLogSender(logger *logging.Logger) *LogSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) SendReminders(ctx context.Context, email string, appt booking.Appointment) {
	s.logger.Info("intake form sent",
		"email", email,
		"patient", appt.PatientName,
	)
	for i := 1; i <= reminderCount; i++ {
		s.logger.Info(fmt.Sprintf("reminder %d sent", i),
			"email", email,
			"patient", appt.PatientName,
			"doctor", appt.Doctor,
			"date", appt.Date,
			"time", appt.Time,
		)
	}
}

var _ booking.ReminderSender = (*LogSender)(nil)
