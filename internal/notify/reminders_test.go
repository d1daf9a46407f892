package notify

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicareai/clinic-booking/internal/booking"
	"github.com/medicareai/clinic-booking/internal/logging"
)

func TestLogSenderSendsThreeReminders(t *testing.T) {
	var buf bytes.Buffer
	logger := &logging.Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}

	sender := NewLogSender(logger)
	sender.SendReminders(context.Background(), "jane@example.com", booking.Appointment{
		PatientName: "Jane Doe",
		Doctor:      "Dr. Gray",
		Date:        "2024-06-01",
		Time:        "09:00",
	})

	out := buf.String()
	assert.Contains(t, out, "intake form sent")
	for _, msg := range []string{"reminder 1 sent", "reminder 2 sent", "reminder 3 sent"} {
		assert.Contains(t, out, msg)
	}
	assert.Equal(t, 3, strings.Count(out, "reminder "))
}
