package csvstore

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/medicareai/clinic-booking/internal/booking"
)

var scheduleHeader = []string{"doctor", "date", "time", "available"}

// Schedule is the mutable slot table. Slots are held in memory in file
// order; Reserve flips one slot and rewrites the file under the mutex, so
// sequential use can never book a slot twice.
type Schedule struct {
	path string

	mu    sync.Mutex
	slots []booking.Slot
}

func NewSchedule(path string) (*Schedule, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	slots := make([]booking.Slot, 0, len(rows))
	for i, row := range rows {
		slot, err := slotFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		slots = append(slots, slot)
	}

	return &Schedule{path: path, slots: slots}, nil
}

func (s *Schedule) Doctors(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var doctors []string
	for _, slot := range s.slots {
		if !seen[slot.Doctor] {
			seen[slot.Doctor] = true
			doctors = append(doctors, slot.Doctor)
		}
	}
	return doctors, nil
}

func (s *Schedule) AvailableSlots(ctx context.Context, doctor string) ([]booking.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []booking.Slot
	for _, slot := range s.slots {
		if slot.Doctor == doctor && slot.Available {
			open = append(open, slot)
		}
	}
	return open, nil
}

func (s *Schedule) Reserve(ctx context.Context, doctor, date, timeOfDay string) (*booking.Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.slots {
		slot := &s.slots[i]
		if slot.Doctor == doctor && slot.Date == date && slot.Time == timeOfDay && slot.Available {
			slot.Available = false
			if err := s.persistLocked(); err != nil {
				// Keep memory and disk consistent: an unpersisted flip is
				// not a reservation.
				slot.Available = true
				return nil, fmt.Errorf("persist schedule: %w", err)
			}
			reserved := *slot
			return &reserved, nil
		}
	}
	return nil, booking.ErrSlotUnavailable
}

func (s *Schedule) persistLocked() error {
	rows := make([][]string, 0, len(s.slots))
	for _, slot := range s.slots {
		rows = append(rows, []string{
			slot.Doctor,
			slot.Date,
			slot.Time,
			strconv.FormatBool(slot.Available),
		})
	}
	return writeRows(s.path, scheduleHeader, rows)
}

// WriteSchedule writes a full schedule file. Used by seeding.
func WriteSchedule(path string, slots []booking.Slot) error {
	rows := make([][]string, 0, len(slots))
	for _, slot := range slots {
		rows = append(rows, []string{
			slot.Doctor,
			slot.Date,
			slot.Time,
			strconv.FormatBool(slot.Available),
		})
	}
	return writeRows(path, scheduleHeader, rows)
}

func slotFromRow(row []string) (booking.Slot, error) {
	if len(row) != len(scheduleHeader) {
		return booking.Slot{}, fmt.Errorf("want %d columns, got %d", len(scheduleHeader), len(row))
	}
	available, err := strconv.ParseBool(row[3])
	if err != nil {
		return booking.Slot{}, fmt.Errorf("available column: %w", err)
	}
	return booking.Slot{
		Doctor:    row[0],
		Date:      row[1],
		Time:      row[2],
		Available: available,
	}, nil
}
