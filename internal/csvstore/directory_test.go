package csvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicareai/clinic-booking/internal/booking"
)

func writeTestDirectory(t *testing.T, records []booking.PatientRecord) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, WriteDirectory(path, records))
	return path
}

func TestDirectoryLookup(t *testing.T) {
	path := writeTestDirectory(t, []booking.PatientRecord{
		{Name: "John Smith", DOB: "1980-01-01", Doctor: "Dr. Gray", Email: "john@example.com", Status: booking.StatusReturning},
		{Name: "Jane Doe", DOB: "1990-05-05", Doctor: "Dr. Brown", Email: "jane@example.com", Status: booking.StatusReturning},
	})
	dir, err := NewDirectory(path)
	require.NoError(t, err)

	ctx := context.Background()

	rec, err := dir.Lookup(ctx, "John Smith", "1980-01-01")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", rec.Email)

	// Name matching is case-insensitive, DOB is exact.
	rec, err = dir.Lookup(ctx, "jOhN sMiTh", "1980-01-01")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", rec.Name)

	_, err = dir.Lookup(ctx, "John Smith", "1980-01-02")
	assert.ErrorIs(t, err, booking.ErrPatientNotFound)

	_, err = dir.Lookup(ctx, "Nobody", "1900-01-01")
	assert.ErrorIs(t, err, booking.ErrPatientNotFound)
}

func TestDirectoryLookupFirstMatchWins(t *testing.T) {
	path := writeTestDirectory(t, []booking.PatientRecord{
		{Name: "John Smith", DOB: "1980-01-01", Email: "first@example.com", Status: booking.StatusReturning},
		{Name: "john smith", DOB: "1980-01-01", Email: "second@example.com", Status: booking.StatusReturning},
	})
	dir, err := NewDirectory(path)
	require.NoError(t, err)

	rec, err := dir.Lookup(context.Background(), "John Smith", "1980-01-01")
	require.NoError(t, err)
	assert.Equal(t, "first@example.com", rec.Email)
}

func TestDirectoryMissingFileIsEmpty(t *testing.T) {
	dir, err := NewDirectory(filepath.Join(t.TempDir(), "absent.csv"))
	require.NoError(t, err)

	_, err = dir.Lookup(context.Background(), "Anyone", "2000-01-01")
	assert.ErrorIs(t, err, booking.ErrPatientNotFound)
}
