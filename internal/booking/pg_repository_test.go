package booking

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *PgRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewPgRepositoryWithDB(mock)
}

func TestPgLookup(t *testing.T) {
	mock, repo := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"name", "dob", "doctor", "location", "email", "phone", "insurance_member_id", "insurance_group", "status"}).
		AddRow("Jane Doe", "1990-05-05", "Dr. Gray", "Springfield", "jane@example.com", "555-0100", "abc1234", "G1", "returning")
	mock.ExpectQuery("SELECT name, dob, doctor, location").
		WithArgs("jane doe", "1990-05-05").
		WillReturnRows(rows)

	rec, err := repo.Lookup(context.Background(), "jane doe", "1990-05-05")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, StatusReturning, rec.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgLookupNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT name, dob, doctor, location").
		WithArgs("Nobody", "1900-01-01").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Lookup(context.Background(), "Nobody", "1900-01-01")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgReserve(t *testing.T) {
	mock, repo := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"doctor", "slot_date", "slot_time", "available"}).
		AddRow("Dr. Gray", "2024-06-01", "09:00", false)
	mock.ExpectQuery("UPDATE schedule_slots").
		WithArgs("Dr. Gray", "2024-06-01", "09:00").
		WillReturnRows(rows)

	slot, err := repo.Reserve(context.Background(), "Dr. Gray", "2024-06-01", "09:00")
	require.NoError(t, err)
	assert.False(t, slot.Available)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgReserveUnavailable(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("UPDATE schedule_slots").
		WithArgs("Dr. Gray", "2024-06-01", "09:00").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.Reserve(context.Background(), "Dr. Gray", "2024-06-01", "09:00")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgAvailableSlots(t *testing.T) {
	mock, repo := newMockRepo(t)

	rows := pgxmock.NewRows([]string{"doctor", "slot_date", "slot_time", "available"}).
		AddRow("Dr. Gray", "2024-06-01", "09:00", true).
		AddRow("Dr. Gray", "2024-06-01", "09:30", true)
	mock.ExpectQuery("SELECT doctor, slot_date, slot_time, available").
		WithArgs("Dr. Gray").
		WillReturnRows(rows)

	slots, err := repo.AvailableSlots(context.Background(), "Dr. Gray")
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "09:30", slots[1].Time)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgRecordAppointment(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs("Jane Doe", "1990-05-05", "Dr. Gray", TypeReturning, "2024-06-01", "09:00").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.Record(context.Background(), Appointment{
		PatientName: "Jane Doe",
		DOB:         "1990-05-05",
		Doctor:      "Dr. Gray",
		Type:        TypeReturning,
		Date:        "2024-06-01",
		Time:        "09:00",
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPgIntakeRecordForcesNewStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	ledger := NewPgIntakeLedgerWithDB(mock)

	mock.ExpectExec("INSERT INTO intake_records").
		WithArgs("John New", "1980-01-01", "Dr. Gray", "Shelbyville", "john@example.com", "555-0101", "xyz9876", "G2").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = ledger.Record(context.Background(), PatientRecord{
		Name:              "John New",
		DOB:               "1980-01-01",
		Doctor:            "Dr. Gray",
		Location:          "Shelbyville",
		Email:             "john@example.com",
		Phone:             "555-0101",
		InsuranceMemberID: "xyz9876",
		InsuranceGroup:    "G2",
	})
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
