package csvstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/medicareai/clinic-booking/internal/booking"
)

var patientHeader = []string{"name", "dob", "doctor", "location", "email", "phone", "insurance_member_id", "insurance_group", "status"}

// Directory is the read-only patient directory. Records are loaded once at
// construction and never written back.
type Directory struct {
	records []booking.PatientRecord
}

func NewDirectory(path string) (*Directory, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}

	records := make([]booking.PatientRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := patientFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		records = append(records, rec)
	}

	return &Directory{records: records}, nil
}

func (d *Directory) Lookup(ctx context.Context, name, dob string) (*booking.PatientRecord, error) {
	for _, rec := range d.records {
		// Duplicate (name, dob) rows are possible in source data; the first
		// row wins.
		if strings.EqualFold(rec.Name, name) && rec.DOB == dob {
			found := rec
			return &found, nil
		}
	}
	return nil, booking.ErrPatientNotFound
}

func patientFromRow(row []string) (booking.PatientRecord, error) {
	if len(row) != len(patientHeader) {
		return booking.PatientRecord{}, fmt.Errorf("want %d columns, got %d", len(patientHeader), len(row))
	}
	return booking.PatientRecord{
		Name:              row[0],
		DOB:               row[1],
		Doctor:            row[2],
		Location:          row[3],
		Email:             row[4],
		Phone:             row[5],
		InsuranceMemberID: row[6],
		InsuranceGroup:    row[7],
		Status:            booking.PatientStatus(row[8]),
	}, nil
}

// WriteDirectory writes a full patient directory file. Used by seeding, not
// by the booking flow: the directory stays read-only during a session.
func WriteDirectory(path string, records []booking.PatientRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, patientToRow(rec))
	}
	return writeRows(path, patientHeader, rows)
}

func patientToRow(rec booking.PatientRecord) []string {
	return []string{
		rec.Name,
		rec.DOB,
		rec.Doctor,
		rec.Location,
		rec.Email,
		rec.Phone,
		rec.InsuranceMemberID,
		rec.InsuranceGroup,
		string(rec.Status),
	}
}
