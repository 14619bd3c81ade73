package scheduling

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"medicicol-server/internal/models"
)

// Booking rule violations. Handlers translate these into HTTP statuses.
var (
	// ErrSlotTaken means a non-cancelled appointment already holds the slot.
	ErrSlotTaken = errors.New("slot already booked for this doctor")
	// ErrDoctorUnavailable means no availability window covers the slot.
	ErrDoctorUnavailable = errors.New("doctor is not available at this time")
	// ErrSpecialtyMismatch means the doctor does not belong to the requested specialty.
	ErrSpecialtyMismatch = errors.New("doctor does not belong to the requested specialty")
	// ErrInvalidSlot wraps date/time parse failures.
	ErrInvalidSlot = errors.New("invalid slot")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// BookingRequest carries the validated input for creating an appointment.
// SpecialtyID may be empty; it then defaults to the doctor's specialty.
type BookingRequest struct {
	PatientID   string
	DoctorID    string
	SpecialtyID string
	Date        string
	Time        string
}

// RescheduleRequest carries the optional new slot for an appointment.
// Empty fields keep the appointment's current values.
type RescheduleRequest struct {
	DoctorID string
	Date     string
	Time     string
}

// WeekdayOf maps a calendar date to its English weekday name.
func WeekdayOf(date string) (string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	return d.Weekday().String(), nil
}

// normalizeSlot validates and zero-pads a (date, time) pair so slot values
// compare lexically in SQL.
func normalizeSlot(date, clock string) (string, string, error) {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	t, err := time.Parse(timeLayout, clock)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	return d.Format(dateLayout), t.Format(timeLayout), nil
}

// IsAvailable reports whether the doctor has a standing availability window
// covering the weekday and time of the requested slot. The upper bound is
// inclusive: a time equal to a window's end is still available.
func IsAvailable(db *gorm.DB, doctorID, date, clock string) (bool, error) {
	date, clock, err := normalizeSlot(date, clock)
	if err != nil {
		return false, err
	}
	weekday, err := WeekdayOf(date)
	if err != nil {
		return false, err
	}

	var count int64
	err = db.Model(&models.AvailabilityWindow{}).
		Where("doctor_id = ? AND weekday = ? AND start_time <= ? AND end_time >= ?",
			doctorID, weekday, clock, clock).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// checkConflict counts non-cancelled appointments holding the slot, excluding
// excludeID when set. The rows are read FOR UPDATE so a concurrent booking
// for the same slot blocks until this transaction commits.
func checkConflict(tx *gorm.DB, doctorID, date, clock, excludeID string) error {
	query := tx.Model(&models.Appointment{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("doctor_id = ? AND date = ? AND time = ? AND status <> ?",
			doctorID, date, clock, models.StatusCancelled)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlotTaken
	}
	return nil
}

// Book creates a Pendiente appointment after validating, in order, the
// doctor/specialty match, the slot conflict and the availability window.
// Validation and insert run in one transaction so a concurrent request for
// the same slot cannot slip between the check and the write.
func Book(db *gorm.DB, req BookingRequest) (*models.Appointment, error) {
	date, clock, err := normalizeSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}

	var appointment *models.Appointment
	err = db.Transaction(func(tx *gorm.DB) error {
		var doctor models.Doctor
		if err := tx.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
			return err
		}
		if req.SpecialtyID != "" && doctor.SpecialtyID != req.SpecialtyID {
			return ErrSpecialtyMismatch
		}

		if err := checkConflict(tx, req.DoctorID, date, clock, ""); err != nil {
			return err
		}

		available, err := IsAvailable(tx, req.DoctorID, date, clock)
		if err != nil {
			return err
		}
		if !available {
			return ErrDoctorUnavailable
		}

		specialtyID := req.SpecialtyID
		if specialtyID == "" {
			specialtyID = doctor.SpecialtyID
		}

		created := models.Appointment{
			PatientID:   req.PatientID,
			DoctorID:    req.DoctorID,
			SpecialtyID: specialtyID,
			Date:        date,
			Time:        clock,
			Status:      models.StatusPending,
		}
		if err := tx.Create(&created).Error; err != nil {
			return err
		}
		appointment = &created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// Reschedule moves an appointment to a new slot, defaulting unset fields to
// the current values. The conflict check excludes the appointment's own row,
// so rescheduling to the unchanged slot succeeds. The previous slot is kept
// in the Original fields and the Rescheduled flag is set; the status itself
// is untouched so the appointment can still be attended or cancelled.
func Reschedule(db *gorm.DB, appointmentID string, req RescheduleRequest) (*models.Appointment, error) {
	var appointment *models.Appointment
	err := db.Transaction(func(tx *gorm.DB) error {
		var current models.Appointment
		if err := tx.First(&current, "id = ?", appointmentID).Error; err != nil {
			return err
		}

		doctorID := current.DoctorID
		if req.DoctorID != "" {
			doctorID = req.DoctorID
		}
		date := current.Date
		if req.Date != "" {
			date = req.Date
		}
		clock := current.Time
		if req.Time != "" {
			clock = req.Time
		}
		date, clock, err := normalizeSlot(date, clock)
		if err != nil {
			return err
		}

		var doctor models.Doctor
		if err := tx.First(&doctor, "id = ?", doctorID).Error; err != nil {
			return err
		}
		if current.SpecialtyID != "" && doctor.SpecialtyID != current.SpecialtyID {
			return ErrSpecialtyMismatch
		}

		if err := checkConflict(tx, doctorID, date, clock, current.ID); err != nil {
			return err
		}

		current.OriginalDate = current.Date
		current.OriginalTime = current.Time
		current.DoctorID = doctorID
		current.Date = date
		current.Time = clock
		current.Rescheduled = true

		if err := tx.Save(&current).Error; err != nil {
			return err
		}
		appointment = &current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// OpenSlots enumerates the hourly candidate times still free for a doctor on
// a date: every whole hour from each window's start up to (excluding) its
// end, minus times already held by a non-cancelled appointment. The list is
// recomputed from current data on every call.
func OpenSlots(db *gorm.DB, doctorID, date string) ([]string, error) {
	weekday, err := WeekdayOf(date)
	if err != nil {
		return nil, err
	}

	var windows []models.AvailabilityWindow
	if err := db.Where("doctor_id = ? AND weekday = ?", doctorID, weekday).
		Find(&windows).Error; err != nil {
		return nil, err
	}

	var booked []models.Appointment
	if err := db.Where("doctor_id = ? AND date = ? AND status <> ?",
		doctorID, date, models.StatusCancelled).Find(&booked).Error; err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(booked))
	for _, appointment := range booked {
		taken[appointment.Time] = true
	}

	seen := make(map[string]bool)
	var slots []string
	for _, window := range windows {
		start, err := time.Parse(timeLayout, window.StartTime)
		if err != nil {
			continue
		}
		end, err := time.Parse(timeLayout, window.EndTime)
		if err != nil {
			continue
		}
		for t := start; t.Before(end); t = t.Add(time.Hour) {
			slot := t.Format(timeLayout)
			if taken[slot] || seen[slot] {
				continue
			}
			seen[slot] = true
			slots = append(slots, slot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}
