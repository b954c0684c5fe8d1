package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// --- Shift Status Enum ---
type ShiftStatus string

const (
	ShiftStatusOpen      ShiftStatus = "Open"
	ShiftStatusFilled    ShiftStatus = "Filled"
	ShiftStatusCompleted ShiftStatus = "Completed"
	ShiftStatusExpired   ShiftStatus = "Expired"
)

// Scan implements the sql.Scanner interface for ShiftStatus
func (ss *ShiftStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan ShiftStatus: value is not string or []byte")
		}
	}
	v := ShiftStatus(strVal)
	switch v {
	case ShiftStatusOpen, ShiftStatusFilled, ShiftStatusCompleted, ShiftStatusExpired:
		*ss = v
		return nil
	default:
		return fmt.Errorf("invalid ShiftStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for ShiftStatus
func (ss ShiftStatus) Value() (driver.Value, error) {
	return string(ss), nil
}

// --- Application Status Enum ---
type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "Pending"
	ApplicationStatusAccepted  ApplicationStatus = "Accepted"
	ApplicationStatusRejected  ApplicationStatus = "Rejected"
	ApplicationStatusConfirmed ApplicationStatus = "Confirmed"
)

// Scan implements the sql.Scanner interface for ApplicationStatus
func (as *ApplicationStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan ApplicationStatus: value is not string or []byte")
		}
	}
	v := ApplicationStatus(strVal)
	switch v {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusConfirmed:
		*as = v
		return nil
	default:
		return fmt.Errorf("invalid ApplicationStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for ApplicationStatus
func (as ApplicationStatus) Value() (driver.Value, error) {
	return string(as), nil
}

// --- Job Status Enum ---
type JobStatus string

const (
	JobStatusOpen   JobStatus = "Open"
	JobStatusFilled JobStatus = "Filled"
	JobStatusClosed JobStatus = "Closed"
)

// Scan implements the sql.Scanner interface for JobStatus
func (js *JobStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan JobStatus: value is not string or []byte")
		}
	}
	v := JobStatus(strVal)
	switch v {
	case JobStatusOpen, JobStatusFilled, JobStatusClosed:
		*js = v
		return nil
	default:
		return fmt.Errorf("invalid JobStatus value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for JobStatus
func (js JobStatus) Value() (driver.Value, error) {
	return string(js), nil
}

// --- Application Target Kind ---
// An application points at exactly one posting: a shift or a job. The
// tagged kind replaces a pair of optional foreign keys so the same
// uniqueness and single-winner rules hold for both posting types.
type TargetKind string

const (
	TargetShift TargetKind = "shift"
	TargetJob   TargetKind = "job"
)

// Scan implements the sql.Scanner interface for TargetKind
func (tk *TargetKind) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan TargetKind: value is not string or []byte")
		}
	}
	v := TargetKind(strVal)
	switch v {
	case TargetShift, TargetJob:
		*tk = v
		return nil
	default:
		return fmt.Errorf("invalid TargetKind value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for TargetKind
func (tk TargetKind) Value() (driver.Value, error) {
	return string(tk), nil
}

// --- User Role Enum ---
type UserRole string

const (
	UserRoleJobSeeker UserRole = "job_seeker"
	UserRoleBusiness  UserRole = "business"
	UserRoleAdmin     UserRole = "admin"
)

// Scan implements the sql.Scanner interface for UserRole
func (ur *UserRole) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		byteVal, ok := value.([]byte)
		if ok {
			strVal = string(byteVal)
		} else {
			return fmt.Errorf("failed to scan UserRole: value is not string or []byte")
		}
	}
	v := UserRole(strVal)
	switch v {
	case UserRoleJobSeeker, UserRoleBusiness, UserRoleAdmin:
		*ur = v
		return nil
	default:
		return fmt.Errorf("invalid UserRole value: %s", strVal)
	}
}

// Value implements the driver.Valuer interface for UserRole
func (ur UserRole) Value() (driver.Value, error) {
	return string(ur), nil
}

// User represents an account in the system. The lifecycle engine only
// reads users (identity, role, skills, rating); it never writes them.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	// WorkRole is the hospitality role a job seeker offers (e.g. "Barista").
	WorkRole  string    `json:"work_role" db:"work_role"`
	Skills    []string  `json:"skills" db:"skills"`
	Languages []string  `json:"languages" db:"languages"`
	Rating    float64   `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Shift represents a single dated shift posted by a business.
type Shift struct {
	ID           uuid.UUID `json:"id" db:"id"`
	BusinessID   uuid.UUID `json:"business_id" db:"business_id"`
	BusinessName string    `json:"business_name" db:"business_name"`
	// Role is admin-configurable, not a closed enum.
	Role                string      `json:"role" db:"role"`
	StartsAt            time.Time   `json:"starts_at" db:"starts_at"`
	EndsAt              time.Time   `json:"ends_at" db:"ends_at"`
	HourlyRate          float64     `json:"hourly_rate" db:"hourly_rate"`
	Location            string      `json:"location" db:"location"`
	Description         string      `json:"description" db:"description"`
	Requirements        []string    `json:"requirements" db:"requirements"`
	Languages           []string    `json:"languages" db:"languages"`
	Status              ShiftStatus `json:"status" db:"status"`
	AcceptedApplicantID *uuid.UUID  `json:"accepted_applicant_id,omitempty" db:"accepted_applicant_id"`
	CreatedAt           time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at" db:"updated_at"`
}

// Application represents one user's application to one posting.
// At most one application exists per (target kind, target, applicant).
type Application struct {
	ID          uuid.UUID         `json:"id" db:"id"`
	TargetKind  TargetKind        `json:"target_kind" db:"target_kind"`
	TargetID    uuid.UUID         `json:"target_id" db:"target_id"`
	ApplicantID uuid.UUID         `json:"applicant_id" db:"applicant_id"`
	Message     string            `json:"message" db:"message"`
	Status      ApplicationStatus `json:"status" db:"status"`
	CreatedAt   time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" db:"updated_at"`
}

// Job represents an ongoing part-time position posted by a business.
// Unlike a Shift it has no date, so it never expires; it is filled or
// closed by its owner.
type Job struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	BusinessID          uuid.UUID  `json:"business_id" db:"business_id"`
	Title               string     `json:"title" db:"title"`
	HourlyRate          float64    `json:"hourly_rate" db:"hourly_rate"`
	Location            string     `json:"location" db:"location"`
	Description         string     `json:"description" db:"description"`
	Requirements        []string   `json:"requirements" db:"requirements"`
	Status              JobStatus  `json:"status" db:"status"`
	AcceptedApplicantID *uuid.UUID `json:"accepted_applicant_id,omitempty" db:"accepted_applicant_id"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}
