package domain

import (
	"errors"
	"strings"
	"time"
)

// Condition represents the triage severity assigned to a patient on intake.
type Condition string

// Triage conditions, ordered from least to most urgent.
const (
	ConditionGreen  Condition = "GREEN"  // Minor injuries
	ConditionYellow Condition = "YELLOW" // Delayed care
	ConditionOrange Condition = "ORANGE" // Urgent
	ConditionRed    Condition = "RED"    // Immediate
	ConditionBrown  Condition = "BROWN"  // Chemical hazard
	ConditionBlack  Condition = "BLACK"  // Deceased/expectant
)

// Status represents a patient's position in the treatment workflow.
type Status string

// Possible workflow status values. New admissions default to StatusNew.
const (
	StatusNew         Status = "NEW"
	StatusInTreatment Status = "IN_TREATMENT"
	StatusObservation Status = "OBSERVATION"
	StatusDischarged  Status = "DISCHARGED"
	StatusTransferred Status = "TRANSFERRED"
)

// Common validation errors for Patient
var (
	ErrInvalidPESEL     = errors.New("invalid PESEL format")
	ErrInvalidCondition = errors.New("invalid condition")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrEmptyFirstName   = errors.New("first name cannot be empty")
	ErrEmptyLastName    = errors.New("last name cannot be empty")
)

// peselWeights are the multipliers applied to the first ten digits of a
// PESEL when computing its control digit.
var peselWeights = [10]int{1, 3, 7, 9, 1, 3, 7, 9, 1, 3}

// Patient represents a person admitted through the emergency room intake.
// The ID is assigned by the store on creation and is immutable afterwards.
type Patient struct {
	ID         int64     `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	PESEL      string    `json:"pesel"`
	Condition  Condition `json:"condition"`
	Status     Status    `json:"status"`
	AdmittedAt time.Time `json:"admittedAt"`
}

// Validate checks if the Patient has valid data.
// Returns an error if any field fails validation.
func (p *Patient) Validate() error {
	if p.FirstName == "" {
		return ErrEmptyFirstName
	}

	if p.LastName == "" {
		return ErrEmptyLastName
	}

	if !ValidPESEL(p.PESEL) {
		return ErrInvalidPESEL
	}

	if !p.Condition.IsValid() {
		return ErrInvalidCondition
	}

	if !p.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// ValidPESEL reports whether pesel is a well-formed national identifier:
// exactly 11 decimal digits whose 11th digit equals the weighted-checksum
// control digit computed over the first ten. Any non-digit character or a
// length other than 11 fails without computing the checksum.
func ValidPESEL(pesel string) bool {
	if len(pesel) != 11 {
		return false
	}

	for _, c := range pesel {
		if c < '0' || c > '9' {
			return false
		}
	}

	checksum := 0
	for i := 0; i < 10; i++ {
		checksum += int(pesel[i]-'0') * peselWeights[i]
	}
	checksum %= 10

	controlDigit := (10 - checksum) % 10
	return controlDigit == int(pesel[10]-'0')
}

// IsValid checks if the given condition is one of the defined triage values.
func (c Condition) IsValid() bool {
	switch c {
	case ConditionGreen, ConditionYellow, ConditionOrange,
		ConditionRed, ConditionBrown, ConditionBlack:
		return true
	default:
		return false
	}
}

// IsValid checks if the given status is one of the defined workflow values.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInTreatment, StatusObservation,
		StatusDischarged, StatusTransferred:
		return true
	default:
		return false
	}
}

// ParseCondition converts a string to a Condition, case-insensitively.
// Returns ErrInvalidCondition if the value is not a defined triage condition.
func ParseCondition(s string) (Condition, error) {
	c := Condition(strings.ToUpper(s))
	if !c.IsValid() {
		return "", ErrInvalidCondition
	}
	return c, nil
}

// ParseStatus converts a string to a Status, case-insensitively.
// Returns ErrInvalidStatus if the value is not a defined workflow status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(s))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}
