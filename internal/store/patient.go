package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/triageops/er-intake-api/internal/domain"
)

// SortOrder controls the ordering of patient listings by admission time.
type SortOrder string

// Supported sort orders.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder converts a string to a SortOrder, case-insensitively.
// Any value other than "asc" falls back to descending.
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// PatientFilter narrows patient listings and counts. Nil fields are
// ignored; when both are set they combine with AND semantics.
type PatientFilter struct {
	Status    *domain.Status
	Condition *domain.Condition
}

// PatientPage bounds and orders a patient listing.
type PatientPage struct {
	Limit  int
	Offset int
	Sort   SortOrder
}

// PatientStore defines the interface for patient record persistence.
type PatientStore interface {
	// Create saves a new patient record and returns it with its assigned ID.
	// Returns ErrPESELExists if a patient with the same PESEL already exists;
	// the store's unique constraint is the final arbiter under concurrent
	// admissions, not the service-level pre-check.
	// Returns validation errors from the domain Patient if data is invalid.
	Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)

	// GetByID retrieves a patient by its unique ID.
	// Returns ErrPatientNotFound if the patient does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)

	// GetByPESEL retrieves a patient by its national identifier.
	// Returns ErrPatientNotFound if no patient carries that PESEL.
	GetByPESEL(ctx context.Context, pesel string) (*domain.Patient, error)

	// Update replaces all mutable fields of an existing patient record.
	// Returns ErrPatientNotFound if the patient does not exist.
	Update(ctx context.Context, patient *domain.Patient) (*domain.Patient, error)

	// UpdateStatus replaces only the workflow status of an existing patient
	// and returns the updated record.
	// Returns ErrPatientNotFound if the patient does not exist.
	UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Patient, error)

	// List retrieves patients matching the filter, ordered by admission
	// time according to page.Sort and bounded by page.Limit/page.Offset.
	List(ctx context.Context, filter PatientFilter, page PatientPage) ([]*domain.Patient, error)

	// Count returns the number of patients matching the filter,
	// irrespective of any pagination bounds.
	Count(ctx context.Context, filter PatientFilter) (int64, error)

	// WithTx returns a new store instance bound to the given transaction.
	// The transaction is created and managed by the caller, typically via
	// RunInTransaction.
	WithTx(tx *sql.Tx) PatientStore

	// DB returns the underlying database connection, or nil when the
	// store is already bound to a transaction.
	DB() *sql.DB
}
