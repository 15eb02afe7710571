package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/store"
)

// AdmitPatientInput carries the data needed to admit a new patient.
// Condition is the triage condition as supplied by the client; it is
// parsed case-insensitively. Status is optional and defaults to NEW
// when empty.
type AdmitPatientInput struct {
	FirstName string
	LastName  string
	PESEL     string
	Condition string
	Status    string
}

// ListPatientsInput narrows and pages a patient listing. Empty Status and
// Condition mean no filtering; Limit <= 0 means no bound.
type ListPatientsInput struct {
	Status    string
	Condition string
	Limit     int
	Offset    int
	Sort      string
}

// PatientService provides patient intake and tracking operations.
type PatientService interface {
	// AdmitPatient validates and registers a new patient. The patient
	// starts in the requested status, or NEW when none is given, with
	// the admission time set to now.
	// Returns domain validation errors on invalid input and
	// ErrDuplicatePESEL when a patient with the same PESEL is already
	// registered.
	AdmitPatient(ctx context.Context, input AdmitPatientInput) (*domain.Patient, error)

	// GetPatient retrieves a patient by its ID.
	// Returns ErrPatientNotFound if the patient does not exist.
	GetPatient(ctx context.Context, id int64) (*domain.Patient, error)

	// UpdatePatientStatus moves a patient to a new workflow status and
	// returns the updated record.
	// Returns domain.ErrInvalidStatus on an unknown status and
	// ErrPatientNotFound if the patient does not exist.
	UpdatePatientStatus(ctx context.Context, id int64, status string) (*domain.Patient, error)

	// ListPatients retrieves patients matching the input filters together
	// with the total count of matching patients irrespective of paging.
	ListPatients(ctx context.Context, input ListPatientsInput) ([]*domain.Patient, int64, error)

	// GetNewPatients retrieves all patients still in the NEW status,
	// oldest admission first. This is the triage queue: it is never
	// paginated, so nobody waiting can fall off the list.
	GetNewPatients(ctx context.Context) ([]*domain.Patient, error)
}

// patientServiceImpl implements the PatientService interface.
type patientServiceImpl struct {
	patientStore store.PatientStore
	logger       *slog.Logger
	timeFunc     func() time.Time // Injectable for testing
	runTx        func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

var _ PatientService = (*patientServiceImpl)(nil)

// NewPatientService creates a new PatientService.
// It returns an error if any of the required dependencies are nil.
func NewPatientService(
	patientStore store.PatientStore,
	logger *slog.Logger,
) (PatientService, error) {
	if patientStore == nil {
		return nil, NewServiceError("create_service", "patientStore cannot be nil", nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &patientServiceImpl{
		patientStore: patientStore,
		logger:       logger.With("component", "patient_service"),
		timeFunc:     time.Now,
		runTx:        store.RunInTransaction,
	}, nil
}

// AdmitPatient validates and registers a new patient. The duplicate check
// and the insert run in one transaction so a concurrent admission cannot
// slip between them.
func (s *patientServiceImpl) AdmitPatient(
	ctx context.Context,
	input AdmitPatientInput,
) (*domain.Patient, error) {
	if input.FirstName == "" {
		return nil, domain.ErrEmptyFirstName
	}
	if input.LastName == "" {
		return nil, domain.ErrEmptyLastName
	}
	if !domain.ValidPESEL(input.PESEL) {
		return nil, domain.ErrInvalidPESEL
	}

	var created *domain.Patient
	err := s.runTx(ctx, s.patientStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.patientStore.WithTx(tx)

		// Uniqueness is checked before the remaining field validation: a
		// duplicate PESEL wins over a bad condition or status value. The
		// store's unique constraint is the final arbiter regardless.
		_, err := txStore.GetByPESEL(ctx, input.PESEL)
		if err == nil {
			s.logger.Info("admission attempt for already registered PESEL")
			return ErrDuplicatePESEL
		}
		if !store.IsNotFoundError(err) {
			s.logger.Error("failed to check for existing patient", "error", err)
			return NewServiceError("admit_patient", "failed to check for existing patient", err)
		}

		condition, err := domain.ParseCondition(input.Condition)
		if err != nil {
			return err
		}

		status := domain.StatusNew
		if input.Status != "" {
			status, err = domain.ParseStatus(input.Status)
			if err != nil {
				return err
			}
		}

		patient := &domain.Patient{
			FirstName:  input.FirstName,
			LastName:   input.LastName,
			PESEL:      input.PESEL,
			Condition:  condition,
			Status:     status,
			AdmittedAt: s.timeFunc().UTC(),
		}
		if err := patient.Validate(); err != nil {
			return err
		}

		created, err = txStore.Create(ctx, patient)
		if err != nil {
			if errors.Is(err, store.ErrPESELExists) {
				return ErrDuplicatePESEL
			}
			s.logger.Error("failed to create patient record", "error", err)
			return NewServiceError("admit_patient", "failed to create patient record", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("patient admitted",
		"patient_id", created.ID,
		"condition", created.Condition,
		"status", created.Status)

	return created, nil
}

// GetPatient retrieves a patient by its ID.
func (s *patientServiceImpl) GetPatient(ctx context.Context, id int64) (*domain.Patient, error) {
	patient, err := s.patientStore.GetByID(ctx, id)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		s.logger.Error("failed to retrieve patient",
			"error", err,
			"patient_id", id)
		return nil, NewServiceError("get_patient", "failed to retrieve patient", err)
	}
	return patient, nil
}

// UpdatePatientStatus moves a patient to a new workflow status.
func (s *patientServiceImpl) UpdatePatientStatus(
	ctx context.Context,
	id int64,
	status string,
) (*domain.Patient, error) {
	parsed, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	patient, err := s.patientStore.UpdateStatus(ctx, id, parsed)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrPatientNotFound
		}
		s.logger.Error("failed to update patient status",
			"error", err,
			"patient_id", id,
			"target_status", parsed)
		return nil, NewServiceError("update_patient_status", "failed to update patient status", err)
	}

	s.logger.Info("patient status updated",
		"patient_id", patient.ID,
		"status", patient.Status)

	return patient, nil
}

// ListPatients retrieves patients matching the input filters together with
// the total count of matching patients.
func (s *patientServiceImpl) ListPatients(
	ctx context.Context,
	input ListPatientsInput,
) ([]*domain.Patient, int64, error) {
	var filter store.PatientFilter

	if input.Status != "" {
		status, err := domain.ParseStatus(input.Status)
		if err != nil {
			return nil, 0, err
		}
		filter.Status = &status
	}
	if input.Condition != "" {
		condition, err := domain.ParseCondition(input.Condition)
		if err != nil {
			return nil, 0, err
		}
		filter.Condition = &condition
	}

	page := store.PatientPage{
		Limit:  input.Limit,
		Offset: input.Offset,
		Sort:   store.ParseSortOrder(input.Sort),
	}

	patients, err := s.patientStore.List(ctx, filter, page)
	if err != nil {
		s.logger.Error("failed to list patients", "error", err)
		return nil, 0, NewServiceError("list_patients", "failed to list patients", err)
	}

	total, err := s.patientStore.Count(ctx, filter)
	if err != nil {
		s.logger.Error("failed to count patients", "error", err)
		return nil, 0, NewServiceError("list_patients", "failed to count patients", err)
	}

	return patients, total, nil
}

// GetNewPatients retrieves the triage queue: every patient still in the
// NEW status, oldest admission first, with no pagination bound.
func (s *patientServiceImpl) GetNewPatients(ctx context.Context) ([]*domain.Patient, error) {
	status := domain.StatusNew
	patients, err := s.patientStore.List(ctx,
		store.PatientFilter{Status: &status},
		store.PatientPage{Sort: store.SortAsc},
	)
	if err != nil {
		s.logger.Error("failed to list new patients", "error", err)
		return nil, NewServiceError("get_new_patients", "failed to list new patients", err)
	}
	return patients, nil
}
