package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/triageops/er-intake-api/internal/domain"
	"github.com/triageops/er-intake-api/internal/platform/logger"
	"github.com/triageops/er-intake-api/internal/store"
)

// PostgresPatientStore implements the store.PatientStore interface
// using a PostgreSQL database as the storage backend.
type PostgresPatientStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPatientStore creates a new PostgreSQL implementation of the PatientStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresPatientStore(db store.DBTX, logger *slog.Logger) *PostgresPatientStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPatientStore{
		db:     db,
		logger: logger.With(slog.String("component", "patient_store")),
	}
}

// Ensure PostgresPatientStore implements store.PatientStore interface
var _ store.PatientStore = (*PostgresPatientStore)(nil)

// WithTx returns a new store instance bound to the given transaction.
// Use with store.RunInTransaction to make multi-statement operations atomic.
func (s *PostgresPatientStore) WithTx(tx *sql.Tx) store.PatientStore {
	return &PostgresPatientStore{
		db:     tx,
		logger: s.logger,
	}
}

// DB returns the underlying database connection, or nil when the store is
// bound to a transaction.
func (s *PostgresPatientStore) DB() *sql.DB {
	if db, ok := s.db.(*sql.DB); ok {
		return db
	}
	return nil
}

// Create implements store.PatientStore.Create
// It saves a new patient record and returns it with its assigned ID.
// Returns store.ErrPESELExists if a patient with the same PESEL already
// exists; the unique constraint on patients.pesel is the final arbiter
// under concurrent admissions.
func (s *PostgresPatientStore) Create(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patient.Validate(); err != nil {
		log.Warn("patient validation failed during create",
			slog.String("error", err.Error()))
		return nil, err
	}

	query := `
		INSERT INTO patients (first_name, last_name, pesel, condition, status, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	created := *patient
	err := s.db.QueryRowContext(
		ctx,
		query,
		patient.FirstName,
		patient.LastName,
		patient.PESEL,
		patient.Condition,
		patient.Status,
		patient.AdmittedAt,
	).Scan(&created.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate PESEL during patient creation")
			return nil, MapUniqueViolation(err, store.ErrPESELExists)
		}

		log.Error("failed to create patient", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Info("patient admitted",
		slog.Int64("patient_id", created.ID),
		slog.String("condition", string(created.Condition)),
		slog.String("status", string(created.Status)))
	return &created, nil
}

// GetByID implements store.PatientStore.GetByID
// Returns store.ErrPatientNotFound if the patient does not exist.
func (s *PostgresPatientStore) GetByID(ctx context.Context, id int64) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, first_name, last_name, pesel, condition, status, admitted_at
		FROM patients
		WHERE id = $1
	`

	patient, err := scanPatient(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("patient not found", slog.Int64("patient_id", id))
			return nil, store.ErrPatientNotFound
		}
		log.Error("failed to get patient by ID",
			slog.String("error", err.Error()),
			slog.Int64("patient_id", id))
		return nil, MapError(err)
	}

	return patient, nil
}

// GetByPESEL implements store.PatientStore.GetByPESEL
// Returns store.ErrPatientNotFound if no patient carries that PESEL.
func (s *PostgresPatientStore) GetByPESEL(ctx context.Context, pesel string) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, first_name, last_name, pesel, condition, status, admitted_at
		FROM patients
		WHERE pesel = $1
	`

	patient, err := scanPatient(s.db.QueryRowContext(ctx, query, pesel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrPatientNotFound
		}
		log.Error("failed to get patient by PESEL", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return patient, nil
}

// Update implements store.PatientStore.Update
// It replaces all mutable fields of an existing patient record.
// Returns store.ErrPatientNotFound if the patient does not exist.
func (s *PostgresPatientStore) Update(ctx context.Context, patient *domain.Patient) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patient.Validate(); err != nil {
		log.Warn("patient validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("patient_id", patient.ID))
		return nil, err
	}

	query := `
		UPDATE patients
		SET first_name = $2, last_name = $3, pesel = $4, condition = $5, status = $6, admitted_at = $7
		WHERE id = $1
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		patient.ID,
		patient.FirstName,
		patient.LastName,
		patient.PESEL,
		patient.Condition,
		patient.Status,
		patient.AdmittedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, MapUniqueViolation(err, store.ErrPESELExists)
		}
		log.Error("failed to update patient",
			slog.String("error", err.Error()),
			slog.Int64("patient_id", patient.ID))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, "patient"); err != nil {
		log.Debug("patient not found during update", slog.Int64("patient_id", patient.ID))
		return nil, store.ErrPatientNotFound
	}

	updated := *patient
	return &updated, nil
}

// UpdateStatus implements store.PatientStore.UpdateStatus
// It replaces only the workflow status and returns the updated record.
// Returns store.ErrPatientNotFound if the patient does not exist.
func (s *PostgresPatientStore) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	query := `
		UPDATE patients
		SET status = $2
		WHERE id = $1
		RETURNING id, first_name, last_name, pesel, condition, status, admitted_at
	`

	patient, err := scanPatient(s.db.QueryRowContext(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("patient not found during status update", slog.Int64("patient_id", id))
			return nil, store.ErrPatientNotFound
		}
		log.Error("failed to update patient status",
			slog.String("error", err.Error()),
			slog.Int64("patient_id", id))
		return nil, MapError(err)
	}

	log.Info("patient status updated",
		slog.Int64("patient_id", id),
		slog.String("status", string(status)))
	return patient, nil
}

// List implements store.PatientStore.List
// It retrieves patients matching the filter, ordered by admission time.
func (s *PostgresPatientStore) List(
	ctx context.Context,
	filter store.PatientFilter,
	page store.PatientPage,
) ([]*domain.Patient, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	order := "DESC"
	if page.Sort == store.SortAsc {
		order = "ASC"
	}

	where, args := buildPatientFilter(filter)
	query := fmt.Sprintf(`
		SELECT id, first_name, last_name, pesel, condition, status, admitted_at
		FROM patients
		%s
		ORDER BY admitted_at %s
	`, where, order)

	// A non-positive limit means an unbounded listing.
	if page.Limit > 0 {
		offset := page.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, page.Limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list patients", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var patients []*domain.Patient
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			log.Error("failed to scan patient row", slog.String("error", err.Error()))
			return nil, err
		}
		patients = append(patients, patient)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating patient rows", slog.String("error", err.Error()))
		return nil, err
	}

	return patients, nil
}

// Count implements store.PatientStore.Count
// It returns the number of patients matching the filter, irrespective of
// pagination bounds.
func (s *PostgresPatientStore) Count(ctx context.Context, filter store.PatientFilter) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildPatientFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM patients %s`, where)

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Error("failed to count patients", slog.String("error", err.Error()))
		return 0, MapError(err)
	}

	return count, nil
}

// buildPatientFilter renders the optional status/condition filters as a
// WHERE clause with positional arguments. Filters combine with AND.
func buildPatientFilter(filter store.PatientFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.Condition != nil {
		args = append(args, *filter.Condition)
		clauses = append(clauses, fmt.Sprintf("condition = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return "WHERE " + strings.Join(clauses, " AND "), args
}

// scanPatient maps a patients row onto a domain.Patient.
func scanPatient(row rowScanner) (*domain.Patient, error) {
	var patient domain.Patient
	var condition, status string

	err := row.Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&patient.PESEL,
		&condition,
		&status,
		&patient.AdmittedAt,
	)
	if err != nil {
		return nil, err
	}

	patient.Condition = domain.Condition(condition)
	patient.Status = domain.Status(status)
	return &patient, nil
}
