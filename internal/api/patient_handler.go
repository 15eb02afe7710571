package api

import (
	"net/http"

	"github.com/triageops/er-intake-api/internal/api/shared"
	"github.com/triageops/er-intake-api/internal/service"
)

// Default paging bounds for patient listings.
const (
	defaultPatientLimit  = 100
	defaultPatientOffset = 0
)

// PatientHandler handles patient-related API requests.
type PatientHandler struct {
	patientService service.PatientService
}

// NewPatientHandler creates a new PatientHandler with the given dependencies.
func NewPatientHandler(patientService service.PatientService) *PatientHandler {
	return &PatientHandler{
		patientService: patientService,
	}
}

// Admit handles the POST /patients endpoint.
func (h *PatientHandler) Admit(w http.ResponseWriter, r *http.Request) {
	var req AdmitPatientRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Invalid request format", CodeInvalidRequest)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"First name, last name, PESEL and condition are required", CodeValidationError)
		return
	}

	patient, err := h.patientService.AdmitPatient(r.Context(), service.AdmitPatientInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		PESEL:     req.PESEL,
		Condition: req.Condition,
		Status:    req.Status,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewPatientResponse(patient))
}

// Get handles the GET /patients/{id} endpoint.
func (h *PatientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	patient, err := h.patientService.GetPatient(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPatientResponse(patient))
}

// UpdateStatus handles the PUT /patients/{id}/status endpoint.
func (h *PatientHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateStatusRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Invalid request format", CodeInvalidRequest)
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest,
			"Status is required", CodeValidationError)
		return
	}

	patient, err := h.patientService.UpdatePatientStatus(r.Context(), id, req.Status)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPatientResponse(patient))
}

// List handles the GET /patients endpoint. Supported query parameters:
// status, condition, limit, offset, sort. The reported total is the count
// of all matching patients, independent of paging.
func (h *PatientHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := queryInt(r, "limit", defaultPatientLimit)
	if limit <= 0 {
		limit = defaultPatientLimit
	}
	offset := queryInt(r, "offset", defaultPatientOffset)
	if offset < 0 {
		offset = defaultPatientOffset
	}

	patients, total, err := h.patientService.ListPatients(r.Context(), service.ListPatientsInput{
		Status:    query.Get("status"),
		Condition: query.Get("condition"),
		Limit:     limit,
		Offset:    offset,
		Sort:      query.Get("sort"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]PatientResponse, 0, len(patients))
	for _, patient := range patients {
		responses = append(responses, NewPatientResponse(patient))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, PaginatedResponse{
		Data:   responses,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// ListNew handles the GET /patients/new endpoint: the triage queue of
// patients still awaiting treatment, oldest admission first.
func (h *PatientHandler) ListNew(w http.ResponseWriter, r *http.Request) {
	patients, err := h.patientService.GetNewPatients(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	responses := make([]PatientResponse, 0, len(patients))
	for _, patient := range patients {
		responses = append(responses, NewPatientResponse(patient))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}
