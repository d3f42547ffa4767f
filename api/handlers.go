/*
handlers.go - HTTP request handlers

PURPOSE:
  Implements all API endpoints. Handlers are thin: decode, delegate to
  the tracker service or the store, encode. No booking rules live here.

ERROR MAPPING:
  Validation rejections from the booking engine map to 409 Conflict,
  with the machine-readable kind exposed twice: in the JSON body and in
  the X-Error / X-Error-Kind response headers for clients that only
  look at headers.

  404: unknown record / project / employee
  400: malformed JSON, bad timestamps, inverted search ranges
  409: any booking validation failure
  500: storage faults

SEE ALSO:
  - server.go: Route definitions
  - dto.go: Request/response types
  - tracker/service.go: The service these handlers front
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/tempo/timetracker/booking"
	"github.com/tempo/timetracker/store/sqlite"
	"github.com/tempo/timetracker/tracker"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Records *tracker.TimeRecordService
}

// NewHandler creates a new handler with the given store and service.
func NewHandler(store *sqlite.Store, records *tracker.TimeRecordService) *Handler {
	return &Handler{Store: store, Records: records}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeRecordError maps a failure from the time-record service onto the
// right status code. Validation rejections become 409 with the kind in
// the X-Error headers.
func writeRecordError(w http.ResponseWriter, err error) {
	switch {
	case booking.IsValidationError(err):
		kind := booking.KindOf(err)
		w.Header().Set("X-Error", err.Error())
		w.Header().Set("X-Error-Kind", string(kind))
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:   "Time record rejected",
			Kind:    string(kind),
			Details: err.Error(),
		})
	case errors.Is(err, booking.ErrProjectNotFound):
		writeError(w, http.StatusNotFound, "Project not found", err)
	case errors.Is(err, tracker.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "Time record not found", err)
	case errors.Is(err, tracker.ErrInvalidSearchRange):
		writeError(w, http.StatusBadRequest, "Invalid search range", err)
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process time record", err)
	}
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// =============================================================================
// TIME RECORD ENDPOINTS
// =============================================================================

// searchFromQuery builds a RecordSearch from query parameters. All
// filters are optional; from/through must be RFC3339 when present.
func searchFromQuery(r *http.Request) (tracker.RecordSearch, error) {
	q := r.URL.Query()
	search := tracker.RecordSearch{
		Employee: booking.EmployeeID(q.Get("employee_id")),
		Project:  booking.ProjectID(q.Get("project_id")),
	}
	var err error
	if v := q.Get("from"); v != "" {
		if search.From, err = parseRFC3339(v); err != nil {
			return tracker.RecordSearch{}, err
		}
	}
	if v := q.Get("through"); v != "" {
		if search.Through, err = parseRFC3339(v); err != nil {
			return tracker.RecordSearch{}, err
		}
	}
	return search, nil
}

// ListTimeRecords returns records matching the query filters.
// GET /api/records?employee_id=&project_id=&from=&through=
func (h *Handler) ListTimeRecords(w http.ResponseWriter, r *http.Request) {
	search, err := searchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid search parameter", err)
		return
	}

	records, err := h.Records.Find(r.Context(), search)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeRecordDTOs(records))
}

// CreateTimeRecord validates and stores a new time record.
// POST /api/records
func (h *Handler) CreateTimeRecord(w http.ResponseWriter, r *http.Request) {
	var req SaveTimeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec, err := req.toTimeRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp", err)
		return
	}

	created, err := h.Records.Create(r.Context(), rec)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTimeRecordDTO(created))
}

// GetTimeRecord returns one time record.
// GET /api/records/{id}
func (h *Handler) GetTimeRecord(w http.ResponseWriter, r *http.Request) {
	id := booking.RecordID(chi.URLParam(r, "id"))

	rec, err := h.Records.Record(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get time record", err)
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "Time record not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTimeRecordDTO(*rec))
}

// UpdateTimeRecord validates and stores changes to an existing record.
// The URL id is authoritative; an id in the body is ignored.
// PUT /api/records/{id}
func (h *Handler) UpdateTimeRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req SaveTimeRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.ID = id
	rec, err := req.toTimeRecord()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid timestamp", err)
		return
	}

	updated, err := h.Records.Update(r.Context(), rec)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTimeRecordDTO(updated))
}

// DeleteTimeRecord removes a record. Unknown ids are a 404; a record in
// a state that forbids deletion is a 409.
// DELETE /api/records/{id}
func (h *Handler) DeleteTimeRecord(w http.ResponseWriter, r *http.Request) {
	id := booking.RecordID(chi.URLParam(r, "id"))

	deleted, err := h.Records.Delete(r.Context(), id)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	if deleted == nil {
		writeError(w, http.StatusNotFound, "Time record not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toTimeRecordDTO(*deleted))
}

// GetWorkedHoursReport aggregates matching records into decimal hours.
// GET /api/records/report?employee_id=&project_id=&from=&through=
func (h *Handler) GetWorkedHoursReport(w http.ResponseWriter, r *http.Request) {
	search, err := searchFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid search parameter", err)
		return
	}

	sum, err := h.Records.WorkedHours(r.Context(), search)
	if err != nil {
		writeRecordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportDTO(sum))
}

// =============================================================================
// PROJECT ENDPOINTS
// =============================================================================

// ListProjects returns all projects.
// GET /api/projects
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Store.ListProjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get projects", err)
		return
	}
	dtos := make([]ProjectDTO, 0, len(projects))
	for _, p := range projects {
		dtos = append(dtos, toProjectDTO(p))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveProject creates or replaces a project. Flipping locked to true is
// how an administrator freezes a project's bookings.
// POST /api/projects
func (h *Handler) SaveProject(w http.ResponseWriter, r *http.Request) {
	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "Project id is required", nil)
		return
	}
	p, err := req.toProject()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	if err := h.Store.SaveProject(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save project", err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(p))
}

// GetProject returns one project.
// GET /api/projects/{id}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := booking.ProjectID(chi.URLParam(r, "id"))

	p, err := h.Store.ProjectByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get project", err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "Project not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toProjectDTO(*p))
}

// DeleteProject removes a project.
// DELETE /api/projects/{id}
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := booking.ProjectID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteProject(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EMPLOYEE ENDPOINTS
// =============================================================================

// ListEmployees returns all employees.
// GET /api/employees
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employees", err)
		return
	}
	dtos := make([]EmployeeDTO, 0, len(employees))
	for _, emp := range employees {
		dtos = append(dtos, toEmployeeDTO(emp))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveEmployee creates or updates an employee.
// POST /api/employees
func (h *Handler) SaveEmployee(w http.ResponseWriter, r *http.Request) {
	var req SaveEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "Employee id and name are required", nil)
		return
	}

	emp := sqlite.Employee{
		ID:    booking.EmployeeID(req.ID),
		Name:  req.Name,
		Email: req.Email,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(emp))
}

// GetEmployee returns one employee.
// GET /api/employees/{id}
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := booking.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// DeleteEmployee removes an employee.
// DELETE /api/employees/{id}
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id := booking.EmployeeID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteEmployee(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete employee", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADMIN ENDPOINTS
// =============================================================================

// ResetDatabase wipes all data. Dev/testing only.
// POST /api/reset
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
