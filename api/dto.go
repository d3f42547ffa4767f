/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Time records:
    TimeRecordDTO, SaveTimeRecordRequest

  Projects:
    ProjectDTO, SaveProjectRequest

  Employees:
    EmployeeDTO, SaveEmployeeRequest

  Reports:
    ReportDTO, ProjectHoursDTO

TIME FORMAT:
  All instants travel as RFC3339 strings. Decimal hour quantities travel
  as strings so clients never see float rounding.

SEE ALSO:
  - handlers.go: Uses these types
  - booking/types.go: The domain model these mirror
*/
package api

import (
	"time"

	"github.com/tempo/timetracker/booking"
	"github.com/tempo/timetracker/store/sqlite"
	"github.com/tempo/timetracker/tracker"
)

// =============================================================================
// TIME RECORD TYPES
// =============================================================================

// TimeRecordDTO represents a time record in API responses.
type TimeRecordDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	ProjectID    string `json:"project_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	PauseMinutes int    `json:"pause_minutes"`
	Status       string `json:"status"`
}

// SaveTimeRecordRequest is the request body for creating or updating a
// time record. On create the id may be empty; on update the URL id wins.
type SaveTimeRecordRequest struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	ProjectID    string `json:"project_id"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	PauseMinutes int    `json:"pause_minutes"`
	Status       string `json:"status"`
}

func toTimeRecordDTO(rec booking.TimeRecord) TimeRecordDTO {
	return TimeRecordDTO{
		ID:           string(rec.ID),
		EmployeeID:   string(rec.Owner),
		ProjectID:    string(rec.Project),
		StartTime:    rec.StartTime.Format(time.RFC3339),
		EndTime:      rec.EndTime.Format(time.RFC3339),
		PauseMinutes: rec.PauseMinutes,
		Status:       string(rec.Status),
	}
}

func toTimeRecordDTOs(records []booking.TimeRecord) []TimeRecordDTO {
	dtos := make([]TimeRecordDTO, 0, len(records))
	for _, rec := range records {
		dtos = append(dtos, toTimeRecordDTO(rec))
	}
	return dtos
}

// toTimeRecord converts a request body into the domain type. Timestamps
// must be RFC3339.
func (req SaveTimeRecordRequest) toTimeRecord() (booking.TimeRecord, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return booking.TimeRecord{}, err
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return booking.TimeRecord{}, err
	}
	return booking.TimeRecord{
		ID:           booking.RecordID(req.ID),
		Owner:        booking.EmployeeID(req.EmployeeID),
		Project:      booking.ProjectID(req.ProjectID),
		StartTime:    start,
		EndTime:      end,
		PauseMinutes: req.PauseMinutes,
		Status:       booking.Status(req.Status),
	}, nil
}

// =============================================================================
// PROJECT TYPES
// =============================================================================

// ProjectDTO represents a project in API responses.
type ProjectDTO struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Locked    bool   `json:"locked"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// SaveProjectRequest is the request to create or replace a project.
// Setting locked=true freezes all bookings on the project.
type SaveProjectRequest struct {
	ID        string `json:"id"`
	Owner     string `json:"owner"`
	Locked    bool   `json:"locked"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func toProjectDTO(p booking.Project) ProjectDTO {
	return ProjectDTO{
		ID:        string(p.ID),
		Owner:     string(p.Owner),
		Locked:    p.Locked,
		StartDate: p.StartDate.Format(time.RFC3339),
		EndDate:   p.EndDate.Format(time.RFC3339),
	}
}

func (req SaveProjectRequest) toProject() (booking.Project, error) {
	start, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return booking.Project{}, err
	}
	end, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return booking.Project{}, err
	}
	return booking.Project{
		ID:        booking.ProjectID(req.ID),
		Owner:     booking.EmployeeID(req.Owner),
		Locked:    req.Locked,
		StartDate: start,
		EndDate:   end,
	}, nil
}

// =============================================================================
// EMPLOYEE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

// SaveEmployeeRequest is the request to create or update an employee.
type SaveEmployeeRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toEmployeeDTO(emp sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:    string(emp.ID),
		Name:  emp.Name,
		Email: emp.Email,
	}
	if !emp.CreatedAt.IsZero() {
		dto.CreatedAt = emp.CreatedAt.Format(time.RFC3339)
	}
	return dto
}

// =============================================================================
// REPORT TYPES
// =============================================================================

// ProjectHoursDTO is one project row of a worked-hours report.
type ProjectHoursDTO struct {
	ProjectID string `json:"project_id"`
	Records   int    `json:"records"`
	NetHours  string `json:"net_hours"`
}

// ReportDTO is the worked-hours report for a search window.
type ReportDTO struct {
	Records    int               `json:"records"`
	GrossHours string            `json:"gross_hours"`
	PauseHours string            `json:"pause_hours"`
	NetHours   string            `json:"net_hours"`
	Projects   []ProjectHoursDTO `json:"projects"`
}

func toReportDTO(sum tracker.Summary) ReportDTO {
	dto := ReportDTO{
		Records:    sum.Records,
		GrossHours: sum.GrossHours.String(),
		PauseHours: sum.PauseHours.String(),
		NetHours:   sum.NetHours.String(),
		Projects:   []ProjectHoursDTO{},
	}
	for _, ph := range sum.Projects {
		dto.Projects = append(dto.Projects, ProjectHoursDTO{
			ProjectID: string(ph.Project),
			Records:   ph.Records,
			NetHours:  ph.NetHours.String(),
		})
	}
	return dto
}

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}
