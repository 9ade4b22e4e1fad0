package dto

import (
	"time"

	"github.com/classdesk/classwork-api/internal/models"
)

// AssignmentCreateRequest describes the payload for creating a new assignment.
// DueDate accepts a full RFC3339 timestamp or a date-only YYYY-MM-DD value.
type AssignmentCreateRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	DueDate     string `json:"due_date" validate:"required"`
}

// AssignmentUpdateRequest describes the partial payload for editing a draft.
// Omitted fields keep their stored value; provided-but-empty fields are rejected.
type AssignmentUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"due_date"`
}

// AssignmentListRequest carries the query filters for a teacher's listing.
type AssignmentListRequest struct {
	Status string
	Page   int
	Limit  int
}

// PaginationMeta describes pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// TeacherLite summarizes the owning teacher in assignment responses.
type TeacherLite struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AssignmentResponse is the serialized representation returned to API clients.
type AssignmentResponse struct {
	ID          uint        `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	DueDate     time.Time   `json:"due_date"`
	Status      string      `json:"status"`
	Teacher     TeacherLite `json:"teacher"`
	PublishedAt *time.Time  `json:"published_at"`
	CompletedAt *time.Time  `json:"completed_at"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// AssignmentListResponse bundles a page of assignments with pagination metadata.
type AssignmentListResponse struct {
	Assignments []AssignmentResponse `json:"assignments"`
	Pagination  PaginationMeta       `json:"pagination"`
}

// AssignmentSummary is the short assignment shape embedded in submission listings.
type AssignmentSummary struct {
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// NewAssignmentResponse converts a model into a DTO.
func NewAssignmentResponse(model models.Assignment) AssignmentResponse {
	response := AssignmentResponse{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		DueDate:     model.DueDate,
		Status:      model.Status,
		PublishedAt: model.PublishedAt,
		CompletedAt: model.CompletedAt,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}

	if model.Teacher.ID != 0 {
		response.Teacher = TeacherLite{
			ID:    model.Teacher.ID,
			Name:  model.Teacher.Name,
			Email: model.Teacher.Email,
		}
	} else {
		response.Teacher = TeacherLite{ID: model.TeacherID}
	}

	return response
}

// NewAssignmentResponseSlice converts a slice of models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment))
	}

	return responses
}

// NewAssignmentSummary converts a model into the short embedded shape.
func NewAssignmentSummary(model models.Assignment) AssignmentSummary {
	return AssignmentSummary{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Status:      model.Status,
	}
}
