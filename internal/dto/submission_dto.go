package dto

import (
	"time"

	"github.com/classdesk/classwork-api/internal/models"
)

// SubmitRequest describes the payload for submitting an answer.
type SubmitRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// SubmissionResponse flattens the student and assignment references into a
// single shape so callers never need a second lookup.
type SubmissionResponse struct {
	ID              uint       `json:"id"`
	AssignmentID    uint       `json:"assignment_id"`
	AssignmentTitle string     `json:"assignment_title"`
	StudentID       uint       `json:"student_id"`
	StudentName     string     `json:"student_name"`
	Answer          string     `json:"answer"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Reviewed        bool       `json:"reviewed"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
}

// AssignmentSubmissionsResponse is returned to teachers reviewing an assignment.
type AssignmentSubmissionsResponse struct {
	Assignment  AssignmentSummary    `json:"assignment"`
	Submissions []SubmissionResponse `json:"submissions"`
}

// StudentSubmissionsResponse lists everything a student has turned in.
type StudentSubmissionsResponse struct {
	Submissions []SubmissionResponse `json:"submissions"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	response := SubmissionResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Answer:       model.Answer,
		SubmittedAt:  model.SubmittedAt,
		Reviewed:     model.Reviewed,
		ReviewedAt:   model.ReviewedAt,
	}

	if model.Assignment.ID != 0 {
		response.AssignmentTitle = model.Assignment.Title
	}

	if model.Student.ID != 0 {
		response.StudentName = model.Student.Name
	}

	return response
}

// NewSubmissionResponseSlice converts submission models into DTOs.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}

	return responses
}
