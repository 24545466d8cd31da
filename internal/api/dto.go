package api

import "github.com/khrees2412/pipeliner/pkg/models"

type CreateJobRequest struct {
	Company       string `json:"company" binding:"required"`
	Title         string `json:"title" binding:"required"`
	URL           string `json:"url"`
	Location      string `json:"location"`
	Compensation  string `json:"compensation"`
	Description   string `json:"description"`
	ResumeVersion string `json:"resumeVersion"`
	Status        string `json:"status"` // defaults to Applied
	Source        string `json:"source"` // defaults to Applied
	InterestLevel int    `json:"interestLevel"`
}

type ExtractJobRequest struct {
	Text string `json:"text" binding:"required"`
	URL  string `json:"url"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AddStageRequest struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}

// UpdateStageRequest changes only the fields that are present
type UpdateStageRequest struct {
	Name   *string `json:"name"`
	Status *string `json:"status"`
	Date   *string `json:"date"`
	Notes  *string `json:"notes"`
}

type ApplyResponse struct {
	Job     models.JobApplication `json:"job"`
	Created bool                  `json:"created"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error errorBody `json:"error"`
}
