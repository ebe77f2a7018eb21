package models

import (
	"time"
)

// APIResponse represents a standard API response structure
type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// PaginationInfo describes one page of a list view.
type PaginationInfo struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NextPage is only meaningful when HasNext is set.
func (p *PaginationInfo) NextPage() int {
	return p.Page + 1
}

func (p *PaginationInfo) PrevPage() int {
	return p.Page - 1
}

// Offset is the number of rows before the first row of this page.
func (p *PaginationInfo) Offset() int {
	return (p.Page - 1) * p.Limit
}

// IsPaginated reports whether there is more than one page.
func (p *PaginationInfo) IsPaginated() bool {
	return p.TotalPages > 1
}

func NewSuccessResponse(data interface{}, message string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func NewErrorResponse(code, message string, details map[string]string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Timestamp: time.Now(),
	}
}

// NewPaginationInfo builds page metadata. An empty result still has one page.
func NewPaginationInfo(page, limit, total int) *PaginationInfo {
	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return &PaginationInfo{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// HealthCheck represents a health check response
type HealthCheck struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version"`
	Commit     string                     `json:"commit"`
	Components map[string]ComponentHealth `json:"components"`
}

type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthCheck(version, commit string) *HealthCheck {
	return &HealthCheck{
		Status:     "healthy",
		Timestamp:  time.Now(),
		Version:    version,
		Commit:     commit,
		Components: make(map[string]ComponentHealth),
	}
}

// AddComponent records a component; any unhealthy component marks the whole check unhealthy.
func (h *HealthCheck) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:  status,
		Message: message,
	}

	if status != "healthy" && h.Status == "healthy" {
		h.Status = "unhealthy"
	}
}

func (h *HealthCheck) Healthy() bool {
	return h.Status == "healthy"
}
