// Package models - API response types and error handling.
// This file defines all outgoing API response structures with consistent formatting.
//
// Response Design Principles:
// - Success and failure replies keep the shape the extension already parses
// - Optional fields use omitempty; waitSeconds appears only when it means something
// - Machine-readable error codes next to the human-readable message
// - RFC3339 timestamps for international compatibility
package models

import (
	"time"
)

// TranslateResponse is the success reply to a translate message.
type TranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

// TestConnectionResponse is the reply to a testConnection message. It is
// always returned with HTTP 200; Success carries the outcome.
type TestConnectionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// StatusResponse reports current admission capacity.
type StatusResponse struct {
	RemainingRequests int  `json:"remainingRequests"`
	WaitSeconds       *int `json:"waitSeconds,omitempty"`
	Quota             int  `json:"quota"`
	WindowSeconds     int  `json:"windowSeconds"`
}

// PluginStatusResponse echoes the plugin state after a change.
type PluginStatusResponse struct {
	IsActive bool `json:"isActive"`
}

// ErrorResponse provides consistent error information across all endpoints.
//
// Wire Shape:
// - {"error": {"message": ..., "code": ..., "waitSeconds": ...}}
// - message is what the extension shows to the user
// - waitSeconds is set only for quota rejections
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message     string    `json:"message"`               // Human-readable error description
	Code        string    `json:"code,omitempty"`        // Machine-readable error code
	WaitSeconds *int      `json:"waitSeconds,omitempty"` // Seconds until capacity frees up
	Timestamp   time.Time `json:"timestamp"`             // Error occurrence time
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Metrics    map[string]interface{}     `json:"metrics,omitempty"`
}

type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health Status Constants
const (
	StatusHealthy   = "healthy"   // All systems operational
	StatusUnhealthy = "unhealthy" // Major system issues
	StatusDegraded  = "degraded"  // Partial functionality
)

// Standard Error Codes
//
// Error Code Strategy:
// - Upper-case with underscores for consistency
// - Maps to standard HTTP status codes
// - Machine-readable for client error handling
const (
	ErrorCodeNotFound          = "NOT_FOUND"          // 404: Resource doesn't exist
	ErrorCodeBadRequest        = "BAD_REQUEST"        // 400: Invalid request format
	ErrorCodeInvalidRequest    = "INVALID_REQUEST"    // 400: Invalid request data
	ErrorCodeValidation        = "VALIDATION_ERROR"   // 422: Input validation failed
	ErrorCodeInternalError     = "INTERNAL_ERROR"     // 500: Server-side error
	ErrorCodeQuotaExceeded     = "QUOTA_EXCEEDED"     // 429: Admission gate rejected the request
	ErrorCodeTransportFailure  = "TRANSPORT_FAILURE"  // 502: Provider call failed
	ErrorCodeMalformedResponse = "MALFORMED_RESPONSE" // 502: Provider replied without a translation
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Message:   message,
			Code:      code,
			Timestamp: time.Now(),
		},
	}
}

// WithWaitSeconds attaches the rejection wait time.
func (r *ErrorResponse) WithWaitSeconds(seconds int) *ErrorResponse {
	r.Error.WaitSeconds = &seconds
	return r
}

func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
		Metrics:    make(map[string]interface{}),
	}
}

func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
	if status != StatusHealthy && h.Status == StatusHealthy {
		h.Status = StatusDegraded
	}
}

func (h *HealthCheckResponse) AddMetric(name string, value interface{}) {
	h.Metrics[name] = value
}
