package dto

import "time"

// ErrorResponse is the JSON body returned by every failing API call.
//
// Fields:
//   - Message: short human-readable description.
//   - Code: machine-readable error kind for chart pipeline failures (e.g. "rate_limited").
//   - ErrorDetails: underlying error text, when there is one.
//   - Timestamp: when the response was built (UTC).
type ErrorResponse struct {
	Message      string    `json:"message" example:"No data available for the selected date range."`
	Code         string    `json:"code,omitempty" example:"empty_range"`
	ErrorDetails string    `json:"error_details,omitempty" example:"no points between 2023-01-01 and 2023-01-02"`
	Timestamp    time.Time `json:"timestamp"`
}

// Error implements the error interface so the response can travel through c.Error().
func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse, copying err's text into ErrorDetails when err is non-nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
