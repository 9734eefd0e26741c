package models

import "errors"

// ErrorKind classifies why a chart request failed.
type ErrorKind int

const (
	KindMissingField ErrorKind = iota + 1
	KindInvalidDate
	KindUnsupportedGranularity
	KindInvalidDateRange
	KindUnknownSymbol
	KindRateLimited
	KindUnexpectedResponse
	KindFetchError
	KindEmptyRange
	KindUnsupportedChartType
	KindRenderError
)

var kindNames = map[ErrorKind]string{
	KindMissingField:           "missing_field",
	KindInvalidDate:            "invalid_date",
	KindUnsupportedGranularity: "unsupported_granularity",
	KindInvalidDateRange:       "invalid_date_range",
	KindUnknownSymbol:          "unknown_symbol",
	KindRateLimited:            "rate_limited",
	KindUnexpectedResponse:     "unexpected_response",
	KindFetchError:             "fetch_error",
	KindEmptyRange:             "empty_range",
	KindUnsupportedChartType:   "unsupported_chart_type",
	KindRenderError:            "render_error",
}

// user-facing one-liners shown as flash messages
var kindMessages = map[ErrorKind]string{
	KindMissingField:           "ERROR: Please fill out all fields before submitting.",
	KindInvalidDate:            "ERROR: Please enter dates in YYYY-MM-DD format.",
	KindUnsupportedGranularity: "ERROR: Please select a valid time series.",
	KindInvalidDateRange:       "ERROR: Please enter an end date that occurs after the start date.",
	KindUnknownSymbol:          "No data found for stock symbol. Please try again.",
	KindRateLimited:            "API limit reached. Please wait before trying again.",
	KindUnexpectedResponse:     "Unexpected error. Please try again.",
	KindFetchError:             "Error fetching data.",
	KindEmptyRange:             "No data available for the selected date range.",
	KindUnsupportedChartType:   "Error selecting chart type.",
	KindRenderError:            "Error rendering chart. Please try again.",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Message returns the user-facing text for the kind.
func (k ErrorKind) Message() string {
	if s, ok := kindMessages[k]; ok {
		return s
	}
	return "Please try again."
}

// Sentinels for errors.Is comparisons.
var (
	ErrMissingField           = &ChartError{Kind: KindMissingField}
	ErrInvalidDate            = &ChartError{Kind: KindInvalidDate}
	ErrUnsupportedGranularity = &ChartError{Kind: KindUnsupportedGranularity}
	ErrInvalidDateRange       = &ChartError{Kind: KindInvalidDateRange}
	ErrUnknownSymbol          = &ChartError{Kind: KindUnknownSymbol}
	ErrRateLimited            = &ChartError{Kind: KindRateLimited}
	ErrUnexpectedResponse     = &ChartError{Kind: KindUnexpectedResponse}
	ErrFetchError             = &ChartError{Kind: KindFetchError}
	ErrEmptyRange             = &ChartError{Kind: KindEmptyRange}
	ErrUnsupportedChartType   = &ChartError{Kind: KindUnsupportedChartType}
	ErrRenderError            = &ChartError{Kind: KindRenderError}
)

// ChartError is the error returned by every stage of the chart pipeline.
//
// Kind drives the user-facing message and the HTTP status; Err keeps the
// underlying cause for logs.
type ChartError struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

// NewChartError builds a ChartError of the given kind.
func NewChartError(kind ErrorKind, detail string, cause error) *ChartError {
	return &ChartError{Kind: kind, Detail: detail, Err: cause}
}

func (e *ChartError) Error() string {
	msg := e.Kind.String()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ChartError) Unwrap() error { return e.Err }

// Is matches any ChartError of the same kind, so callers can write
// errors.Is(err, models.ErrEmptyRange).
func (e *ChartError) Is(target error) bool {
	var t *ChartError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// UserMessage returns the flash text for err, or a generic retry message.
func UserMessage(err error) string {
	var ce *ChartError
	if errors.As(err, &ce) {
		return ce.Kind.Message()
	}
	return "Please try again."
}

// KindOf extracts the ErrorKind from err, or 0 when err is not a ChartError.
func KindOf(err error) ErrorKind {
	var ce *ChartError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return 0
}
