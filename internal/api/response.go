package api

import (
	"errors"
	"net/http"

	"nexusdash/pkg/nexusdash"
)

// ErrorResponse represents an error API response with structured information.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
}

// writeErrorResponse writes an error response with proper HTTP status and
// error details.
func writeErrorResponse(w http.ResponseWriter, httpStatus int, err error) {
	response := ErrorResponse{
		Code:    httpStatus,
		Message: err.Error(),
	}

	var structured *nexusdash.Error
	if errors.As(err, &structured) {
		response.ErrorCode = string(structured.Code)
		httpStatus = mapErrorCodeToHTTPStatus(structured.Code)
		response.Code = httpStatus
	}

	writeJSON(w, httpStatus, response)
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code nexusdash.ErrorCode) int {
	switch code {
	case nexusdash.ErrCodeValidation:
		return http.StatusBadRequest
	case nexusdash.ErrCodeNotFound:
		return http.StatusNotFound
	case nexusdash.ErrCodeBusy:
		return http.StatusConflict
	case nexusdash.ErrCodeGateway:
		return http.StatusBadGateway
	case nexusdash.ErrCodeMalformedResponse:
		return http.StatusBadGateway
	case nexusdash.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
