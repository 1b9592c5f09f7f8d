package common

import (
	"encoding/json"
	"net/http"
	"time"

	"planes-utils/flightnoise/internal/constants"
	"planes-utils/flightnoise/internal/logging"
	"planes-utils/flightnoise/internal/models/dtos"
)

// RespondSuccess writes data in the {status, message, response_time, data}
// envelope. The status code defaults to 200.
func RespondSuccess(w http.ResponseWriter, start time.Time, message string, data any, statusCode ...int) {
	writeEnvelope(w, pickStatus(http.StatusOK, statusCode), dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(start),
		Data:         data,
	})
}

// RespondError writes an error envelope without data. A non-empty err
// replaces message. The status code defaults to 500.
func RespondError(w http.ResponseWriter, start time.Time, err error, message string, statusCode ...int) {
	if err != nil && err.Error() != "" {
		message = err.Error()
	}
	writeEnvelope(w, pickStatus(http.StatusInternalServerError, statusCode), dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      message,
		ResponseTime: GetResponseTime(start),
	})
}

func pickStatus(def int, codes []int) int {
	if len(codes) > 0 && codes[0] != 0 {
		return codes[0]
	}
	return def
}

func writeEnvelope(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("Failed to write response", "error", err, "status_code", code)
	}
}
