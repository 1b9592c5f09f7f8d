package constants

// FR24 provider error codes
const (
	ErrCodeInvalidAPIKey     = "INVALID_API_KEY"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeResourceNotFound  = "RESOURCE_NOT_FOUND"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

// Error Messages
// Human-readable messages corresponding to error codes

var FR24ErrorMessages = map[string]string{
	ErrCodeInvalidAPIKey:     "The FR24 API token is missing, invalid or has been revoked",
	ErrCodeRateLimited:       "Rate limit exceeded: too many requests to the FlightRadar24 API. Please wait before retrying",
	ErrCodeNetworkError:      "Unable to connect to the FlightRadar24 API. Please check your internet connection",
	ErrCodeResourceNotFound:  "The requested flight or resource was not found",
	ErrCodeInvalidDataFormat: "The request or response data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := FR24ErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
