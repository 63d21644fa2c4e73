package handlers

// Error Codes
const (
	ErrCodeInvalidFormData   = "invalid_form_data"
	ErrCodeInvalidDayOfWeek  = "invalid_day_of_week"
	ErrCodeSessionSaveFailed = "session_save_failed"
	ErrCodeSessionLoadFailed = "session_load_failed"
	ErrCodeRenderFailed      = "render_failed"
	ErrCodeUnknown           = "unknown_error"
)

// ErrorMessages maps error codes to user-friendly messages
var ErrorMessages = map[string]string{
	ErrCodeInvalidFormData:   "Invalid form data.",
	ErrCodeInvalidDayOfWeek:  "Invalid day of week.",
	ErrCodeSessionSaveFailed: "Failed to save your selection. Please try again.",
	ErrCodeSessionLoadFailed: "Failed to load your selection. Please reload the page.",
	ErrCodeRenderFailed:      "Failed to render the plot.",
	ErrCodeUnknown:           "An unknown error occurred.",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code string) string {
	if msg, ok := ErrorMessages[code]; ok {
		return msg
	}
	return ErrorMessages[ErrCodeUnknown]
}
