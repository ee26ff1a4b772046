package types

// ApiResponse is the uniform response envelope. Clients branch on Success
// rather than the HTTP status alone in several flows, so both are carried.
type ApiResponse struct {
	Success bool        `json:"success"`
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Ok builds a success envelope.
func Ok(status int, message string, data interface{}) ApiResponse {
	return ApiResponse{Success: true, Status: status, Message: message, Data: data}
}

// Fail builds a failure envelope.
func Fail(status int, message string) ApiResponse {
	return ApiResponse{Success: false, Status: status, Message: message}
}

// FailWithErrors builds a failure envelope carrying field-level errors.
func FailWithErrors(status int, message string, errs interface{}) ApiResponse {
	return ApiResponse{Success: false, Status: status, Message: message, Errors: errs}
}
