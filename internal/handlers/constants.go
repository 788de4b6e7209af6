package handlers

const (
	SessionCookieName = "chore_session"

	// maxBodyBytes caps JSON request bodies
	maxBodyBytes = 64 << 10

	ErrInvalidRequestBody  = "Invalid request body"
	ErrUnauthorized        = "Unauthorized"
	ErrForbidden           = "Forbidden"
	ErrInvalidCSRFToken    = "Invalid CSRF token"
	ErrTooManyRequests     = "Too many requests"
	ErrInternalServerError = "Internal server error"
	ErrMethodNotAllowed    = "Method not allowed"
	ErrMissingFields       = "Missing required fields"
)
