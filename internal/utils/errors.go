package utils

// Error codes carried in the JSON error envelope.
const (
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeTransient       = "TEMPORARY_FAILURE"
	CodeNotFound        = "NOT_FOUND"
	CodeBadRequest      = "BAD_REQUEST"
)
