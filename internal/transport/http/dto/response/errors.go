package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrValidationFailed = ErrorResponse{
		Status:  "error",
		Error:   "validation_failed",
		Details: "Request data violates a precondition",
	}

	ErrStorageUnavailable = ErrorResponse{
		Status:  "error",
		Error:   "storage_unavailable",
		Details: "Persistent storage could not be opened",
	}

	ErrRecordNotFound = ErrorResponse{
		Status:  "error",
		Error:   "not_found",
		Details: "Record does not exist",
	}

	ErrInternal = ErrorResponse{
		Status:  "error",
		Error:   "internal_error",
		Details: "Operation failed",
	}
)
