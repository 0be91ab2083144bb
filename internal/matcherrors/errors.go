// Package matcherrors provides sentinel and custom error types for the matching
// subsystem. Each kind maps to a distinct recovery policy: initialization
// failures are fatal until restart, encoding and storage failures are isolated
// per item in the batch path, and validation failures are rejected before any
// model or storage work begins.
package matcherrors

// ErrInitialization is the sentinel for model initialization failures.
var ErrInitialization = &InitializationError{}

// InitializationError means the embedding model failed to load. All pending and
// future encode calls fail with it until the process restarts.
type InitializationError struct {
	Message string
	Cause   error
}

// NewInitializationError creates an InitializationError wrapping cause.
func NewInitializationError(message string, cause error) *InitializationError {
	return &InitializationError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *InitializationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "embedding model initialization failed"
}

// Unwrap returns the underlying cause.
func (e *InitializationError) Unwrap() error { return e.Cause }

// Is implements the error interface for error comparison.
func (e *InitializationError) Is(target error) bool {
	_, ok := target.(*InitializationError)

	return ok
}

// ErrEncoding is the sentinel for single encode-call failures.
var ErrEncoding = &EncodingError{}

// EncodingError means one encode call failed (bad input or runtime inference
// failure). The batch indexer recovers locally; the query path propagates it.
type EncodingError struct {
	Message string
	Cause   error
}

// NewEncodingError creates an EncodingError wrapping cause.
func NewEncodingError(message string, cause error) *EncodingError {
	return &EncodingError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "embedding generation failed"
}

// Unwrap returns the underlying cause.
func (e *EncodingError) Unwrap() error { return e.Cause }

// Is implements the error interface for error comparison.
func (e *EncodingError) Is(target error) bool {
	_, ok := target.(*EncodingError)

	return ok
}

// ErrStorage is the sentinel for profile store read/write failures.
var ErrStorage = &StorageError{}

// StorageError means a read or write against the member store failed.
type StorageError struct {
	Message string
	Cause   error
}

// NewStorageError creates a StorageError wrapping cause.
func NewStorageError(message string, cause error) *StorageError {
	return &StorageError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "member store operation failed"
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error { return e.Cause }

// Is implements the error interface for error comparison.
func (e *StorageError) Is(target error) bool {
	_, ok := target.(*StorageError)

	return ok
}

// ErrSearch is the sentinel for similarity-procedure failures.
var ErrSearch = &SearchError{}

// SearchError means the external similarity procedure call failed or returned
// malformed data. HTTP callers see a 500 envelope; the script entrypoint logs
// and continues with an empty result list.
type SearchError struct {
	Message string
	Cause   error
}

// NewSearchError creates a SearchError wrapping cause.
func NewSearchError(message string, cause error) *SearchError {
	return &SearchError{Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *SearchError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	return "similarity search failed"
}

// Unwrap returns the underlying cause.
func (e *SearchError) Unwrap() error { return e.Cause }

// Is implements the error interface for error comparison.
func (e *SearchError) Is(target error) bool {
	_, ok := target.(*SearchError)

	return ok
}

// ErrValidation is the sentinel for malformed caller input.
var ErrValidation = &ValidationError{}

// ValidationError means caller input failed validation. It never reaches the
// encoder or storage.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError with a custom message.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}

	if e.Field != "" {
		return "validation failed for field: " + e.Field
	}

	return "validation error"
}

// Is implements the error interface for error comparison.
func (e *ValidationError) Is(target error) bool {
	_, ok := target.(*ValidationError)

	return ok
}

// ErrTimeout is the sentinel for deadline expiry on external calls.
var ErrTimeout = &TimeoutError{}

// TimeoutError means model loading, inference, or the similarity procedure did
// not respond within the configured deadline. Kept distinct from other failure
// kinds so an unresponsive collaborator is diagnosable as such.
type TimeoutError struct {
	Operation string
	Cause     error
}

// NewTimeoutError creates a TimeoutError for the named operation.
func NewTimeoutError(operation string, cause error) *TimeoutError {
	return &TimeoutError{Operation: operation, Cause: cause}
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Operation != "" {
		return e.Operation + " timed out"
	}

	return "operation timed out"
}

// Unwrap returns the underlying cause.
func (e *TimeoutError) Unwrap() error { return e.Cause }

// Is implements the error interface for error comparison.
func (e *TimeoutError) Is(target error) bool {
	_, ok := target.(*TimeoutError)

	return ok
}
