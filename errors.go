package avaserial

import "errors"

// Common sentinel errors. Callers may match the structural-validation
// failures with errors.Is using these.
var (
	ErrInvalidRequest    = errors.New("invalid request object")
	ErrInvalidSerializer = errors.New("invalid serializer")
)

// InvalidRequestError indicates that the request argument does not satisfy
// the request contract (non-nil App and Get).
type InvalidRequestError struct{}

// Error implements the error interface. The message is fixed for
// compatibility with existing clients that match on it.
func (e *InvalidRequestError) Error() string {
	return "First argument must be an Express Request object"
}

// Is checks if the error matches the target.
func (e *InvalidRequestError) Is(target error) bool {
	if target == ErrInvalidRequest {
		return true
	}
	_, ok := target.(*InvalidRequestError)
	return ok
}

// InvalidSerializerError indicates that the serializer argument is neither a
// serializer function nor a value with a Serialize method.
type InvalidSerializerError struct{}

// Error implements the error interface. The message is fixed for
// compatibility with existing clients that match on it.
func (e *InvalidSerializerError) Error() string {
	return `Serializer must be a function or have a "serialize" property that is a function`
}

// Is checks if the error matches the target.
func (e *InvalidSerializerError) Is(target error) bool {
	if target == ErrInvalidSerializer {
		return true
	}
	_, ok := target.(*InvalidSerializerError)
	return ok
}
