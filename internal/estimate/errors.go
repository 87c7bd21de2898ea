package estimate

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before the cascade runs. It is the only
// error Service.Estimate returns.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errStagePanic marks a stage that panicked.
var errStagePanic = errors.New("stage panicked")
