package compose

import "errors"

// Configuration errors surface at registration time; resolution errors abort
// the whole Apply call. There is no partial result.
var (
	ErrNameRequired        = errors.New("fragment name required")
	ErrReservedDelimiter   = errors.New(`fragment name must not contain ":"`)
	ErrDuplicateFragment   = errors.New("fragment already registered")
	ErrRecursiveDependency = errors.New("recursive dependency")
	ErrUnknownCompanion    = errors.New("companion fragment not registered")
	ErrEmptyOrderFragment  = errors.New("order-by fragment produced no order terms")
)
