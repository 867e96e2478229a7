package helper

import "fmt"

// NewError wraps err with the operation that failed.
// The returned error keeps err in its chain, so errors.Is and errors.As
// still see typed causes.
func NewError(trace string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", trace, err)
}
