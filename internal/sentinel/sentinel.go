package sentinel

var _ error = Error("")

// Error is a sentinel error backed by a string. Values are comparable, so
// errors.Is matches them through any number of %w wrappings.
type Error string

// Error implements the error interface.
func (e Error) Error() string {
	return string(e)
}
