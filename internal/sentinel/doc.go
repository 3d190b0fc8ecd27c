// Package sentinel provides a string-backed error type so that sentinel errors
// can be declared as constants instead of reassignable package variables.
package sentinel
