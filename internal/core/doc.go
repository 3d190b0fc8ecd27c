// Package core provides the internal implementation of adbenv: the Controller
// state machine (configure, start, stop with reuse and scoped users), its
// configuration and validation, the Runtime contract the container adapter
// implements, and the package logger.
package core
