// Package errors defines the coded error types used across the check-in
// workflow: configuration, network, authentication and notification failures.
package errors

import (
	"errors"
	"fmt"
)

// Standard error codes for the application.
const (
	CodeUnknown = "UNKNOWN"
	CodeConfig  = "CONFIG"
	CodeNetwork = "NETWORK"
	CodeAuth    = "AUTH"
	CodeNotify  = "NOTIFY"
)

// ApplicationError is the interface that all our custom errors implement.
type ApplicationError interface {
	error
	Code() string
	Unwrap() error
}

// Error represents a basic application error.
type Error struct {
	code    string
	message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}

	return e.message
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) Unwrap() error {
	return e.err
}

// Code returns the application error code carried by err,
// or CodeUnknown if it doesn't carry one.
func Code(err error) string {
	var appErr ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Code()
	}

	return CodeUnknown
}

// Specific error types and constructors

// ConfigError indicates incomplete or invalid configuration.
type ConfigError struct {
	base Error
}

func (e *ConfigError) Error() string {
	return e.base.Error()
}

func (e *ConfigError) Code() string {
	return e.base.Code()
}

func (e *ConfigError) Unwrap() error {
	return e.base.Unwrap()
}

func NewConfigError(message string, cause error) error {
	return &ConfigError{
		base: Error{
			code:    CodeConfig,
			message: message,
			err:     cause,
		},
	}
}

// NetworkError indicates a transport failure or an unexpected HTTP status.
type NetworkError struct {
	base Error
}

func (e *NetworkError) Error() string {
	return e.base.Error()
}

func (e *NetworkError) Code() string {
	return e.base.Code()
}

func (e *NetworkError) Unwrap() error {
	return e.base.Unwrap()
}

func NewNetworkError(message string, cause error) error {
	return &NetworkError{
		base: Error{
			code:    CodeNetwork,
			message: message,
			err:     cause,
		},
	}
}

// AuthError indicates a logically rejected login or a missing session.
type AuthError struct {
	base Error
}

func (e *AuthError) Error() string {
	return e.base.Error()
}

func (e *AuthError) Code() string {
	return e.base.Code()
}

func (e *AuthError) Unwrap() error {
	return e.base.Unwrap()
}

func NewAuthError(message string) error {
	return &AuthError{
		base: Error{
			code:    CodeAuth,
			message: message,
		},
	}
}

// NotifyError indicates a chat or email delivery failure. It is always
// logged by the caller and never aborts the account pipeline.
type NotifyError struct {
	base Error
}

func (e *NotifyError) Error() string {
	return e.base.Error()
}

func (e *NotifyError) Code() string {
	return e.base.Code()
}

func (e *NotifyError) Unwrap() error {
	return e.base.Unwrap()
}

func NewNotifyError(message string, cause error) error {
	return &NotifyError{
		base: Error{
			code:    CodeNotify,
			message: message,
			err:     cause,
		},
	}
}
