package errors

import (
	"errors"
	"fmt"
)

// ValidationError indicates a payload does not match the expected schema.
type ValidationError struct {
	Model string
	Err   error
}

func NewValidationError(model string, err error) *ValidationError {
	return &ValidationError{Model: model, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %v", e.Model, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError checks if the error is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// AssertionError indicates a business-rule check failed during a flow step.
type AssertionError struct {
	Step string
	Msg  string
}

func NewAssertionError(step, format string, args ...any) *AssertionError {
	return &AssertionError{Step: step, Msg: fmt.Sprintf(format, args...)}
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("assertion failed at %s: %s", e.Step, e.Msg)
}

func IsAssertionError(err error) bool {
	var e *AssertionError
	return errors.As(err, &e)
}

// TransportError indicates the request never produced an HTTP response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func NewTransportError(method, url string, err error) *TransportError {
	return &TransportError{Method: method, URL: url, Err: err}
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var e *TransportError
	return errors.As(err, &e)
}

// TokenDecodeError indicates a bearer token could not be decoded into claims.
type TokenDecodeError struct {
	Err error
}

func NewTokenDecodeError(err error) *TokenDecodeError {
	return &TokenDecodeError{Err: err}
}

func (e *TokenDecodeError) Error() string {
	return fmt.Sprintf("failed to decode token: %v", e.Err)
}

func (e *TokenDecodeError) Unwrap() error {
	return e.Err
}

func IsTokenDecodeError(err error) bool {
	var e *TokenDecodeError
	return errors.As(err, &e)
}

// ConfigurationError indicates the harness cannot run with the given settings.
type ConfigurationError struct {
	msg string
}

func NewConfigurationError(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{msg: fmt.Sprintf(format, args...)}
}

func NewUnsupportedEnvironmentError(env string) *ConfigurationError {
	return NewConfigurationError("unsupported environment: %s", env)
}

func (e *ConfigurationError) Error() string {
	return e.msg
}

func IsConfigurationError(err error) bool {
	var e *ConfigurationError
	return errors.As(err, &e)
}

// UnknownRoleError indicates a role name outside owner/manager/user/launcher.
type UnknownRoleError struct {
	Role string
}

func NewUnknownRoleError(role string) *UnknownRoleError {
	return &UnknownRoleError{Role: role}
}

func (e *UnknownRoleError) Error() string {
	return fmt.Sprintf("unknown role: %q", e.Role)
}

func IsUnknownRoleError(err error) bool {
	var e *UnknownRoleError
	return errors.As(err, &e)
}

// ResourceNotFoundError indicates a resource was not found.
type ResourceNotFoundError struct {
	Kind string
}

func NewResourceNotFoundError(kind string) *ResourceNotFoundError {
	return &ResourceNotFoundError{Kind: kind}
}

func NewCredentialNotFoundError(role string) *ResourceNotFoundError {
	return NewResourceNotFoundError(fmt.Sprintf("credential for role %s", role))
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Kind)
}

func IsResourceNotFoundError(err error) bool {
	var e *ResourceNotFoundError
	return errors.As(err, &e)
}

// ConflictError indicates the resource already exists.
type ConflictError struct {
	Kind string
	ID   string
}

func NewConflictError(kind, id string) *ConflictError {
	return &ConflictError{Kind: kind, ID: id}
}

func NewAccountExistsError(email string) *ConflictError {
	return NewConflictError("account", email)
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Kind, e.ID)
}

func IsConflictError(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// AuthenticationError indicates missing or rejected credentials.
type AuthenticationError struct {
	msg string
}

func NewAuthenticationError(msg string) *AuthenticationError {
	return &AuthenticationError{msg: msg}
}

func NewInvalidCredentialsError() *AuthenticationError {
	return NewAuthenticationError("invalid email or password")
}

func NewInvalidTokenError(err error) *AuthenticationError {
	return NewAuthenticationError(fmt.Sprintf("invalid token: %v", err))
}

func (e *AuthenticationError) Error() string {
	return e.msg
}

func IsAuthenticationError(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// ForbiddenError indicates the caller is authenticated but not allowed to act.
type ForbiddenError struct {
	Reason string
}

func NewForbiddenError(reason string) *ForbiddenError {
	return &ForbiddenError{Reason: reason}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Reason)
}

func IsForbiddenError(err error) bool {
	var e *ForbiddenError
	return errors.As(err, &e)
}
