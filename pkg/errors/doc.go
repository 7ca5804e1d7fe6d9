// Package errors provides custom error types for the mlx-e2e harness.
//
// Each error type includes a constructor, Error() method, and a type-checking
// helper using errors.As for proper error unwrapping.
//
// # Error Types Overview
//
//	┌──────────────────────────┬──────────────────────────────────────────────┐
//	│ Error Type               │ Description                                  │
//	├──────────────────────────┼──────────────────────────────────────────────┤
//	│ ValidationError          │ Response or document does not match schema   │
//	│ AssertionError           │ Business-rule check failed in a flow step    │
//	│ TransportError           │ Network/HTTP layer failure, no response      │
//	│ TokenDecodeError         │ Bearer token payload could not be decoded    │
//	│ ConfigurationError       │ Unsupported environment, invalid settings    │
//	│ UnknownRoleError         │ Role outside owner/manager/user/launcher     │
//	│ ResourceNotFoundError    │ Credential or document missing               │
//	│ ConflictError            │ Sandbox resource already exists              │
//	│ AuthenticationError      │ Sandbox rejected credentials or token        │
//	│ ForbiddenError           │ Sandbox refused an authenticated caller      │
//	└──────────────────────────┴──────────────────────────────────────────────┘
//
// # ValidationError
//
// Returned by models.Parse when JSON cannot be decoded into the target record
// or when a required field is missing. The Model field names the record type.
//
// Constructor:
//   - NewValidationError(model string, err error)
//
// Usage:
//
//	parsed, err := models.Parse[models.SigninResponse](res.Body)
//	if errors.IsValidationError(err) {
//	    log.Errorw("refresh response rejected", "error", err)
//	    return "", err
//	}
//
// # AssertionError
//
// Returned by the scenario pipeline when a step's response carries the wrong
// status code or message. The ginkgo suites use gomega matchers instead.
//
// Constructor:
//   - NewAssertionError(step, format string, args ...any)
//
// # TransportError
//
// Wraps the error returned by http.Client.Do. HTTP error statuses are not
// transport errors: the API clients return them as regular results.
//
// Constructor:
//   - NewTransportError(method, url string, err error)
//
// # TokenDecodeError
//
// Returned by token.Decode for malformed tokens, tokens without an expiry and
// tokens whose role claim is missing.
//
// Constructor:
//   - NewTokenDecodeError(err error)
//
// # ConfigurationError
//
// Constructors:
//   - NewConfigurationError(format string, args ...any)
//   - NewUnsupportedEnvironmentError(env string)
//
// # ResourceNotFoundError
//
// Constructors:
//   - NewResourceNotFoundError(kind string)
//   - NewCredentialNotFoundError(role string)
//
// Usage:
//
//	if errors.IsResourceNotFoundError(err) {
//	    c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
//	}
//
// # Sandbox errors
//
// ConflictError, AuthenticationError and ForbiddenError are returned by the
// in-memory sandbox services and mapped to 409, 401 and 403 by its handlers.
//
// Constructors:
//   - NewConflictError(kind, id string), NewAccountExistsError(email string)
//   - NewAuthenticationError(msg string), NewInvalidCredentialsError(), NewInvalidTokenError(err error)
//   - NewForbiddenError(reason string)
package errors
