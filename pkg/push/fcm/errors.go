package fcm

import "errors"

var (
	// ErrNotConfigured is returned when the client has no server key
	ErrNotConfigured = errors.New("fcm client is not configured")

	// ErrInvalidToken is returned when a token fails the shape check
	ErrInvalidToken = errors.New("invalid push token")

	// ErrNotRegistered is returned when FCM reports the token as permanently invalid
	ErrNotRegistered = errors.New("push token is no longer registered")

	// ErrSendFailed is returned for generic delivery failures
	ErrSendFailed = errors.New("push send failed")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrUnauthorized is returned when the server key is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid server key")
)
