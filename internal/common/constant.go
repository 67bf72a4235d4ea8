// Package common contains constants and helpers shared by the client layers.
package common

// Outbound HTTP header names.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
	BearerPrefix            = "Bearer "
)

// Keys of the durable client-side state. The names match the ones the web
// client kept in localStorage so exported data stays recognisable.
const (
	KeySessionToken   = "visionaq_token"
	KeySessionProfile = "visionaq_user"
	KeyResultHistory  = "visionaq_history"
	KeyCurrentResult  = "visionaq_current_result"
)
