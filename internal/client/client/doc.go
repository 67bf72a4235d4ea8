// Package client contains client-side building blocks for VisionAQ.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic API contracts for the remote services: AuthAPI
//     (Signup/Login/Verify) and AnalysisAPI (Analyze/Ping).
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that tags every
//     request with an X-Request-ID, sends the bearer token where required and
//     maps responses to sentinel errors.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are exposed as sentinel errors that callers can match with
// errors.Is: ErrUnavailable (transport problems, 5xx, unreadable replies),
// ErrUnauthorized (the service rejected the request and said why) and
// ErrValidation (refused locally before anything was sent). *APIError and
// *ValidationError carry the details and are reachable with errors.As.
//
// Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept
// context.Context and honour cancellation; each request additionally runs
// under the client's own timeout.
//
// See Also
//
//   - Interfaces: AuthAPI, AnalysisAPI
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
//   - Errors:     ErrUnavailable, ErrUnauthorized, ErrValidation, APIError
package client
