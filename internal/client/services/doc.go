// Package services contains the application services of the VisionAQ client.
//
// # Overview
//
//   - CredentialStore:  bearer token and cached profile in the kv store
//   - SessionVerifier:  one-shot startup check of the stored token
//   - SessionManager:   the process-wide SessionState, login/signup/logout
//   - HistoryStore:     newest-first result history and the current-result slot
//   - AnalyzeService:   image upload, result construction and recording
//
// Side effects that callers must not depend on (navigation, toasts) go
// through the Navigator and Notifier ports so they can be faked in tests.
package services
