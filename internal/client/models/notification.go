package models

// NotificationKind selects how a notification is styled.
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient, user-visible message about the outcome of an
// operation. Nothing in the client depends on it being delivered.
type Notification struct {
	ID    string
	Title string
	Body  string
	Kind  NotificationKind
}
