package domain

import "github.com/google/uuid"

// NotificationKind classifies a notification for display purposes
type NotificationKind string

const (
	NotificationInfo    NotificationKind = "info"
	NotificationSuccess NotificationKind = "success"
	NotificationWarning NotificationKind = "warning"
	NotificationError   NotificationKind = "error"
)

// Notification is a message shown in the user's notification feed
type Notification struct {
	ID      uuid.UUID
	Title   string
	Message string
	Kind    NotificationKind
	Read    bool
}
