package model

import "time"

// NoticeKind is the severity of a notification.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a message shown to the user for a limited time.
type Notice struct {
	Message   string
	Kind      NoticeKind
	ExpiresAt time.Time
}

// Notifier reports mutation outcomes to the presentation layer.
type Notifier interface {
	Publish(message string, kind NoticeKind)
}
