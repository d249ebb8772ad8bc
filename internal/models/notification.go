package models

import "time"

const (
	SeveritySuccess = "success"
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

type Notification struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	ClassName string    `json:"className"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type NotificationRequest struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

const (
	NotificationShown     = "shown"
	NotificationDismissed = "dismissed"
)

// NotificationEvent is what SSE subscribers receive.
type NotificationEvent struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}
