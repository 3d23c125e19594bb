package entity

import "time"

// NotificationType is the visual category of a notification
type NotificationType string

// Notification types
const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationMatch   NotificationType = "match"
)

// IsValidNotificationType validates a notification type string
func IsValidNotificationType(s string) bool {
	switch NotificationType(s) {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationMatch:
		return true
	}
	return false
}

// Notification is a message in the shared notification log
type Notification struct {
	ID      string
	Title   string
	Message string
	Type    NotificationType
	Date    time.Time
	IsRead  bool
}

// MarkAllRead flags every notification as read; returns how many changed
func MarkAllRead(list []*Notification) int {
	changed := 0
	for _, n := range list {
		if !n.IsRead {
			n.IsRead = true
			changed++
		}
	}
	return changed
}

// Theme is the persisted UI preference
type Theme string

// Themes
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// DefaultTheme applies when no preference was saved
const DefaultTheme = ThemeDark

// IsValidTheme validates a theme string
func IsValidTheme(s string) bool {
	return s == string(ThemeLight) || s == string(ThemeDark)
}
