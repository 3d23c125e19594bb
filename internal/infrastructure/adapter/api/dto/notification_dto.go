package dto

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// NotificationResponse is one entry of the notification log
type NotificationResponse struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
	IsRead  bool      `json:"isRead"`
}

// NewNotificationResponse maps a notification
func NewNotificationResponse(n *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
		Type:    string(n.Type),
		Date:    n.Date,
		IsRead:  n.IsRead,
	}
}

// NewNotificationListResponse maps the notification log
func NewNotificationListResponse(list []*entity.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NewNotificationResponse(n))
	}
	return out
}

// NotificationRequest is an administrator broadcast
type NotificationRequest struct {
	Title   string `json:"title" binding:"required"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// MarkReadResponse reports how many notifications changed
type MarkReadResponse struct {
	Updated int `json:"updated"`
}

// NoticeBody carries the global ticker text
type NoticeBody struct {
	Text string `json:"text"`
}

// ThemeBody carries the theme preference
type ThemeBody struct {
	Theme string `json:"theme" binding:"required,oneof=light dark"`
}
