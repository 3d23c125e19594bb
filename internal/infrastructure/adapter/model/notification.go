package model

import (
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
)

// Notification is the stored form of a notification
type Notification struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Type    string    `json:"type"`
	Date    time.Time `json:"date"`
	IsRead  bool      `json:"isRead"`
}

// NotificationFromEntity converts a notification to its stored form
func NotificationFromEntity(n *entity.Notification) Notification {
	return Notification{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
		Type:    string(n.Type),
		Date:    n.Date,
		IsRead:  n.IsRead,
	}
}

// ToEntity converts the stored form back to a notification
func (m Notification) ToEntity() *entity.Notification {
	return &entity.Notification{
		ID:      m.ID,
		Title:   m.Title,
		Message: m.Message,
		Type:    entity.NotificationType(m.Type),
		Date:    m.Date,
		IsRead:  m.IsRead,
	}
}
