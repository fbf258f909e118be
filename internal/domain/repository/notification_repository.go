package repository

import "github.com/LaibaHameed12/ecom-backend/internal/domain/entity"

// NotificationRepository define el puerto de persistencia para Notification.
type NotificationRepository interface {
	Create(n *entity.Notification) error
	GetByID(id string) (*entity.Notification, error)
	ListByUser(userID string) ([]*entity.Notification, error)
	MarkRead(id string) (*entity.Notification, error)
	Delete(id string) error
}
