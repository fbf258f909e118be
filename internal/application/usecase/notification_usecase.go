package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/LaibaHameed12/ecom-backend/internal/application/dto"
	"github.com/LaibaHameed12/ecom-backend/internal/domain"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/entity"
	"github.com/LaibaHameed12/ecom-backend/internal/domain/repository"
	"github.com/LaibaHameed12/ecom-backend/pkg/logger"
)

// TopicBroadcast tópico del canal en tiempo real que reciben todos los
// clientes conectados; los demás tópicos son el ID del usuario destino.
const TopicBroadcast = "broadcast"

// Eventos que viajan por el canal en tiempo real. Los clientes distinguen
// por nombre de evento qué hacer con el payload.
const (
	EventNotification = "notification"
	EventSaleStarted  = "saleStarted"
	EventSaleEnded    = "saleEnded"
)

// SaleEvent payload de los eventos saleStarted y saleEnded.
type SaleEvent struct {
	ProductID string    `json:"productId"`
	Ts        time.Time `json:"ts"`
}

// Publisher puerto de publicación hacia el canal en tiempo real.
// La implementación concreta (hub de websockets) es un colaborador externo.
type Publisher interface {
	Publish(topic, event string, payload any) error
}

// NotificationUseCase persiste avisos y los empuja por el canal en tiempo
// real. El push es fire-and-forget: un fallo de entrega se registra en el
// log y no revierte la escritura en la base.
type NotificationUseCase struct {
	repo repository.NotificationRepository
	pub  Publisher
	log  *logger.Logger
}

// NewNotificationUseCase construye el despachador de notificaciones.
func NewNotificationUseCase(repo repository.NotificationRepository, pub Publisher, log *logger.Logger) *NotificationUseCase {
	return &NotificationUseCase{repo: repo, pub: pub, log: log}
}

// NotifyUser persiste un aviso dirigido a un usuario y lo publica en su tópico.
func (uc *NotificationUseCase) NotifyUser(userID, title, message, ntype string, relatedID *string) (*dto.NotificationResponse, error) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    &userID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(n); err != nil {
		return nil, err
	}
	out := dto.ToNotificationResponse(n)
	if err := uc.pub.Publish(userID, EventNotification, out); err != nil {
		uc.log.Warn().Err(err).Str("user_id", userID).Msg("push de notificación fallido")
	}
	return out, nil
}

// NotifyAll persiste un aviso sin destinatario (broadcast) y lo publica a todos.
func (uc *NotificationUseCase) NotifyAll(title, message string, relatedID *string) (*dto.NotificationResponse, error) {
	n := &entity.Notification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Type:      entity.NotificationSale,
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(n); err != nil {
		return nil, err
	}
	out := dto.ToNotificationResponse(n)
	if err := uc.pub.Publish(TopicBroadcast, EventNotification, out); err != nil {
		uc.log.Warn().Err(err).Msg("broadcast de notificación fallido")
	}
	return out, nil
}

// Broadcast publica un evento efímero a todos los clientes conectados, sin
// persistir un aviso. Lo usan los eventos de ofertas del canal.
func (uc *NotificationUseCase) Broadcast(event string, payload any) {
	if err := uc.pub.Publish(TopicBroadcast, event, payload); err != nil {
		uc.log.Warn().Err(err).Str("event", event).Msg("broadcast de evento fallido")
	}
}

// ListByUser devuelve los avisos del usuario, más recientes primero.
func (uc *NotificationUseCase) ListByUser(userID string) ([]*dto.NotificationResponse, error) {
	list, err := uc.repo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, dto.ToNotificationResponse(n))
	}
	return out, nil
}

// MarkRead marca un aviso como leído.
func (uc *NotificationUseCase) MarkRead(id string) (*dto.NotificationResponse, error) {
	n, err := uc.repo.MarkRead(id)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToNotificationResponse(n), nil
}

// Delete elimina un aviso.
func (uc *NotificationUseCase) Delete(id string) error {
	n, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
