package notifications

import (
	"sync"
	"time"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

// historial máximo devuelto a cada usuario.
const maxNotificaciones = 50

// UseCase notificaciones in-app: persistencia + difusión en vivo vía Hub.
type UseCase struct {
	repo repository.NotificationRepository
	hub  *Hub
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificationRepository, hub *Hub) *UseCase {
	return &UseCase{repo: repo, hub: hub}
}

// Hub expone el hub para el stream SSE.
func (uc *UseCase) Hub() *Hub {
	return uc.hub
}

// Create persiste la notificación con lista de lectores vacía y la difunde en vivo.
func (uc *UseCase) Create(in dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	if in.Titulo == "" || in.Mensaje == "" || len(in.Destinatarios) == 0 {
		return nil, domain.ErrInvalidInput
	}
	n := &entity.Notification{
		Tipo:          in.Tipo,
		Titulo:        in.Titulo,
		Mensaje:       in.Mensaje,
		OrderID:       in.OrderID,
		OrderCodigo:   in.OrderCodigo,
		Destinatarios: in.Destinatarios,
		LeidoPor:      []int64{},
		CreatedAt:     time.Now(),
	}
	if err := uc.repo.Create(n); err != nil {
		return nil, err
	}

	uc.hub.Publish(n)

	return toNotificationResponse(n, 0), nil
}

// GetForUser devuelve las últimas 50 notificaciones del rol del usuario,
// anotadas con su estado de lectura.
func (uc *UseCase) GetForUser(userID int64, rol string) ([]dto.NotificationResponse, error) {
	list, err := uc.repo.ListByRol(rol, maxNotificaciones)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, *toNotificationResponse(n, userID))
	}
	return out, nil
}

// UnreadCount cuenta las notificaciones del rol que el usuario no ha leído.
func (uc *UseCase) UnreadCount(userID int64, rol string) (int64, error) {
	return uc.repo.CountNoLeidas(rol, userID)
}

// MarkRead agrega al usuario a la lista de lectores. Idempotente: repetir la
// llamada deja la lista igual.
func (uc *UseCase) MarkRead(id, userID int64) error {
	n, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if n == nil {
		return domain.ErrNotFound
	}
	return uc.repo.MarcarLeida(id, userID)
}

// MarkAllRead marca como leídas todas las pendientes del usuario.
// Son actualizaciones independientes por fila, lanzadas en paralelo.
func (uc *UseCase) MarkAllRead(userID int64, rol string) (*dto.MarkAllReadResponse, error) {
	pendientes, err := uc.repo.ListNoLeidas(rol, userID)
	if err != nil {
		return nil, err
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for _, n := range pendientes {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := uc.repo.MarcarLeida(id, userID); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(n.ID)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &dto.MarkAllReadResponse{Success: true, Count: int64(len(pendientes))}, nil
}

func toNotificationResponse(n *entity.Notification, userID int64) *dto.NotificationResponse {
	return &dto.NotificationResponse{
		ID:            n.ID,
		Tipo:          n.Tipo,
		Titulo:        n.Titulo,
		Mensaje:       n.Mensaje,
		OrderID:       n.OrderID,
		OrderCodigo:   n.OrderCodigo,
		Destinatarios: n.Destinatarios,
		Leida:         n.LeidaPor(userID),
		CreatedAt:     n.CreatedAt,
	}
}
