package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

const notificationColumns = `id, tipo, titulo, mensaje, order_id, order_codigo, destinatarios, leido_por, created_at`

// NotificationRepo implementación del puerto NotificationRepository sobre PostgreSQL.
// Destinatarios es text[] y leido_por es bigint[]; pgx los mapea directo a slices.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador de persistencia para notificaciones.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Create persiste una nueva notificación y asigna su ID.
func (r *NotificationRepo) Create(n *entity.Notification) error {
	query := `
		INSERT INTO notifications (tipo, titulo, mensaje, order_id, order_codigo, destinatarios, leido_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		n.Tipo, n.Titulo, n.Mensaje, n.OrderID, n.OrderCodigo,
		n.Destinatarios, n.LeidoPor, n.CreatedAt,
	).Scan(&n.ID)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// GetByID obtiene una notificación por ID.
func (r *NotificationRepo) GetByID(id int64) (*entity.Notification, error) {
	var n entity.Notification
	err := r.q.QueryRow(context.Background(),
		`SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id,
	).Scan(&n.ID, &n.Tipo, &n.Titulo, &n.Mensaje, &n.OrderID, &n.OrderCodigo,
		&n.Destinatarios, &n.LeidoPor, &n.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &n, nil
}

// ListByRol devuelve las últimas `limit` notificaciones dirigidas al rol.
func (r *NotificationRepo) ListByRol(rol string, limit int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE $1 = ANY(destinatarios) ORDER BY created_at DESC LIMIT $2`
	rows, err := r.q.Query(context.Background(), query, rol, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications by rol: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// ListNoLeidas devuelve las notificaciones del rol que el usuario aún no leyó.
func (r *NotificationRepo) ListNoLeidas(rol string, userID int64) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE $1 = ANY(destinatarios) AND NOT $2 = ANY(leido_por) ORDER BY created_at DESC`
	rows, err := r.q.Query(context.Background(), query, rol, userID)
	if err != nil {
		return nil, fmt.Errorf("list notifications no leidas: %w", err)
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// CountNoLeidas cuenta las notificaciones del rol no leídas por el usuario.
func (r *NotificationRepo) CountNoLeidas(rol string, userID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM notifications WHERE $1 = ANY(destinatarios) AND NOT $2 = ANY(leido_por)`,
		rol, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notifications no leidas: %w", err)
	}
	return n, nil
}

// MarcarLeida agrega el usuario a leido_por solo si no está: el WHERE
// hace la operación idempotente sin round-trip previo.
func (r *NotificationRepo) MarcarLeida(id, userID int64) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE notifications SET leido_por = array_append(leido_por, $2) WHERE id = $1 AND NOT $2 = ANY(leido_por)`,
		id, userID)
	if err != nil {
		return fmt.Errorf("marcar notification leida: %w", err)
	}
	return nil
}

func scanNotifications(rows pgx.Rows) ([]*entity.Notification, error) {
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Tipo, &n.Titulo, &n.Mensaje, &n.OrderID, &n.OrderCodigo,
			&n.Destinatarios, &n.LeidoPor, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}
