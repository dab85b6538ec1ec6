package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/notifications"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// intervalo del evento de reconciliación del contador en el stream SSE.
const countTick = 30 * time.Second

// NotificationHandler maneja notificaciones in-app y su stream en vivo.
type NotificationHandler struct {
	uc  *notifications.UseCase
	log *logger.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(uc *notifications.UseCase, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar notificaciones del usuario (últimas 50)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.NotificationResponse
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.GetForUser(GetUserID(c), GetRole(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UnreadCount godoc
// @Summary      Contar notificaciones no leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UnreadCountResponse
// @Router       /api/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.uc.UnreadCount(GetUserID(c), GetRole(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(dto.UnreadCountResponse{Count: count})
}

// MarkRead godoc
// @Summary      Marcar una notificación como leída (idempotente)
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la notificación"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.MarkRead(id, GetUserID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// MarkAllRead godoc
// @Summary      Marcar todas las notificaciones como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MarkAllReadResponse
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	out, err := h.uc.MarkAllRead(GetUserID(c), GetRole(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Stream godoc
// @Summary      Stream SSE de notificaciones en vivo
// @Description  Emite un evento `count` inicial, eventos `notification` dirigidos
// @Description  al rol del usuario, y un `count` de reconciliación cada 30s.
// @Tags         notifications
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	userID := GetUserID(c)
	rol := GetRole(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	subID, events := h.uc.Hub().Subscribe()
	hub := h.uc.Hub()

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer hub.Unsubscribe(subID)

		ticker := time.NewTicker(countTick)
		defer ticker.Stop()

		// Contador inicial para que el cliente arranque sincronizado.
		if !h.writeCount(w, userID, rol) {
			return
		}

		for {
			select {
			case n, ok := <-events:
				if !ok {
					return
				}
				if !dirigidaA(n.Destinatarios, rol) {
					continue
				}
				payload, err := json.Marshal(dto.NotificationResponse{
					ID:            n.ID,
					Tipo:          n.Tipo,
					Titulo:        n.Titulo,
					Mensaje:       n.Mensaje,
					OrderID:       n.OrderID,
					OrderCodigo:   n.OrderCodigo,
					Destinatarios: n.Destinatarios,
					CreatedAt:     n.CreatedAt,
				})
				if err != nil {
					continue
				}
				if !writeEvent(w, "notification", payload) {
					return
				}
			case <-ticker.C:
				// Reconciliación periódica: compensa eventos perdidos por buffer lleno.
				if !h.writeCount(w, userID, rol) {
					return
				}
			}
		}
	}))
	return nil
}

// writeCount emite un evento `count`; false si el cliente se desconectó.
func (h *NotificationHandler) writeCount(w *bufio.Writer, userID int64, rol string) bool {
	count, err := h.uc.UnreadCount(userID, rol)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", userID).Msg("contador de no leídas en stream")
		return true
	}
	return writeEvent(w, "count", []byte(fmt.Sprintf(`{"count":%d}`, count)))
}

func writeEvent(w *bufio.Writer, event string, data []byte) bool {
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return false
	}
	return w.Flush() == nil
}

func dirigidaA(destinatarios []string, rol string) bool {
	for _, d := range destinatarios {
		if d == rol {
			return true
		}
	}
	return false
}
