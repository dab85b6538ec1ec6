package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/workorders"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
)

// WorkOrderHandler maneja las órdenes de trabajo del taller.
type WorkOrderHandler struct {
	uc *workorders.UseCase
}

// NewWorkOrderHandler construye el handler.
func NewWorkOrderHandler(uc *workorders.UseCase) *WorkOrderHandler {
	return &WorkOrderHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar recepción de un equipo
// @Tags         workorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWorkOrderRequest  true  "Datos del equipo y del cliente"
// @Success      201   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/workorders [post]
func (h *WorkOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	actorID := GetUserID(c)
	out, err := h.uc.Create(&actorID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar órdenes de trabajo
// @Tags         workorders
// @Security     Bearer
// @Produce      json
// @Param        estado       query  string  false  "Filtrar por estado"
// @Param        tecnico_id   query  int     false  "Filtrar por técnico asignado"
// @Param        disponibles  query  bool    false  "Solo órdenes sin técnico"
// @Success      200  {array}  dto.WorkOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/workorders [get]
func (h *WorkOrderHandler) List(c *fiber.Ctx) error {
	estado := strings.TrimSpace(c.Query("estado"))
	var tecnicoID *int64
	if v := c.QueryInt("tecnico_id", 0); v > 0 {
		id := int64(v)
		tecnicoID = &id
	}
	out, err := h.uc.List(estado, tecnicoID, c.QueryBool("disponibles", false))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de trabajo por ID
// @Tags         workorders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/workorders/{id} [get]
func (h *WorkOrderHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Track godoc
// @Summary      Consultar estado por código de seguimiento (público)
// @Tags         workorders
// @Produce      json
// @Param        code  path  string  true  "Código de seguimiento (WO-XXXX)"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/track/{code} [get]
func (h *WorkOrderHandler) Track(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "código de seguimiento requerido"})
	}
	out, err := h.uc.GetByTrackingID(code)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar datos de una orden de trabajo
// @Tags         workorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la orden"
// @Param        body  body  dto.UpdateWorkOrderRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workorders/{id} [put]
func (h *WorkOrderHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, GetUserID(c), GetRole(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Assign godoc
// @Summary      Asignar técnico (sin tecnico_id el actor se asigna a sí mismo)
// @Tags         workorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la orden"
// @Param        body  body  dto.AssignWorkOrderRequest  true  "Técnico a asignar"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/assign [put]
func (h *WorkOrderHandler) Assign(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.AssignWorkOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	tecnicoID := GetUserID(c)
	if in.TecnicoID != nil {
		tecnicoID = *in.TecnicoID
	}
	out, err := h.uc.AssignTecnico(id, GetRole(c), tecnicoID, in.TecnicoNombre)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Unassign godoc
// @Summary      Liberar la orden del técnico asignado
// @Tags         workorders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  dto.WorkOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/assign [delete]
func (h *WorkOrderHandler) Unassign(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.UnassignTecnico(id, GetUserID(c), GetRole(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateEstado godoc
// @Summary      Cambiar estado de la orden de trabajo
// @Tags         workorders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la orden"
// @Param        body  body  dto.UpdateWorkOrderStatusRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.WorkOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/workorders/{id}/estado [put]
func (h *WorkOrderHandler) UpdateEstado(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateWorkOrderStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateEstado(id, GetUserID(c), GetRole(c), in.Estado)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Remove godoc
// @Summary      Cancelar una orden de trabajo (solo admin; el tracking sigue respondiendo)
// @Tags         workorders
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la orden"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/workorders/{id} [delete]
func (h *WorkOrderHandler) Remove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Remove(id, GetRole(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Statistics godoc
// @Summary      Estadísticas del taller (un técnico ve solo las suyas)
// @Tags         workorders
// @Security     Bearer
// @Produce      json
// @Param        tecnico_id  query  int  false  "Limitar a un técnico"
// @Success      200  {object}  entity.WorkOrderStats
// @Router       /api/workorders/stats [get]
func (h *WorkOrderHandler) Statistics(c *fiber.Ctx) error {
	var tecnicoID *int64
	if v := c.QueryInt("tecnico_id", 0); v > 0 {
		id := int64(v)
		tecnicoID = &id
	}
	// Un técnico solo puede consultar sus propios números.
	if GetRole(c) == entity.RolTecnico {
		id := GetUserID(c)
		tecnicoID = &id
	}
	out, err := h.uc.Statistics(tecnicoID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
