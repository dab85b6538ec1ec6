package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/permisos"
	"github.com/chpcstore/tienda-api/internal/application/users"
)

// PermisoHandler maneja los permisos temporales de vendedores.
type PermisoHandler struct {
	uc      *permisos.UseCase
	usersUC *users.UseCase
}

// NewPermisoHandler construye el handler.
func NewPermisoHandler(uc *permisos.UseCase, usersUC *users.UseCase) *PermisoHandler {
	return &PermisoHandler{uc: uc, usersUC: usersUC}
}

// Grant godoc
// @Summary      Otorgar permiso temporal a un vendedor (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePermisoRequest  true  "Permiso a otorgar"
// @Success      201   {object}  dto.PermisoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/permisos [post]
func (h *PermisoHandler) Grant(c *fiber.Ctx) error {
	var in dto.CreatePermisoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Grant(h.actorName(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// actorName resuelve el nombre a mostrar del administrador que otorga.
func (h *PermisoHandler) actorName(c *fiber.Ctx) string {
	actor, err := h.usersUC.GetByID(GetUserID(c))
	if err != nil || actor == nil {
		return fmt.Sprintf("admin#%d", GetUserID(c))
	}
	return strings.TrimSpace(actor.Nombre + " " + actor.Apellido)
}

// Check godoc
// @Summary      Verificar si el usuario autenticado tiene un permiso
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Param        tipo  path  string  true  "Tipo de permiso (banners|promociones|logo|all)"
// @Success      200   {object}  dto.CheckPermisoResponse
// @Router       /api/permisos/check/{tipo} [get]
func (h *PermisoHandler) Check(c *fiber.Ctx) error {
	tipo := c.Params("tipo")
	out, err := h.uc.Check(GetUserID(c), GetRole(c), tipo)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar todos los permisos temporales (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PermisoResponse
// @Router       /api/permisos [get]
func (h *PermisoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListByUser godoc
// @Summary      Listar permisos de un usuario (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del usuario"
// @Success      200  {array}  dto.PermisoResponse
// @Router       /api/permisos/user/{id} [get]
func (h *PermisoHandler) ListByUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.ListByUser(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListMine godoc
// @Summary      Listar los permisos vigentes del usuario autenticado
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PermisoResponse
// @Router       /api/permisos/mine [get]
func (h *PermisoHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListVigentes(GetUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar un permiso temporal (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del permiso"
// @Param        body  body  dto.UpdatePermisoRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PermisoResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/permisos/{id} [put]
func (h *PermisoHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdatePermisoRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Revoke godoc
// @Summary      Revocar un permiso sin borrarlo (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del permiso"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permisos/{id}/revoke [put]
func (h *PermisoHandler) Revoke(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Revoke(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// Delete godoc
// @Summary      Eliminar un permiso (solo admin)
// @Tags         permisos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del permiso"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permisos/{id} [delete]
func (h *PermisoHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Delete(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
