package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/promotions"
)

// PromotionHandler maneja las promociones por ventana de tiempo.
type PromotionHandler struct {
	uc *promotions.UseCase
}

// NewPromotionHandler construye el handler.
func NewPromotionHandler(uc *promotions.UseCase) *PromotionHandler {
	return &PromotionHandler{uc: uc}
}

// Create godoc
// @Summary      Crear promoción
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePromotionRequest  true  "Producto, descuento y ventana"
// @Success      201   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/promotions [post]
func (h *PromotionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePromotionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar todas las promociones (gestión)
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.PromotionResponse
// @Router       /api/promotions [get]
func (h *PromotionHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// ListVigentes godoc
// @Summary      Listar promociones vigentes (público)
// @Tags         promotions
// @Produce      json
// @Success      200  {array}  dto.PromotionResponse
// @Router       /api/promotions/vigentes [get]
func (h *PromotionHandler) ListVigentes(c *fiber.Ctx) error {
	out, err := h.uc.ListVigentes()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// FindByProducto godoc
// @Summary      Promoción vigente de un producto (público)
// @Tags         promotions
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.PromotionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/promotions/producto/{id} [get]
func (h *PromotionHandler) FindByProducto(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.FindByProducto(id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener promoción por ID
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la promoción"
// @Success      200  {object}  dto.PromotionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [get]
func (h *PromotionHandler) GetByID(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Editar promoción
// @Tags         promotions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la promoción"
// @Param        body  body  dto.UpdatePromotionRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.PromotionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [put]
func (h *PromotionHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdatePromotionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar promoción
// @Tags         promotions
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la promoción"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/promotions/{id} [delete]
func (h *PromotionHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.Remove(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
