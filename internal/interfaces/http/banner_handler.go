package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chpcstore/tienda-api/internal/application/catalog"
	"github.com/chpcstore/tienda-api/internal/application/dto"
)

// BannerHandler maneja los banners promocionales de la portada.
type BannerHandler struct {
	uc *catalog.UseCase
}

// NewBannerHandler construye el handler.
func NewBannerHandler(uc *catalog.UseCase) *BannerHandler {
	return &BannerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear banner
// @Tags         banners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBannerRequest  true  "Datos del banner"
// @Success      201   {object}  dto.BannerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/banners [post]
func (h *BannerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBannerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateBanner(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar banners
// @Tags         banners
// @Produce      json
// @Success      200  {array}  dto.BannerResponse
// @Router       /api/banners [get]
func (h *BannerHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListBanners()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar banner
// @Tags         banners
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del banner"
// @Param        body  body  dto.UpdateBannerRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.BannerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/banners/{id} [put]
func (h *BannerHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateBannerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateBanner(id, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar banner
// @Tags         banners
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del banner"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/banners/{id} [delete]
func (h *BannerHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.uc.DeleteBanner(id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
