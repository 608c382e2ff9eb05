package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
)

// CatalogHandler categorías y proveedores.
type CatalogHandler struct {
	uc *usecase.ProductUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.ProductUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateCategory godoc
// @Summary      Crear categoría
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CategoryRequest  true  "Categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CatalogHandler) CreateCategory(c *fiber.Ctx) error {
	var in dto.CategoryRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AddCategory(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateSupplier godoc
// @Summary      Crear proveedor
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SupplierRequest  true  "Proveedor"
// @Success      201   {object}  dto.SupplierResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var in dto.SupplierRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AddSupplier(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCategory godoc
// @Summary      Obtener categoría
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CatalogHandler) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetCategory(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetSupplier godoc
// @Summary      Obtener proveedor
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID"
// @Success      200  {object}  dto.SupplierResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *CatalogHandler) GetSupplier(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSupplier(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
