package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/application/usecase"
	"github.com/jhoicas/perishables-api/internal/domain"
)

// ProductHandler maneja las peticiones HTTP del inventario de perecederos.
type ProductHandler struct {
	uc *usecase.ProductUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// Create godoc
// @Summary      Recibir producto (crea o acumula stock)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.AddProductResponse
// @Success      200   {object}  dto.AddProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.AddProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	status := fiber.StatusOK
	if out.Created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(out)
}

// Import godoc
// @Summary      Carga masiva de productos (los vencidos se omiten)
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  []dto.ProductRequest  true  "Productos"
// @Success      200   {object}  dto.ImportResult
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	var rows []dto.ProductRequest
	if err := c.BodyParser(&rows); err != nil {
		return badRequest(c, "INVALID_BODY", "se espera un arreglo de productos")
	}
	out, err := h.uc.ImportProducts(c.UserContext(), rows)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar inventario
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.GetAllProducts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ProductRequest  true  "Datos completos"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AdjustStock godoc
// @Summary      Ajustar stock (amount puede ser negativo)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id      path   int  true  "ID del producto"
// @Param        amount  query  int  true  "Cantidad a sumar"
// @Success      200  {object}  dto.ProductResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock [put]
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	amount, err := strconv.Atoi(strings.TrimSpace(c.Query("amount")))
	if err != nil {
		return writeError(c, domain.NewValidationError("amount", "debe ser un entero"))
	}
	out, err := h.uc.AdjustStock(c.UserContext(), id, amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar por nombre (contiene, sin distinguir mayúsculas)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        name  query  string  true  "Texto a buscar"
// @Success      200   {array}  dto.ProductResponse
// @Router       /api/products/search [get]
func (h *ProductHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.FindByName(c.UserContext(), c.Query("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ExpiringBefore godoc
// @Summary      Productos que vencen antes de una fecha
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  true  "YYYY-MM-DD"
// @Success      200   {array}  dto.ProductResponse
// @Router       /api/products/expiring-before [get]
func (h *ProductHandler) ExpiringBefore(c *fiber.Ctx) error {
	out, err := h.uc.FindExpiringBefore(c.UserContext(), c.Query("date"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Auditoría de un producto
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {array}  dto.HistoryResponse
// @Router       /api/products/{id}/history [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ProductHistory(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplyDiscount godoc
// @Summary      Aplicar descuento dinámico a un producto
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Router       /api/products/{id}/discount [post]
func (h *ProductHandler) ApplyDiscount(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ApplyDynamicDiscount(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplyManualDiscount godoc
// @Summary      Aplicar descuento manual (flat | percentage)
// @Tags         discounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.ManualDiscountRequest  true  "Descuento"
// @Success      200   {object}  dto.ProductResponse
// @Router       /api/products/{id}/discount/manual [post]
func (h *ProductHandler) ApplyManualDiscount(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ManualDiscountRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	out, err := h.uc.ApplyManualDiscount(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ApplyDiscounts godoc
// @Summary      Aplicar descuentos dinámicos a todo el inventario
// @Tags         discounts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DiscountRunResponse
// @Router       /api/products/discounts [post]
func (h *ProductHandler) ApplyDiscounts(c *fiber.Ctx) error {
	out, err := h.uc.ApplyDynamicDiscounts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ClearExpired godoc
// @Summary      Dejar en cero el stock vencido
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ClearExpiredResponse
// @Router       /api/products/clear-expired [post]
func (h *ProductHandler) ClearExpired(c *fiber.Ctx) error {
	out, err := h.uc.ClearExpiredStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "debe ser un entero mayor que 0")
	}
	return id, nil
}
