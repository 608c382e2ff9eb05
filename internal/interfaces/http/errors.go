package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/dto"
	"github.com/jhoicas/perishables-api/internal/domain"
)

// writeError traduce errores del dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: vErr.Error(), Field: vErr.Field})
	case errors.Is(err, domain.ErrExpired):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EXPIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con ese nombre"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	c.Locals(localError, err)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno, intente más tarde"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
