package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/perishables-api/internal/application/usecase"
)

// ReportHandler reportes descargables.
type ReportHandler struct {
	uc *usecase.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Expiring godoc
// @Summary      Reporte de productos por vencer (PDF o XML)
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Produce      application/xml
// @Param        before  query  string  true   "YYYY-MM-DD"
// @Param        format  query  string  false  "pdf (por defecto) o xml"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products/report/expiring [get]
func (h *ReportHandler) Expiring(c *fiber.Ctx) error {
	before := c.Query("before")
	switch c.Query("format", "pdf") {
	case "pdf":
	case "xml":
		out, err := h.uc.ExpiringXML(c.UserContext(), before)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
		return c.Send(out)
	default:
		return badRequest(c, "INVALID_FORMAT", "format debe ser pdf o xml")
	}

	pdf, err := h.uc.ExpiringPDF(c.UserContext(), before)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="por-vencer-`+before+`.pdf"`)
	return c.Send(pdf)
}
