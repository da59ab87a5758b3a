package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// StockHandler consulta de saldos y validación de salidas (protegido).
type StockHandler struct {
	uc  StockService
	log *logger.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(uc StockService, log *logger.Logger) *StockHandler {
	return &StockHandler{uc: uc, log: log.Component("http.stock")}
}

// GetBalances godoc
// @Summary      Saldos por producto y/o bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  false  "Producto"
// @Param        warehouse_id  query  string  false  "Bodega"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *StockHandler) GetBalances(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var q dto.StockQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	q.DefaultPage()
	if ok, err := checkStruct(c, &q); !ok {
		return err
	}
	out, err := h.uc.GetBalances(c.Context(), orgID, q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ValidateOutput godoc
// @Summary      Validar una salida sin reservar
// @Description  Devuelve is_valid=false con el detalle si no alcanza; no es un error HTTP.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ValidateOutputRequest  true  "Producto, ubicación y cantidad"
// @Success      200   {object}  dto.ValidateOutputResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/stock/validate-output [post]
func (h *StockHandler) ValidateOutput(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var in dto.ValidateOutputRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ValidateOutput(c.Context(), orgID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
