package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// TransferHandler maneja las peticiones HTTP de traslados entre bodegas (protegido).
type TransferHandler struct {
	uc  TransferService
	log *logger.Logger
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc TransferService, log *logger.Logger) *TransferHandler {
	return &TransferHandler{uc: uc, log: log.Component("http.transfers")}
}

// Create godoc
// @Summary      Crear traslado en DRAFT
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Bodegas origen/destino y líneas"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), orgID, userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SetLineLocations godoc
// @Summary      Asignar ubicaciones de una línea
// @Description  Origen solo en DRAFT; destino en DRAFT o IN_TRANSIT.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id      path  string                       true  "ID del traslado"
// @Param        lineId  path  string                       true  "ID de la línea"
// @Param        body    body  dto.SetLineLocationsRequest  true  "Ubicaciones"
// @Success      200     {object}  dto.TransferResponse
// @Router       /api/transfers/{id}/lines/{lineId}/locations [put]
func (h *TransferHandler) SetLineLocations(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var in dto.SetLineLocationsRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetLineLocations(c.Context(), orgID, c.Params("id"), c.Params("lineId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Confirm godoc
// @Summary      Despachar traslado
// @Description  DRAFT -> IN_TRANSIT. Genera el TRANSFER_OUT al costo promedio del origen. Repetirlo no duplica la salida.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Confirm)
}

// Receive godoc
// @Summary      Recibir lo pendiente del traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive [post]
func (h *TransferHandler) Receive(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Receive)
}

// ReceivePartial godoc
// @Summary      Recibir parcialmente
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del traslado"
// @Param        body  body  dto.ReceivePartialRequest  true  "Cantidades por línea"
// @Success      200   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/receive-partial [post]
func (h *TransferHandler) ReceivePartial(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ReceivePartialRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.ReceivePartial(c.Context(), orgID, c.Params("id"), userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar traslado
// @Description  Lo pendiente vuelve al origen al costo del despacho.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Reject)
}

// Cancel godoc
// @Summary      Cancelar traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, h.uc.Cancel)
}

// GetByID godoc
// @Summary      Obtener traslado
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del traslado"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar traslados
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega origen o destino"
// @Param        status        query  string  false  "Estado"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var in dto.ListTransfersRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	if ok, err := checkStruct(c, &in); !ok {
		return err
	}
	out, err := h.uc.List(c.Context(), orgID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

type transferTransition func(ctx context.Context, orgID, transferID, userID string) (*dto.TransferResponse, error)

func (h *TransferHandler) transition(c *fiber.Ctx, fn transferTransition) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return unauthorized(c)
	}
	out, err := fn(c.Context(), orgID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
