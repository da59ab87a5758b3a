package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// MovementHandler maneja las peticiones HTTP de movimientos de inventario (protegido).
type MovementHandler struct {
	uc  MovementService
	log *logger.Logger
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc MovementService, log *logger.Logger) *MovementHandler {
	return &MovementHandler{uc: uc, log: log.Component("http.movements")}
}

// Create godoc
// @Summary      Crear movimiento en DRAFT
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "warehouse_id, type y líneas (unit_cost obligatorio en IN y ADJUST_IN)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	orgID, userID := GetOrgID(c), GetUserID(c)
	if orgID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateMovementRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.Create(c.Context(), orgID, userID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddLine godoc
// @Summary      Agregar línea a un movimiento en DRAFT
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.MovementLineRequest  true  "Línea"
// @Success      200   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/lines [post]
func (h *MovementHandler) AddLine(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var in dto.MovementLineRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.AddLine(c.Context(), orgID, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar línea de un movimiento en DRAFT
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id      path  string  true  "ID del movimiento"
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      200     {object}  dto.MovementResponse
// @Router       /api/movements/{id}/lines/{lineId} [delete]
func (h *MovementHandler) RemoveLine(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.RemoveLine(c.Context(), orgID, c.Params("id"), c.Params("lineId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Post godoc
// @Summary      Contabilizar movimiento
// @Description  DRAFT -> POSTED. Aplica las líneas a los saldos con costo promedio ponderado; si una salida no tiene stock no se aplica nada.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/post [post]
func (h *MovementHandler) Post(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Post(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Void godoc
// @Summary      Anular movimiento contabilizado
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/movements/{id}/void [post]
func (h *MovementHandler) Void(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Void(c.Context(), orgID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
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
// @Summary      Listar movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  false  "Bodega"
// @Param        product_id    query  string  false  "Producto (alguna línea)"
// @Param        type          query  string  false  "IN, OUT, ADJUST_IN, ADJUST_OUT, TRANSFER_IN, TRANSFER_OUT"
// @Param        status        query  string  false  "DRAFT, POSTED, VOID"
// @Param        reference     query  string  false  "Referencia externa"
// @Param        from          query  string  false  "Contabilizado desde (RFC3339)"
// @Param        to            query  string  false  "Contabilizado hasta (RFC3339)"
// @Param        limit         query  int     false  "Límite"  default(20)
// @Param        offset        query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	orgID := GetOrgID(c)
	if orgID == "" {
		return unauthorized(c)
	}
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	in.DefaultPage()
	if ok, err := checkStruct(c, &in); !ok {
		return err
	}
	var err error
	if in.From, err = queryTime(c, "from"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
	}
	if in.To, err = queryTime(c, "to"); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
	}
	out, err := h.uc.List(c.Context(), orgID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}
