package handler

import (
	"net/http"

	"ecommerce/internal/apierror"
	"ecommerce/internal/dto"
	"ecommerce/internal/middleware"
	"ecommerce/internal/model"
	"ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrdenesHandler struct{ svc service.OrdenService }

func NewOrdenesHandler(svc service.OrdenService) *OrdenesHandler { return &OrdenesHandler{svc: svc} }

// CrearOrden godoc
// @Summary      Crear una nueva orden
// @Description  Crea la orden ACID: valida stock, descuenta inventario, registra movimientos de kardex y evalúa alertas en una sola transacción. 409 indica conflicto de concurrencia sin efectos; el cliente puede reintentar.
// @Tags         ordenes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearOrdenRequest true "Detalle de la orden"
// @Success      201  {object} dto.OrdenResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/ordenes [post]
func (h *OrdenesHandler) CrearOrden(c *gin.Context) {
	var req dto.CrearOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cliente_id invalido"))
		return
	}

	orden, err := h.svc.CrearOrden(c.Request.Context(), clienteID, req.Items, req.DireccionEnvio, req.NotasCliente)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordenResponse(orden))
}

// ObtenerOrden godoc
// @Summary      Obtener orden por ID
// @Tags         ordenes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la orden"
// @Success      200 {object} dto.OrdenResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/ordenes/{id} [get]
func (h *OrdenesHandler) ObtenerOrden(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	orden, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordenResponse(orden))
}

// ListarOrdenes godoc
// @Summary      Listar órdenes de un cliente
// @Tags         ordenes
// @Produce      json
// @Security     BearerAuth
// @Param        cliente_id query string true "UUID del cliente"
// @Success      200 {object} dto.OrdenListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/ordenes [get]
func (h *OrdenesHandler) ListarOrdenes(c *gin.Context) {
	clienteID, err := uuid.Parse(c.Query("cliente_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cliente_id invalido"))
		return
	}
	ordenes, err := h.svc.ObtenerPorCliente(c.Request.Context(), clienteID)
	if err != nil {
		responderError(c, err)
		return
	}
	resp := dto.OrdenListResponse{Data: make([]dto.OrdenResponse, 0, len(ordenes)), Total: len(ordenes)}
	for i := range ordenes {
		resp.Data = append(resp.Data, ordenResponse(&ordenes[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CambiarEstado godoc
// @Summary      Cambiar estado de la orden
// @Description  Avanza la orden por la máquina de estados (Pendiente → Confirmado → Enviado → Entregado). Cancelado restaura el stock con movimientos de devolución.
// @Tags         ordenes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "UUID de la orden"
// @Param        body body dto.CambiarEstadoRequest true "Nuevo estado"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/ordenes/{id}/estado [patch]
func (h *OrdenesHandler) CambiarEstado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.CambiarEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.svc.CambiarEstado(c.Request.Context(), id, model.EstadoOrden(req.Estado), claims.UserID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CancelarOrden godoc
// @Summary      Cancelar orden
// @Description  Cancela la orden y restaura el stock de todas sus líneas con entradas de devolución en el kardex, atómicamente.
// @Tags         ordenes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la orden"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/ordenes/{id} [delete]
func (h *OrdenesHandler) CancelarOrden(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.svc.CancelarOrden(c.Request.Context(), id, claims.UserID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
