package handler

import (
	"net/http"
	"time"

	"ecommerce/internal/apierror"
	"ecommerce/internal/dto"
	"ecommerce/internal/middleware"
	"ecommerce/internal/repository"
	"ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type KardexHandler struct{ svc service.KardexService }

func NewKardexHandler(svc service.KardexService) *KardexHandler { return &KardexHandler{svc: svc} }

// Listar godoc
// @Summary      Consultar el kardex
// @Description  Retorna el historial de movimientos de inventario, filtrable por producto y rango de fechas, paginado y ordenado del más reciente al más antiguo.
// @Tags         kardex
// @Produce      json
// @Security     BearerAuth
// @Param        producto_id query string false "UUID del producto"
// @Param        desde       query string false "Fecha YYYY-MM-DD inclusive"
// @Param        hasta       query string false "Fecha YYYY-MM-DD inclusive"
// @Param        page        query int    false "Página (default 1)"
// @Param        limit       query int    false "Registros por página (default 100)"
// @Success      200 {object} dto.KardexListResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/kardex [get]
func (h *KardexHandler) Listar(c *gin.Context) {
	var q dto.KardexFilter
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}

	filter := repository.KardexFilter{Page: q.Page, Limit: q.Limit}
	if q.ProductoID != "" {
		pid, err := uuid.Parse(q.ProductoID)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
			return
		}
		filter.ProductoID = &pid
	}
	if q.Desde != "" {
		t, err := time.Parse("2006-01-02", q.Desde)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("desde: formato esperado YYYY-MM-DD"))
			return
		}
		filter.Desde = &t
	}
	if q.Hasta != "" {
		t, err := time.Parse("2006-01-02", q.Hasta)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("hasta: formato esperado YYYY-MM-DD"))
			return
		}
		// inclusive end of day
		fin := t.Add(24*time.Hour - time.Nanosecond)
		filter.Hasta = &fin
	}

	entradas, total, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}

	resp := dto.KardexListResponse{
		Data:  make([]dto.KardexResponse, 0, len(entradas)),
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}
	for i := range entradas {
		resp.Data = append(resp.Data, kardexResponse(&entradas[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Description  Aplica un delta manual (positivo o negativo) sobre el stock del producto, deja el asiento AJUSTE_* en el kardex y reevalúa alertas, todo en una transacción.
// @Tags         kardex
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "UUID del producto"
// @Param        body body dto.AjustarStockRequest true "Delta y motivo"
// @Success      200 {object} dto.KardexResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/productos/{id}/stock [patch]
func (h *KardexHandler) AjustarStock(c *gin.Context) {
	productoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.AjustarStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	entrada, err := h.svc.AjustarStock(c.Request.Context(), productoID, req.Delta, req.Motivo, claims.UserID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, kardexResponse(entrada))
}
