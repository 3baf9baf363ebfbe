package handler

import (
	"net/http"

	"ecommerce/internal/apierror"
	"ecommerce/internal/dto"
	"ecommerce/internal/middleware"
	"ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AlertasHandler struct{ svc service.AlertaService }

func NewAlertasHandler(svc service.AlertaService) *AlertasHandler { return &AlertasHandler{svc: svc} }

// ListarPendientes godoc
// @Summary      Listar alertas de stock pendientes
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.AlertaListResponse
// @Router       /api/alertas [get]
func (h *AlertasHandler) ListarPendientes(c *gin.Context) {
	alertas, err := h.svc.ObtenerPendientes(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	resp := dto.AlertaListResponse{Data: make([]dto.AlertaResponse, 0, len(alertas)), Total: len(alertas)}
	for i := range alertas {
		resp.Data = append(resp.Data, alertaResponse(&alertas[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// MarcarRevisada godoc
// @Summary      Marcar alerta como revisada
// @Description  Cierra la alerta registrando quién la revisó y cuándo. Las alertas nunca se eliminan.
// @Tags         alertas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "UUID de la alerta"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/alertas/{id}/revisar [patch]
func (h *AlertasHandler) MarcarRevisada(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	claims := middleware.GetClaims(c)

	if err := h.svc.MarcarRevisada(c.Request.Context(), id, claims.UserID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
