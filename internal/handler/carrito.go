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

type CarritoHandler struct{ svc service.CarritoService }

func NewCarritoHandler(svc service.CarritoService) *CarritoHandler { return &CarritoHandler{svc: svc} }

// owner resolves the cart owner: the authenticated user when a JWT is present,
// otherwise the anonymous session from the X-Session-ID header.
func owner(c *gin.Context) (usuarioID, sessionID *string, ok bool) {
	if v, exists := c.Get(middleware.ClaimsKey); exists {
		if claims, isClaims := v.(*middleware.JWTClaims); isClaims && claims.UserID != "" {
			return &claims.UserID, nil, true
		}
	}
	if sid := c.GetHeader("X-Session-ID"); sid != "" {
		return nil, &sid, true
	}
	c.JSON(http.StatusBadRequest, apierror.New("Se requiere sesion: header X-Session-ID o token"))
	return nil, nil, false
}

// ObtenerCarrito godoc
// @Summary      Obtener (o crear) el carrito del usuario o sesión
// @Tags         carrito
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Success      200 {object} dto.CarritoResponse
// @Failure      400 {object} apierror.APIError
// @Router       /api/carrito [get]
func (h *CarritoHandler) ObtenerCarrito(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	carrito, err := h.svc.ObtenerCarrito(c.Request.Context(), usuarioID, sessionID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, carritoResponse(carrito))
}

// AgregarItem godoc
// @Summary      Agregar producto al carrito
// @Description  Agrega unidades de un producto; si ya hay una línea para ese producto, las cantidades se suman.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Param        body body dto.AgregarItemCarritoRequest true "Producto y cantidad"
// @Success      200 {object} dto.CarritoResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/carrito/items [post]
func (h *CarritoHandler) AgregarItem(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	var req dto.AgregarItemCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	productoID, err := uuid.Parse(req.ProductoID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("producto_id invalido"))
		return
	}

	carrito, err := h.svc.AgregarItem(c.Request.Context(), usuarioID, sessionID, productoID, req.Cantidad)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, carritoResponse(carrito))
}

// ActualizarItem godoc
// @Summary      Actualizar cantidad de una línea del carrito
// @Description  Cantidad 0 elimina la línea.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Param        id   path string                           true "UUID del item"
// @Param        body body dto.ActualizarItemCarritoRequest true "Nueva cantidad"
// @Success      200 {object} dto.CarritoResponse
// @Failure      400 {object} apierror.APIError
// @Failure      404 {object} apierror.APIError
// @Router       /api/carrito/items/{id} [patch]
func (h *CarritoHandler) ActualizarItem(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	var req dto.ActualizarItemCarritoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	carrito, err := h.svc.ActualizarCantidad(c.Request.Context(), usuarioID, sessionID, itemID, req.Cantidad)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, carritoResponse(carrito))
}

// EliminarItem godoc
// @Summary      Quitar una línea del carrito
// @Tags         carrito
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Param        id path string true "UUID del item"
// @Success      200 {object} dto.CarritoResponse
// @Failure      404 {object} apierror.APIError
// @Router       /api/carrito/items/{id} [delete]
func (h *CarritoHandler) EliminarItem(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}

	carrito, err := h.svc.EliminarItem(c.Request.Context(), usuarioID, sessionID, itemID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, carritoResponse(carrito))
}

// VaciarCarrito godoc
// @Summary      Vaciar el carrito
// @Tags         carrito
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /api/carrito [delete]
func (h *CarritoHandler) VaciarCarrito(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	if err := h.svc.VaciarCarrito(c.Request.Context(), usuarioID, sessionID); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout godoc
// @Summary      Checkout del carrito
// @Description  Convierte el carrito en una orden (misma transacción ACID que POST /api/ordenes) y lo vacía al confirmar la creación.
// @Tags         carrito
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string false "ID de sesión anónima"
// @Param        body body dto.CheckoutRequest true "Cliente y datos de envío"
// @Success      201 {object} dto.OrdenResponse
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /api/carrito/checkout [post]
func (h *CarritoHandler) Checkout(c *gin.Context) {
	usuarioID, sessionID, ok := owner(c)
	if !ok {
		return
	}
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("cliente_id invalido"))
		return
	}

	orden, err := h.svc.Checkout(c.Request.Context(), usuarioID, sessionID, clienteID, req.DireccionEnvio, req.NotasCliente)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordenResponse(orden))
}
