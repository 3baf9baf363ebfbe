package handler

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"ecommerce/internal/apierror"
	"ecommerce/internal/dto"
	"ecommerce/internal/model"
	"ecommerce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// responderError maps service errors to HTTP responses: concurrency conflicts
// to 409 (retryable), missing entities to 404, business-rule rejections to
// 400, everything else to an opaque 500.
func responderError(c *gin.Context, err error) {
	var (
		noEncontrado *service.ProductoNoEncontradoError
		sinStock     *service.StockInsuficienteError
		transicion   *service.TransicionInvalidaError
	)
	switch {
	case service.EsConflicto(err):
		c.JSON(http.StatusConflict, apierror.NewConflict(err.Error()))

	case errors.Is(err, service.ErrOrdenNoEncontrada),
		errors.Is(err, service.ErrClienteNoEncontrado),
		errors.Is(err, service.ErrAlertaNoEncontrada),
		errors.Is(err, service.ErrCarritoNoEncontrado),
		errors.Is(err, service.ErrItemNoEncontrado),
		errors.As(err, &noEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))

	case errors.As(err, &sinStock),
		errors.As(err, &transicion),
		errors.Is(err, service.ErrOrdenSinItems),
		errors.Is(err, service.ErrCantidadInvalida),
		errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, service.ErrAlertaYaRevisada):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))

	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected service error")
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}

// ── Response mappers ──────────────────────────────────────────────────────────

func fechaPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

func ordenResponse(o *model.Orden) dto.OrdenResponse {
	resp := dto.OrdenResponse{
		ID:             o.ID.String(),
		NumeroOrden:    o.NumeroOrden,
		ClienteID:      o.ClienteID.String(),
		Estado:         string(o.Estado),
		Subtotal:       o.Subtotal,
		Descuento:      o.Descuento,
		Impuesto:       o.Impuesto,
		CostoEnvio:     o.CostoEnvio,
		Total:          o.Total,
		DireccionEnvio: o.DireccionEnvio,
		NotasCliente:   o.NotasCliente,
		FechaPago:      fechaPtr(o.FechaPago),
		FechaEnvio:     fechaPtr(o.FechaEnvio),
		FechaEntrega:   fechaPtr(o.FechaEntrega),
		Detalles:       make([]dto.DetalleOrdenResponse, 0, len(o.Detalles)),
		CreatedAt:      o.CreatedAt.Format(time.RFC3339),
	}
	if o.Cliente != nil {
		resp.Cliente = o.Cliente.Nombre
	}
	for _, d := range o.Detalles {
		det := dto.DetalleOrdenResponse{
			ProductoID:     d.ProductoID.String(),
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Descuento:      d.Descuento,
			Subtotal:       d.Subtotal,
		}
		if d.Producto != nil {
			det.Producto = d.Producto.Nombre
		}
		resp.Detalles = append(resp.Detalles, det)
	}
	return resp
}

func kardexResponse(k *model.Kardex) dto.KardexResponse {
	resp := dto.KardexResponse{
		ID:             k.ID.String(),
		ProductoID:     k.ProductoID.String(),
		TipoMovimiento: string(k.TipoMovimiento),
		Cantidad:       k.Cantidad,
		StockAnterior:  k.StockAnterior,
		StockNuevo:     k.StockNuevo,
		Referencia:     k.Referencia,
		Descripcion:    k.Descripcion,
		UsuarioID:      k.UsuarioID,
		CreatedAt:      k.CreatedAt.Format(time.RFC3339),
	}
	if k.Producto != nil {
		resp.Producto = k.Producto.Nombre
	}
	return resp
}

func alertaResponse(a *model.AlertaStock) dto.AlertaResponse {
	resp := dto.AlertaResponse{
		ID:            a.ID.String(),
		ProductoID:    a.ProductoID.String(),
		Tipo:          string(a.Tipo),
		Mensaje:       a.Mensaje,
		Estado:        string(a.Estado),
		FechaRevision: fechaPtr(a.FechaRevision),
		RevisadoPor:   a.RevisadoPor,
		CreatedAt:     a.CreatedAt.Format(time.RFC3339),
	}
	if a.Producto != nil {
		resp.Producto = a.Producto.Nombre
	}
	return resp
}

func carritoResponse(cart *model.Carrito) dto.CarritoResponse {
	resp := dto.CarritoResponse{
		ID:    cart.ID.String(),
		Items: make([]dto.ItemCarritoResponse, 0, len(cart.Items)),
		Total: decimal.Zero,
	}
	for _, it := range cart.Items {
		item := dto.ItemCarritoResponse{
			ID:         it.ID.String(),
			ProductoID: it.ProductoID.String(),
			Cantidad:   it.Cantidad,
		}
		if it.Producto != nil {
			item.Producto = it.Producto.Nombre
			item.PrecioUnitario = it.Producto.Precio
			item.Subtotal = it.Producto.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad)))
			resp.Total = resp.Total.Add(item.Subtotal)
		}
		resp.Items = append(resp.Items, item)
	}
	return resp
}
