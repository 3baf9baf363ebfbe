package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemOrdenRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type CrearOrdenRequest struct {
	ClienteID      string             `json:"cliente_id" validate:"required,uuid"`
	Items          []ItemOrdenRequest `json:"items"      validate:"required,min=1,dive"`
	DireccionEnvio *string            `json:"direccion_envio"`
	NotasCliente   *string            `json:"notas_cliente"`
}

type CambiarEstadoRequest struct {
	Estado string `json:"estado" validate:"required,oneof=Pendiente Confirmado Enviado Entregado Cancelado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleOrdenResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Descuento      decimal.Decimal `json:"descuento"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type OrdenResponse struct {
	ID          string `json:"id"`
	NumeroOrden string `json:"numero_orden"`
	ClienteID   string `json:"cliente_id"`
	Cliente     string `json:"cliente,omitempty"`
	Estado      string `json:"estado"`

	Subtotal   decimal.Decimal `json:"subtotal"`
	Descuento  decimal.Decimal `json:"descuento"`
	Impuesto   decimal.Decimal `json:"impuesto"`
	CostoEnvio decimal.Decimal `json:"costo_envio"`
	Total      decimal.Decimal `json:"total"`

	DireccionEnvio *string `json:"direccion_envio,omitempty"`
	NotasCliente   *string `json:"notas_cliente,omitempty"`

	FechaPago    *string `json:"fecha_pago,omitempty"`
	FechaEnvio   *string `json:"fecha_envio,omitempty"`
	FechaEntrega *string `json:"fecha_entrega,omitempty"`

	Detalles  []DetalleOrdenResponse `json:"detalles"`
	CreatedAt string                 `json:"created_at"`
}

type OrdenListResponse struct {
	Data  []OrdenResponse `json:"data"`
	Total int             `json:"total"`
}
