package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AgregarItemCarritoRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
}

type ActualizarItemCarritoRequest struct {
	// Cantidad 0 removes the line.
	Cantidad int `json:"cantidad" validate:"min=0"`
}

type CheckoutRequest struct {
	ClienteID      string  `json:"cliente_id" validate:"required,uuid"`
	DireccionEnvio *string `json:"direccion_envio"`
	NotasCliente   *string `json:"notas_cliente"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemCarritoResponse struct {
	ID             string          `json:"id"`
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto,omitempty"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Cantidad       int             `json:"cantidad"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type CarritoResponse struct {
	ID    string                `json:"id"`
	Items []ItemCarritoResponse `json:"items"`
	// Total is informative only; the authoritative totals are computed at
	// checkout from current catalog prices.
	Total decimal.Decimal `json:"total"`
}
