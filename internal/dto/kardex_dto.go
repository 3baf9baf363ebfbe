package dto

// KardexFilter is bound from query string of GET /v1/kardex.
type KardexFilter struct {
	ProductoID string `form:"producto_id" validate:"omitempty,uuid"`
	Desde      string `form:"desde"` // YYYY-MM-DD inclusive
	Hasta      string `form:"hasta"` // YYYY-MM-DD inclusive
	Page       int    `form:"page,default=1"    validate:"min=1"`
	Limit      int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type AjustarStockRequest struct {
	// Delta is signed: positive adds units, negative removes them.
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=5"`
}

type KardexResponse struct {
	ID             string  `json:"id"`
	ProductoID     string  `json:"producto_id"`
	Producto       string  `json:"producto,omitempty"`
	TipoMovimiento string  `json:"tipo_movimiento"`
	Cantidad       int     `json:"cantidad"`
	StockAnterior  int     `json:"stock_anterior"`
	StockNuevo     int     `json:"stock_nuevo"`
	Referencia     string  `json:"referencia"`
	Descripcion    *string `json:"descripcion,omitempty"`
	UsuarioID      *string `json:"usuario_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type KardexListResponse struct {
	Data  []KardexResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}
