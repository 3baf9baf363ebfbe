package dto

type AlertaResponse struct {
	ID            string  `json:"id"`
	ProductoID    string  `json:"producto_id"`
	Producto      string  `json:"producto,omitempty"`
	Tipo          string  `json:"tipo"`
	Mensaje       string  `json:"mensaje"`
	Estado        string  `json:"estado"`
	FechaRevision *string `json:"fecha_revision,omitempty"`
	RevisadoPor   *string `json:"revisado_por,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

type AlertaListResponse struct {
	Data  []AlertaResponse `json:"data"`
	Total int              `json:"total"`
}
