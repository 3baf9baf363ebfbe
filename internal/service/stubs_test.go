package service_test

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"ecommerce/internal/model"
	"ecommerce/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. The services run their transaction closures with a
// nil *gorm.DB, so every Tx method here simply ignores the tx argument.

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) FindBySKU(_ context.Context, sku string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.SKU == sku && p.Activo {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubProductoRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductoRepo) DescontarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok || p.Stock < cantidad {
		return gorm.ErrRecordNotFound
	}
	p.Stock -= cantidad
	return nil
}

func (r *stubProductoRepo) RestaurarStockTx(_ *gorm.DB, id uuid.UUID, cantidad int) error {
	p, ok := r.productos[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Stock += cantidad
	return nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

func seedProducto(r *stubProductoRepo, nombre string, precio float64, stock, stockMinimo int) *model.Producto {
	p := &model.Producto{
		ID:          uuid.New(),
		SKU:         "SKU-" + uuid.NewString()[:8],
		Nombre:      nombre,
		Precio:      decimal.NewFromFloat(precio),
		Stock:       stock,
		StockMinimo: stockMinimo,
		Activo:      true,
	}
	r.productos[p.ID] = p
	return p
}

type stubClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
}

func newStubClienteRepo() *stubClienteRepo {
	return &stubClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *stubClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

var _ repository.ClienteRepository = (*stubClienteRepo)(nil)

func seedCliente(r *stubClienteRepo, nombre, email string) *model.Cliente {
	direccion := "Av. Siempre Viva 742"
	c := &model.Cliente{ID: uuid.New(), Nombre: nombre, Email: email, Direccion: &direccion, Activo: true}
	r.clientes[c.ID] = c
	return c
}

type stubOrdenRepo struct {
	ordenes map[uuid.UUID]*model.Orden
	// findErr simulates a read failure after a committed write.
	findErr error
}

func newStubOrdenRepo() *stubOrdenRepo {
	return &stubOrdenRepo{ordenes: make(map[uuid.UUID]*model.Orden)}
}

func (r *stubOrdenRepo) CreateTx(_ *gorm.DB, o *model.Orden) error {
	for _, existente := range r.ordenes {
		if existente.NumeroOrden == o.NumeroOrden {
			return gorm.ErrDuplicatedKey
		}
	}
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Orden, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrdenRepo) FindByIDForUpdateTx(_ *gorm.DB, id uuid.UUID) (*model.Orden, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return o, nil
}

func (r *stubOrdenRepo) UpdateTx(_ *gorm.DB, o *model.Orden) error {
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) ListByCliente(_ context.Context, clienteID uuid.UUID) ([]model.Orden, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		if o.ClienteID == clienteID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *stubOrdenRepo) UltimaSecuenciaDelDiaTx(_ *gorm.DB, prefijo string) (int, error) {
	ultima := 0
	for _, o := range r.ordenes {
		resto, ok := strings.CutPrefix(o.NumeroOrden, prefijo+"-")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(resto); err == nil && n > ultima {
			ultima = n
		}
	}
	return ultima, nil
}

func (r *stubOrdenRepo) DB() *gorm.DB { return nil }

var _ repository.OrdenRepository = (*stubOrdenRepo)(nil)

type stubKardexRepo struct {
	entradas []model.Kardex
}

func (r *stubKardexRepo) CreateTx(_ *gorm.DB, k *model.Kardex) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	r.entradas = append(r.entradas, *k)
	return nil
}

func (r *stubKardexRepo) List(_ context.Context, filter repository.KardexFilter) ([]model.Kardex, int64, error) {
	var out []model.Kardex
	for _, k := range r.entradas {
		if filter.ProductoID != nil && k.ProductoID != *filter.ProductoID {
			continue
		}
		out = append(out, k)
	}
	return out, int64(len(out)), nil
}

// porProducto filters captured entries for assertions.
func (r *stubKardexRepo) porProducto(id uuid.UUID) []model.Kardex {
	var out []model.Kardex
	for _, k := range r.entradas {
		if k.ProductoID == id {
			out = append(out, k)
		}
	}
	return out
}

var _ repository.KardexRepository = (*stubKardexRepo)(nil)

type stubAlertaRepo struct {
	alertas map[uuid.UUID]*model.AlertaStock
}

func newStubAlertaRepo() *stubAlertaRepo {
	return &stubAlertaRepo{alertas: make(map[uuid.UUID]*model.AlertaStock)}
}

func (r *stubAlertaRepo) CreateTx(_ *gorm.DB, a *model.AlertaStock) error {
	// Mirror the partial unique index on pending alerts.
	for _, existente := range r.alertas {
		if existente.ProductoID == a.ProductoID && existente.Estado == model.AlertaPendiente {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.alertas[a.ID] = a
	return nil
}

func (r *stubAlertaRepo) UpdateTx(_ *gorm.DB, a *model.AlertaStock) error {
	r.alertas[a.ID] = a
	return nil
}

func (r *stubAlertaRepo) FindPendientePorProductoTx(_ *gorm.DB, productoID uuid.UUID) (*model.AlertaStock, error) {
	for _, a := range r.alertas {
		if a.ProductoID == productoID && a.Estado == model.AlertaPendiente {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubAlertaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.AlertaStock, error) {
	a, ok := r.alertas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (r *stubAlertaRepo) Update(_ context.Context, a *model.AlertaStock) error {
	r.alertas[a.ID] = a
	return nil
}

func (r *stubAlertaRepo) ListPendientes(_ context.Context) ([]model.AlertaStock, error) {
	var out []model.AlertaStock
	for _, a := range r.alertas {
		if a.Estado == model.AlertaPendiente {
			out = append(out, *a)
		}
	}
	return out, nil
}

// pendientes counts open alerts for a product.
func (r *stubAlertaRepo) pendientes(productoID uuid.UUID) []*model.AlertaStock {
	var out []*model.AlertaStock
	for _, a := range r.alertas {
		if a.ProductoID == productoID && a.Estado == model.AlertaPendiente {
			out = append(out, a)
		}
	}
	return out
}

var _ repository.AlertaRepository = (*stubAlertaRepo)(nil)

type stubCarritoRepo struct {
	carritos map[uuid.UUID]*model.Carrito
	items    map[uuid.UUID]*model.CarritoItem
}

func newStubCarritoRepo() *stubCarritoRepo {
	return &stubCarritoRepo{
		carritos: make(map[uuid.UUID]*model.Carrito),
		items:    make(map[uuid.UUID]*model.CarritoItem),
	}
}

func (r *stubCarritoRepo) conItems(c *model.Carrito) *model.Carrito {
	copia := *c
	copia.Items = nil
	for _, it := range r.items {
		if it.CarritoID == c.ID {
			copia.Items = append(copia.Items, *it)
		}
	}
	return &copia
}

func (r *stubCarritoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Carrito, error) {
	c, ok := r.carritos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r.conItems(c), nil
}

func (r *stubCarritoRepo) FindByOwner(_ context.Context, usuarioID, sessionID *string) (*model.Carrito, error) {
	for _, c := range r.carritos {
		if usuarioID != nil && c.UsuarioID != nil && *c.UsuarioID == *usuarioID {
			return r.conItems(c), nil
		}
		if usuarioID == nil && sessionID != nil && c.SessionID != nil && *c.SessionID == *sessionID {
			return r.conItems(c), nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCarritoRepo) Create(_ context.Context, c *model.Carrito) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.carritos[c.ID] = c
	return nil
}

func (r *stubCarritoRepo) FindItem(_ context.Context, carritoID, productoID uuid.UUID) (*model.CarritoItem, error) {
	for _, it := range r.items {
		if it.CarritoID == carritoID && it.ProductoID == productoID {
			return it, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubCarritoRepo) FindItemByID(_ context.Context, itemID uuid.UUID) (*model.CarritoItem, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return it, nil
}

func (r *stubCarritoRepo) CreateItem(_ context.Context, item *model.CarritoItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubCarritoRepo) UpdateItem(_ context.Context, item *model.CarritoItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubCarritoRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	delete(r.items, itemID)
	return nil
}

func (r *stubCarritoRepo) DeleteItems(_ context.Context, carritoID uuid.UUID) error {
	for id, it := range r.items {
		if it.CarritoID == carritoID {
			delete(r.items, id)
		}
	}
	return nil
}

var _ repository.CarritoRepository = (*stubCarritoRepo)(nil)
