package service_test

import (
	"context"
	"testing"

	"ecommerce/internal/model"
	"ecommerce/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildCarritoSvc() (service.CarritoService, *stubCarritoRepo, *stubProductoRepo, *stubClienteRepo, *stubOrdenRepo) {
	productoRepo := newStubProductoRepo()
	clienteRepo := newStubClienteRepo()
	ordenRepo := newStubOrdenRepo()
	carritoRepo := newStubCarritoRepo()
	kardexRepo := &stubKardexRepo{}
	alertaRepo := newStubAlertaRepo()

	alertaSvc := service.NewAlertaService(alertaRepo, productoRepo)
	kardexSvc := service.NewKardexService(kardexRepo, productoRepo, alertaSvc, nil)
	ordenSvc := service.NewOrdenService(ordenRepo, productoRepo, clienteRepo, kardexSvc, alertaSvc, nil)
	svc := service.NewCarritoService(carritoRepo, productoRepo, ordenSvc)
	return svc, carritoRepo, productoRepo, clienteRepo, ordenRepo
}

func sesion(id string) *string { return &id }

func TestObtenerCarrito_CreaSiNoExiste(t *testing.T) {
	svc, _, _, _, _ := buildCarritoSvc()
	sid := sesion("sess-1")

	carrito, err := svc.ObtenerCarrito(context.Background(), nil, sid)
	require.NoError(t, err)
	assert.Empty(t, carrito.Items)

	// Same session resolves to the same cart
	otra, err := svc.ObtenerCarrito(context.Background(), nil, sid)
	require.NoError(t, err)
	assert.Equal(t, carrito.ID, otra.ID)
}

func TestAgregarItem_FusionaCantidades(t *testing.T) {
	svc, _, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Mate imperial", 40.00, 50, 5)
	sid := sesion("sess-2")

	carrito, err := svc.AgregarItem(context.Background(), nil, sid, p.ID, 2)
	require.NoError(t, err)
	require.Len(t, carrito.Items, 1)
	assert.Equal(t, 2, carrito.Items[0].Cantidad)

	carrito, err = svc.AgregarItem(context.Background(), nil, sid, p.ID, 3)
	require.NoError(t, err)
	require.Len(t, carrito.Items, 1)
	assert.Equal(t, 5, carrito.Items[0].Cantidad)
}

func TestAgregarItem_ProductoInexistenteOInactivo(t *testing.T) {
	svc, _, productoRepo, _, _ := buildCarritoSvc()
	sid := sesion("sess-3")

	_, err := svc.AgregarItem(context.Background(), nil, sid, uuid.New(), 1)
	var noEncontrado *service.ProductoNoEncontradoError
	assert.ErrorAs(t, err, &noEncontrado)

	p := seedProducto(productoRepo, "Descatalogado", 10.00, 5, 1)
	p.Activo = false
	_, err = svc.AgregarItem(context.Background(), nil, sid, p.ID, 1)
	assert.ErrorAs(t, err, &noEncontrado)
}

func TestActualizarCantidad_CeroElimina(t *testing.T) {
	svc, _, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Termo", 55.00, 50, 5)
	sid := sesion("sess-4")

	carrito, err := svc.AgregarItem(context.Background(), nil, sid, p.ID, 2)
	require.NoError(t, err)
	itemID := carrito.Items[0].ID

	carrito, err = svc.ActualizarCantidad(context.Background(), nil, sid, itemID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, carrito.Items[0].Cantidad)

	carrito, err = svc.ActualizarCantidad(context.Background(), nil, sid, itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, carrito.Items)
}

func TestActualizarCantidad_ItemDeOtroCarrito(t *testing.T) {
	svc, _, productoRepo, _, _ := buildCarritoSvc()
	p := seedProducto(productoRepo, "Bombilla", 8.00, 50, 5)

	carritoA, err := svc.AgregarItem(context.Background(), nil, sesion("sess-a"), p.ID, 1)
	require.NoError(t, err)

	// sess-b cannot touch sess-a's item
	_, err = svc.ObtenerCarrito(context.Background(), nil, sesion("sess-b"))
	require.NoError(t, err)
	_, err = svc.ActualizarCantidad(context.Background(), nil, sesion("sess-b"), carritoA.Items[0].ID, 3)
	assert.ErrorIs(t, err, service.ErrItemNoEncontrado)
}

func TestEliminarItemYVaciar(t *testing.T) {
	svc, _, productoRepo, _, _ := buildCarritoSvc()
	p1 := seedProducto(productoRepo, "Yerba 1kg", 12.00, 50, 5)
	p2 := seedProducto(productoRepo, "Azúcar 1kg", 5.00, 50, 5)
	sid := sesion("sess-5")

	_, err := svc.AgregarItem(context.Background(), nil, sid, p1.ID, 1)
	require.NoError(t, err)
	carrito, err := svc.AgregarItem(context.Background(), nil, sid, p2.ID, 2)
	require.NoError(t, err)
	require.Len(t, carrito.Items, 2)

	carrito, err = svc.EliminarItem(context.Background(), nil, sid, carrito.Items[0].ID)
	require.NoError(t, err)
	assert.Len(t, carrito.Items, 1)

	require.NoError(t, svc.VaciarCarrito(context.Background(), nil, sid))
	carrito, err = svc.ObtenerCarrito(context.Background(), nil, sid)
	require.NoError(t, err)
	assert.Empty(t, carrito.Items)
}

func TestCheckout_CreaOrdenYVaciaCarrito(t *testing.T) {
	svc, _, productoRepo, clienteRepo, ordenRepo := buildCarritoSvc()
	cliente := seedCliente(clienteRepo, "Vera Luna", "vera@example.com")
	p1 := seedProducto(productoRepo, "Campera", 180.00, 10, 2)
	p2 := seedProducto(productoRepo, "Bufanda", 22.00, 10, 2)
	sid := sesion("sess-6")

	_, err := svc.AgregarItem(context.Background(), nil, sid, p1.ID, 1)
	require.NoError(t, err)
	_, err = svc.AgregarItem(context.Background(), nil, sid, p2.ID, 2)
	require.NoError(t, err)

	orden, err := svc.Checkout(context.Background(), nil, sid, cliente.ID, nil, nil)
	require.NoError(t, err)
	require.Len(t, orden.Detalles, 2)
	assert.Equal(t, model.EstadoPendiente, orden.Estado)
	assert.Equal(t, "224", orden.Total.String()) // 180 + 2×22
	assert.Len(t, ordenRepo.ordenes, 1)

	// Stock moved and the cart is now empty
	assert.Equal(t, 9, productoRepo.productos[p1.ID].Stock)
	assert.Equal(t, 8, productoRepo.productos[p2.ID].Stock)
	carrito, err := svc.ObtenerCarrito(context.Background(), nil, sid)
	require.NoError(t, err)
	assert.Empty(t, carrito.Items)
}

func TestCheckout_CarritoVacio(t *testing.T) {
	svc, _, _, clienteRepo, _ := buildCarritoSvc()
	cliente := seedCliente(clienteRepo, "Gil Prado", "gil@example.com")
	sid := sesion("sess-7")

	_, err := svc.ObtenerCarrito(context.Background(), nil, sid)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), nil, sid, cliente.ID, nil, nil)
	assert.ErrorIs(t, err, service.ErrCarritoVacio)
}

func TestCheckout_FallaDeStockConservaCarrito(t *testing.T) {
	svc, carritoRepo, productoRepo, clienteRepo, ordenRepo := buildCarritoSvc()
	cliente := seedCliente(clienteRepo, "Ian Bosco", "ian@example.com")
	p := seedProducto(productoRepo, "Gorra", 15.00, 1, 1)
	sid := sesion("sess-8")

	carrito, err := svc.AgregarItem(context.Background(), nil, sid, p.ID, 3)
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), nil, sid, cliente.ID, nil, nil)
	var sinStock *service.StockInsuficienteError
	require.ErrorAs(t, err, &sinStock)

	// Order not created, cart intact for the user to fix
	assert.Empty(t, ordenRepo.ordenes)
	conservado, err := carritoRepo.FindByID(context.Background(), carrito.ID)
	require.NoError(t, err)
	require.Len(t, conservado.Items, 1)
	assert.Equal(t, 3, conservado.Items[0].Cantidad)
	assert.Equal(t, 1, productoRepo.productos[p.ID].Stock)
}
