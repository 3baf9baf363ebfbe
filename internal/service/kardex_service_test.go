package service_test

import (
	"context"
	"testing"

	"ecommerce/internal/model"
	"ecommerce/internal/repository"
	"ecommerce/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildKardexSvc() (service.KardexService, *stubKardexRepo, *stubProductoRepo, *stubAlertaRepo) {
	productoRepo := newStubProductoRepo()
	kardexRepo := &stubKardexRepo{}
	alertaRepo := newStubAlertaRepo()
	alertaSvc := service.NewAlertaService(alertaRepo, productoRepo)
	svc := service.NewKardexService(kardexRepo, productoRepo, alertaSvc, nil)
	return svc, kardexRepo, productoRepo, alertaRepo
}

func TestRegistrarMovimiento_DerivaStockAnterior(t *testing.T) {
	svc, _, productoRepo, _ := buildKardexSvc()
	// Stock already reflects the mutation the entry documents: 7 after a
	// 3-unit sale means 10 before.
	p := seedProducto(productoRepo, "Disco externo", 85.00, 7, 2)

	k, err := svc.RegistrarMovimientoTx(nil, p.ID, model.MovSalidaVenta, 3, "Orden #20250413-0001", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, k.StockAnterior)
	assert.Equal(t, 7, k.StockNuevo)

	// Inbound movement: 7 after returning 2 means 5 before.
	k, err = svc.RegistrarMovimientoTx(nil, p.ID, model.MovDevolucion, 2, "Cancelación Orden #20250413-0001", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, k.StockAnterior)
	assert.Equal(t, 7, k.StockNuevo)
}

func TestRegistrarMovimiento_Validaciones(t *testing.T) {
	svc, _, productoRepo, _ := buildKardexSvc()
	p := seedProducto(productoRepo, "Memoria USB", 15.00, 10, 2)

	_, err := svc.RegistrarMovimientoTx(nil, p.ID, model.MovSalidaVenta, 0, "x", nil, nil)
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)

	_, err = svc.RegistrarMovimientoTx(nil, p.ID, "TRANSFERENCIA", 1, "x", nil, nil)
	assert.ErrorContains(t, err, "tipo de movimiento")

	_, err = svc.RegistrarMovimientoTx(nil, uuid.New(), model.MovSalidaVenta, 1, "x", nil, nil)
	var noEncontrado *service.ProductoNoEncontradoError
	assert.ErrorAs(t, err, &noEncontrado)
}

func TestAjustarStock_Entrada(t *testing.T) {
	svc, kardexRepo, productoRepo, _ := buildKardexSvc()
	p := seedProducto(productoRepo, "Silla gamer", 300.00, 2, 5)

	entrada, err := svc.AjustarStock(context.Background(), p.ID, 8, "reposición de proveedor", "admin-2")
	require.NoError(t, err)
	assert.Equal(t, 10, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, model.MovAjusteEntrada, entrada.TipoMovimiento)
	assert.Equal(t, 8, entrada.Cantidad)
	assert.Equal(t, 2, entrada.StockAnterior)
	assert.Equal(t, 10, entrada.StockNuevo)
	assert.Equal(t, "Ajuste manual", entrada.Referencia)
	require.NotNil(t, entrada.UsuarioID)
	assert.Equal(t, "admin-2", *entrada.UsuarioID)
	assert.Len(t, kardexRepo.porProducto(p.ID), 1)
}

func TestAjustarStock_SalidaConGuardia(t *testing.T) {
	svc, kardexRepo, productoRepo, _ := buildKardexSvc()
	p := seedProducto(productoRepo, "Escritorio", 450.00, 4, 2)

	// Removing more than available is rejected before any mutation
	_, err := svc.AjustarStock(context.Background(), p.ID, -5, "rotura en depósito", "admin-2")
	var sinStock *service.StockInsuficienteError
	require.ErrorAs(t, err, &sinStock)
	assert.Equal(t, 4, productoRepo.productos[p.ID].Stock)
	assert.Empty(t, kardexRepo.entradas)

	salida, err := svc.AjustarStock(context.Background(), p.ID, -3, "rotura en depósito", "admin-2")
	require.NoError(t, err)
	assert.Equal(t, 1, productoRepo.productos[p.ID].Stock)
	assert.Equal(t, model.MovAjusteSalida, salida.TipoMovimiento)
	assert.Equal(t, 3, salida.Cantidad)
	assert.Equal(t, 4, salida.StockAnterior)
	assert.Equal(t, 1, salida.StockNuevo)
}

func TestAjustarStock_DeltaCeroInvalido(t *testing.T) {
	svc, _, productoRepo, _ := buildKardexSvc()
	p := seedProducto(productoRepo, "Lámpara", 25.00, 10, 2)

	_, err := svc.AjustarStock(context.Background(), p.ID, 0, "sin motivo real", "admin-2")
	assert.ErrorIs(t, err, service.ErrCantidadInvalida)
}

func TestAjustarStock_EvaluaAlertas(t *testing.T) {
	svc, _, productoRepo, alertaRepo := buildKardexSvc()
	p := seedProducto(productoRepo, "Estantería", 120.00, 10, 4)

	_, err := svc.AjustarStock(context.Background(), p.ID, -8, "merma por inventario físico", "admin-2")
	require.NoError(t, err)

	// 10 - 8 = 2, and 2*2 ≤ 4 → critical
	pendientes := alertaRepo.pendientes(p.ID)
	require.Len(t, pendientes, 1)
	assert.Equal(t, model.AlertaStockCritico, pendientes[0].Tipo)
}

func TestListar_FiltraPorProducto(t *testing.T) {
	svc, _, productoRepo, _ := buildKardexSvc()
	p1 := seedProducto(productoRepo, "Producto A", 10.00, 20, 2)
	p2 := seedProducto(productoRepo, "Producto B", 20.00, 20, 2)

	_, err := svc.AjustarStock(context.Background(), p1.ID, 5, "carga inicial", "admin-1")
	require.NoError(t, err)
	_, err = svc.AjustarStock(context.Background(), p2.ID, 5, "carga inicial", "admin-1")
	require.NoError(t, err)

	entradas, total, err := svc.Listar(context.Background(), repository.KardexFilter{ProductoID: &p1.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, entradas, 1)
	assert.Equal(t, p1.ID, entradas[0].ProductoID)
}
