//go:build integration

package service_test

// Concurrency tests against a real Postgres via testcontainers. The stubbed
// unit tests cannot exercise FOR UPDATE, the guarded decrement or the partial
// unique index on pending alerts; these do.
// Run with: go test -tags integration ./internal/service/... -v

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ecommerce/internal/dto"
	"ecommerce/internal/infra"
	"ecommerce/internal/model"
	"ecommerce/internal/repository"
	"ecommerce/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type entornoIntegracion struct {
	db           *gorm.DB
	ordenes      service.OrdenService
	kardex       service.KardexService
	alertas      service.AlertaService
	productoRepo repository.ProductoRepository
}

func setupIntegracion(t *testing.T) *entornoIntegracion {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("ecommerce_test"),
		tcPostgres.WithUsername("ecommerce"),
		tcPostgres.WithPassword("ecommerce"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	dsn, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// NewDatabase runs AutoMigrate plus the schema patches (partial unique
	// index on pending alerts, stock CHECK).
	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)

	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	kardexRepo := repository.NewKardexRepository(db)
	alertaRepo := repository.NewAlertaRepository(db)

	alertaSvc := service.NewAlertaService(alertaRepo, productoRepo)
	kardexSvc := service.NewKardexService(kardexRepo, productoRepo, alertaSvc, nil)
	ordenSvc := service.NewOrdenService(ordenRepo, productoRepo, clienteRepo, kardexSvc, alertaSvc, nil)

	return &entornoIntegracion{
		db:           db,
		ordenes:      ordenSvc,
		kardex:       kardexSvc,
		alertas:      alertaSvc,
		productoRepo: productoRepo,
	}
}

func crearCliente(t *testing.T, db *gorm.DB) *model.Cliente {
	t.Helper()
	direccion := "Av. Corrientes 1234"
	c := &model.Cliente{
		Nombre:    "Cliente Integración",
		Email:     uuid.NewString()[:8] + "@example.com",
		Direccion: &direccion,
		Activo:    true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func crearProducto(t *testing.T, db *gorm.DB, nombre string, stock, minimo int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		SKU:         "SKU-" + uuid.NewString()[:8],
		Nombre:      nombre,
		Precio:      decimal.NewFromInt(100),
		Stock:       stock,
		StockMinimo: minimo,
		Activo:      true,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

// With stock 5 and four concurrent requests of 2 units each, exactly
// floor(5/2) = 2 orders may succeed. The row lock plus the guarded decrement
// must keep stock out of the negatives no matter the interleaving.
func TestIntegracion_CreacionConcurrenteSinSobreventa(t *testing.T) {
	env := setupIntegracion(t)
	cliente := crearCliente(t, env.db)
	p := crearProducto(t, env.db, "Consola", 5, 0)

	const solicitudes = 4
	var wg sync.WaitGroup
	resultados := make([]error, solicitudes)
	numeros := make([]string, solicitudes)
	for i := 0; i < solicitudes; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			orden, err := env.ordenes.CrearOrden(context.Background(), cliente.ID,
				[]dto.ItemOrdenRequest{{ProductoID: p.ID.String(), Cantidad: 2}}, nil, nil)
			resultados[i] = err
			if err == nil {
				numeros[i] = orden.NumeroOrden
			}
		}(i)
	}
	wg.Wait()

	exitos := 0
	for _, err := range resultados {
		if err == nil {
			exitos++
			continue
		}
		var sinStock *service.StockInsuficienteError
		if !errors.As(err, &sinStock) {
			require.True(t, service.EsConflicto(err), "error inesperado: %v", err)
		}
	}
	assert.Equal(t, 2, exitos)

	actual, err := env.productoRepo.FindByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, actual.Stock)

	// The winners got distinct numbers
	vistos := map[string]bool{}
	for _, n := range numeros {
		if n == "" {
			continue
		}
		assert.False(t, vistos[n], "numero repetido: %s", n)
		vistos[n] = true
	}

	// Ledger reconciliation: initial + entradas - salidas == stock actual
	movimientos, _, err := env.kardex.Listar(context.Background(),
		repository.KardexFilter{ProductoID: &p.ID, Page: 1, Limit: 100})
	require.NoError(t, err)
	saldo := 5
	for _, m := range movimientos {
		if m.TipoMovimiento.EsEntrada() {
			saldo += m.Cantidad
		} else {
			saldo -= m.Cantidad
		}
	}
	assert.Equal(t, actual.Stock, saldo)
}

// Concurrent creations over distinct products contend only on the daily
// max+1. A collision must surface as a retryable conflict (nothing committed)
// and resolve on resubmission, never repeat a number.
func TestIntegracion_NumeracionDiariaBajoConcurrencia(t *testing.T) {
	env := setupIntegracion(t)
	cliente := crearCliente(t, env.db)

	const n = 5
	productos := make([]*model.Producto, n)
	for i := range productos {
		productos[i] = crearProducto(t, env.db, fmt.Sprintf("Artículo %d", i), 50, 0)
	}

	var wg sync.WaitGroup
	numeros := make([]string, n)
	fallas := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for intento := 0; intento < 10; intento++ {
				orden, err := env.ordenes.CrearOrden(context.Background(), cliente.ID,
					[]dto.ItemOrdenRequest{{ProductoID: productos[i].ID.String(), Cantidad: 1}}, nil, nil)
				if err == nil {
					numeros[i] = orden.NumeroOrden
					return
				}
				if service.EsConflicto(err) {
					continue
				}
				fallas[i] = err
				return
			}
			fallas[i] = errors.New("reintentos agotados")
		}(i)
	}
	wg.Wait()

	prefijo := time.Now().Format("20060102")
	vistos := map[string]bool{}
	for i := 0; i < n; i++ {
		require.NoError(t, fallas[i])
		assert.Contains(t, numeros[i], prefijo+"-")
		assert.False(t, vistos[numeros[i]], "numero repetido: %s", numeros[i])
		vistos[numeros[i]] = true
	}
}

// Eight simultaneous evaluations of the same low-stock product must leave
// exactly one pending alert: the partial unique index decides the race.
// Losers that hit the unique violation abort their own transaction, which is
// fine — the property under test is that the pending row never duplicates.
func TestIntegracion_AlertaPendienteUnicaBajoConcurrencia(t *testing.T) {
	env := setupIntegracion(t)
	p := crearProducto(t, env.db, "Cinta métrica", 1, 10)

	const evaluaciones = 8
	var wg sync.WaitGroup
	fallas := make([]error, evaluaciones)
	for i := 0; i < evaluaciones; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fallas[i] = env.db.Transaction(func(tx *gorm.DB) error {
				_, err := env.alertas.VerificarStockTx(tx, p.ID)
				return err
			})
		}(i)
	}
	wg.Wait()

	exitos := 0
	for i := 0; i < evaluaciones; i++ {
		if fallas[i] == nil {
			exitos++
		}
	}
	require.GreaterOrEqual(t, exitos, 1)

	var pendientes int64
	require.NoError(t, env.db.Model(&model.AlertaStock{}).
		Where("producto_id = ? AND estado = ?", p.ID, model.AlertaPendiente).
		Count(&pendientes).Error)
	assert.EqualValues(t, 1, pendientes)
}
