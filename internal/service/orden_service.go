package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"ecommerce/internal/dto"
	"ecommerce/internal/model"
	"ecommerce/internal/repository"
	"ecommerce/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrdenService is the order/inventory consistency engine: creation validates
// and decrements stock, writes the kardex and evaluates alerts as one atomic
// unit; transitions go through a closed state machine; cancellation restores
// stock with compensating ledger entries.
type OrdenService interface {
	CrearOrden(ctx context.Context, clienteID uuid.UUID, items []dto.ItemOrdenRequest, direccionEnvio, notasCliente *string) (*model.Orden, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Orden, error)
	ObtenerPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Orden, error)
	CambiarEstado(ctx context.Context, ordenID uuid.UUID, nuevo model.EstadoOrden, usuarioID string) error
	CancelarOrden(ctx context.Context, ordenID uuid.UUID, usuarioID string) error
}

// transiciones is the full legal-transition table. Absent pairs are rejected;
// Entregado and Cancelado have no outgoing edges.
var transiciones = map[model.EstadoOrden]map[model.EstadoOrden]bool{
	model.EstadoPendiente:  {model.EstadoConfirmado: true, model.EstadoCancelado: true},
	model.EstadoConfirmado: {model.EstadoEnviado: true, model.EstadoCancelado: true},
	model.EstadoEnviado:    {model.EstadoEntregado: true, model.EstadoCancelado: true},
}

type ordenService struct {
	repo         repository.OrdenRepository
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	kardex       KardexService
	alertas      AlertaService
	dispatcher   *worker.Dispatcher
	now          func() time.Time
}

func NewOrdenService(
	repo repository.OrdenRepository,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	kardex KardexService,
	alertas AlertaService,
	dispatcher *worker.Dispatcher,
) OrdenService {
	return &ordenService{
		repo:         repo,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		kardex:       kardex,
		alertas:      alertas,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

type lineaPedido struct {
	productoID uuid.UUID
	cantidad   int
}

// ── CrearOrden ────────────────────────────────────────────────────────────────
// One ACID transaction:
//  1. Lock every product FOR UPDATE in ascending ID order (deadlock-free).
//  2. Pre-flight: existence, active flag, stock >= requested. Any failure
//     aborts with nothing persisted.
//  3. Generate the day-scoped order number (max of day + 1) inside the same
//     transaction; the unique index on numero_orden backstops the race.
//  4. Snapshot prices, compute totals, insert order + lines.
//  5. Per line: guarded stock decrement, kardex SALIDA_VENTA entry, alert
//     evaluation.
//
// Alert notification emails go out only after the commit.
func (s *ordenService) CrearOrden(
	ctx context.Context,
	clienteID uuid.UUID,
	items []dto.ItemOrdenRequest,
	direccionEnvio, notasCliente *string,
) (*model.Orden, error) {
	if len(items) == 0 {
		return nil, ErrOrdenSinItems
	}
	lineas := make([]lineaPedido, 0, len(items))
	for _, item := range items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		if item.Cantidad < 1 {
			return nil, ErrCantidadInvalida
		}
		lineas = append(lineas, lineaPedido{productoID: pid, cantidad: item.Cantidad})
	}

	cliente, err := s.clienteRepo.FindByID(ctx, clienteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClienteNoEncontrado
		}
		return nil, err
	}
	if direccionEnvio == nil {
		direccionEnvio = cliente.Direccion
	}

	var orden *model.Orden
	var alertas []*model.AlertaStock

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Lock in deterministic order; the same product may appear on
		// several lines, so aggregate requested quantities for the check.
		aLockear := make([]uuid.UUID, 0, len(lineas))
		solicitado := make(map[uuid.UUID]int, len(lineas))
		for _, l := range lineas {
			if solicitado[l.productoID] == 0 {
				aLockear = append(aLockear, l.productoID)
			}
			solicitado[l.productoID] += l.cantidad
		}
		sort.Slice(aLockear, func(i, j int) bool {
			return aLockear[i].String() < aLockear[j].String()
		})

		productos := make(map[uuid.UUID]*model.Producto, len(aLockear))
		for _, pid := range aLockear {
			p, err := s.productoRepo.FindByIDForUpdateTx(tx, pid)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductoNoEncontradoError{ProductoID: pid}
				}
				return err
			}
			if !p.Activo {
				return &ProductoNoEncontradoError{ProductoID: pid}
			}
			productos[pid] = p
		}
		for _, pid := range aLockear {
			if p := productos[pid]; p.Stock < solicitado[pid] {
				return &StockInsuficienteError{
					ProductoID: pid,
					Nombre:     p.Nombre,
					Disponible: p.Stock,
					Solicitado: solicitado[pid],
				}
			}
		}

		numero, err := s.generarNumeroOrdenTx(tx)
		if err != nil {
			return err
		}

		o := &model.Orden{
			NumeroOrden:    numero,
			ClienteID:      clienteID,
			Estado:         model.EstadoPendiente,
			Descuento:      decimal.Zero,
			Impuesto:       decimal.Zero,
			CostoEnvio:     decimal.Zero,
			DireccionEnvio: direccionEnvio,
			NotasCliente:   notasCliente,
		}
		subtotal := decimal.Zero
		for _, l := range lineas {
			p := productos[l.productoID]
			lineaSubtotal := p.Precio.Mul(decimal.NewFromInt(int64(l.cantidad)))
			o.Detalles = append(o.Detalles, model.OrdenDetalle{
				ProductoID:     l.productoID,
				Cantidad:       l.cantidad,
				PrecioUnitario: p.Precio,
				Descuento:      decimal.Zero,
				Subtotal:       lineaSubtotal,
			})
			subtotal = subtotal.Add(lineaSubtotal)
		}
		o.Subtotal = subtotal
		o.Total = subtotal.Sub(o.Descuento).Add(o.Impuesto).Add(o.CostoEnvio)

		if err := s.repo.CreateTx(tx, o); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrConflictoOrden
			}
			return err
		}

		for _, l := range lineas {
			if err := s.productoRepo.DescontarStockTx(tx, l.productoID, l.cantidad); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrConflictoStock
				}
				return err
			}
			descripcion := fmt.Sprintf("Venta de %d unidades", l.cantidad)
			if _, err := s.kardex.RegistrarMovimientoTx(
				tx, l.productoID, model.MovSalidaVenta, l.cantidad,
				"Orden #"+numero, &descripcion, nil,
			); err != nil {
				return err
			}
			alerta, err := s.alertas.VerificarStockTx(tx, l.productoID)
			if err != nil {
				return err
			}
			if alerta != nil {
				alertas = append(alertas, alerta)
			}
		}

		orden = o
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if s.dispatcher != nil {
		for _, a := range alertas {
			_ = s.dispatcher.EnqueueAlertaEmail(ctx, map[string]interface{}{
				"subject": "Alerta de stock: " + string(a.Tipo),
				"body":    a.Mensaje,
			})
		}
	}

	// Re-read to return the order with its relations loaded. The transaction
	// already committed: if the re-read fails, return what we have in memory
	// instead of an error that would invite a duplicate submission.
	completa, err := s.repo.FindByID(ctx, orden.ID)
	if err != nil {
		return orden, nil
	}
	return completa, nil
}

// generarNumeroOrdenTx computes "{yyyyMMdd}-{NNNN}": the sequence resets daily
// and advances over the highest one already issued today. %04d pads short
// sequences but does not truncate: after 9999 the suffix simply gets wider.
func (s *ordenService) generarNumeroOrdenTx(tx *gorm.DB) (string, error) {
	prefijo := s.now().Format("20060102")
	ultima, err := s.repo.UltimaSecuenciaDelDiaTx(tx, prefijo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", prefijo, ultima+1), nil
}

func (s *ordenService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrdenNoEncontrada
		}
		return nil, err
	}
	return orden, nil
}

func (s *ordenService) ObtenerPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Orden, error) {
	return s.repo.ListByCliente(ctx, clienteID)
}

// ── CambiarEstado ─────────────────────────────────────────────────────────────

func (s *ordenService) CambiarEstado(ctx context.Context, ordenID uuid.UUID, nuevo model.EstadoOrden, usuarioID string) error {
	if !nuevo.Valido() {
		return &TransicionInvalidaError{Hacia: nuevo}
	}
	// Cancellation carries stock compensation; it has its own path.
	if nuevo == model.EstadoCancelado {
		return s.CancelarOrden(ctx, ordenID, usuarioID)
	}

	confirmada := false
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orden, err := s.repo.FindByIDForUpdateTx(tx, ordenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrdenNoEncontrada
			}
			return err
		}
		if !transiciones[orden.Estado][nuevo] {
			return &TransicionInvalidaError{Desde: orden.Estado, Hacia: nuevo}
		}

		ahora := s.now()
		switch nuevo {
		case model.EstadoConfirmado:
			orden.FechaPago = &ahora
			confirmada = true
		case model.EstadoEnviado:
			orden.FechaEnvio = &ahora
		case model.EstadoEntregado:
			orden.FechaEntrega = &ahora
		}
		orden.Estado = nuevo
		return s.repo.UpdateTx(tx, orden)
	})
	if txErr != nil {
		return txErr
	}

	// Receipt generation is best-effort and asynchronous; the transition has
	// already committed.
	if confirmada && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueRecibo(ctx, map[string]interface{}{
			"orden_id": ordenID.String(),
		})
	}
	return nil
}

// ── CancelarOrden ─────────────────────────────────────────────────────────────
// Restores stock for every line, appends compensating DEVOLUCION ledger
// entries and an internal note, then commits the status change — one atomic
// unit. The state machine only admits cancellation from non-terminal states,
// so restoration runs at most once per order.
func (s *ordenService) CancelarOrden(ctx context.Context, ordenID uuid.UUID, usuarioID string) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		orden, err := s.repo.FindByIDForUpdateTx(tx, ordenID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrdenNoEncontrada
			}
			return err
		}
		if !transiciones[orden.Estado][model.EstadoCancelado] {
			return &TransicionInvalidaError{Desde: orden.Estado, Hacia: model.EstadoCancelado}
		}

		detalles := make([]model.OrdenDetalle, len(orden.Detalles))
		copy(detalles, orden.Detalles)
		sort.Slice(detalles, func(i, j int) bool {
			return detalles[i].ProductoID.String() < detalles[j].ProductoID.String()
		})

		for _, d := range detalles {
			if _, err := s.productoRepo.FindByIDForUpdateTx(tx, d.ProductoID); err != nil {
				return err
			}
			if err := s.productoRepo.RestaurarStockTx(tx, d.ProductoID, d.Cantidad); err != nil {
				return err
			}
			descripcion := "Devolución por cancelación de orden"
			if _, err := s.kardex.RegistrarMovimientoTx(
				tx, d.ProductoID, model.MovDevolucion, d.Cantidad,
				"Cancelación Orden #"+orden.NumeroOrden, &descripcion, &usuarioID,
			); err != nil {
				return err
			}
		}

		ahora := s.now()
		nota := fmt.Sprintf("[%s] Orden cancelada por %s", ahora.Format("2006-01-02 15:04:05"), usuarioID)
		if orden.NotasInternas != nil && *orden.NotasInternas != "" {
			nota = *orden.NotasInternas + "\n" + nota
		}
		orden.NotasInternas = &nota
		orden.Estado = model.EstadoCancelado
		return s.repo.UpdateTx(tx, orden)
	})
}
