package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce/internal/model"
	"ecommerce/internal/repository"
	"ecommerce/internal/worker"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KardexService is the inventory ledger. Every stock mutation in the system
// ends up here: RegistrarMovimientoTx appends the audit entry inside the
// mutating transaction, and AjustarStock is the manual adjustment path that
// combines mutation, ledger append and alert evaluation in one unit.
type KardexService interface {
	// RegistrarMovimientoTx appends a ledger entry inside a live transaction,
	// after the stock mutation it documents. It reads the product's current
	// (already mutated) stock as StockNuevo and derives StockAnterior from
	// the movement direction.
	RegistrarMovimientoTx(tx *gorm.DB, productoID uuid.UUID, tipo model.TipoMovimiento, cantidad int, referencia string, descripcion, usuarioID *string) (*model.Kardex, error)

	// AjustarStock applies a manual stock delta (positive or negative),
	// records the matching AJUSTE_* entry and re-evaluates alerts, all
	// atomically.
	AjustarStock(ctx context.Context, productoID uuid.UUID, delta int, motivo, usuarioID string) (*model.Kardex, error)

	ObtenerPorProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.Kardex, int64, error)
	ObtenerPorFecha(ctx context.Context, desde, hasta time.Time, page, limit int) ([]model.Kardex, int64, error)
	Listar(ctx context.Context, filter repository.KardexFilter) ([]model.Kardex, int64, error)
}

type kardexService struct {
	repo         repository.KardexRepository
	productoRepo repository.ProductoRepository
	alertas      AlertaService
	dispatcher   *worker.Dispatcher
	now          func() time.Time
}

func NewKardexService(
	repo repository.KardexRepository,
	productoRepo repository.ProductoRepository,
	alertas AlertaService,
	dispatcher *worker.Dispatcher,
) KardexService {
	return &kardexService{
		repo:         repo,
		productoRepo: productoRepo,
		alertas:      alertas,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

func (s *kardexService) RegistrarMovimientoTx(
	tx *gorm.DB,
	productoID uuid.UUID,
	tipo model.TipoMovimiento,
	cantidad int,
	referencia string,
	descripcion, usuarioID *string,
) (*model.Kardex, error) {
	if cantidad <= 0 {
		return nil, ErrCantidadInvalida
	}
	if !tipo.Valido() {
		return nil, fmt.Errorf("tipo de movimiento desconocido: %s", tipo)
	}

	producto, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductoNoEncontradoError{ProductoID: productoID}
		}
		return nil, err
	}

	// producto.Stock already reflects the mutation this entry documents.
	stockNuevo := producto.Stock
	stockAnterior := stockNuevo - cantidad
	if !tipo.EsEntrada() {
		stockAnterior = stockNuevo + cantidad
	}

	k := &model.Kardex{
		ProductoID:     productoID,
		TipoMovimiento: tipo,
		Cantidad:       cantidad,
		StockAnterior:  stockAnterior,
		StockNuevo:     stockNuevo,
		Referencia:     referencia,
		Descripcion:    descripcion,
		UsuarioID:      usuarioID,
	}
	if err := s.repo.CreateTx(tx, k); err != nil {
		return nil, err
	}
	return k, nil
}

func (s *kardexService) AjustarStock(ctx context.Context, productoID uuid.UUID, delta int, motivo, usuarioID string) (*model.Kardex, error) {
	if delta == 0 {
		return nil, ErrCantidadInvalida
	}

	var entrada *model.Kardex
	var alerta *model.AlertaStock

	txErr := runTx(ctx, s.productoRepo.DB(), func(tx *gorm.DB) error {
		producto, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ProductoNoEncontradoError{ProductoID: productoID}
			}
			return err
		}

		tipo := model.MovAjusteEntrada
		cantidad := delta
		if delta < 0 {
			tipo = model.MovAjusteSalida
			cantidad = -delta
			if producto.Stock < cantidad {
				return &StockInsuficienteError{
					ProductoID: productoID,
					Nombre:     producto.Nombre,
					Disponible: producto.Stock,
					Solicitado: cantidad,
				}
			}
			if err := s.productoRepo.DescontarStockTx(tx, productoID, cantidad); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrConflictoStock
				}
				return err
			}
		} else {
			if err := s.productoRepo.RestaurarStockTx(tx, productoID, cantidad); err != nil {
				return err
			}
		}

		entrada, err = s.RegistrarMovimientoTx(tx, productoID, tipo, cantidad, "Ajuste manual", &motivo, &usuarioID)
		if err != nil {
			return err
		}

		alerta, err = s.alertas.VerificarStockTx(tx, productoID)
		return err
	})
	if txErr != nil {
		return nil, txErr
	}

	if alerta != nil && s.dispatcher != nil {
		_ = s.dispatcher.EnqueueAlertaEmail(ctx, map[string]interface{}{
			"subject": "Alerta de stock: " + string(alerta.Tipo),
			"body":    alerta.Mensaje,
		})
	}
	return entrada, nil
}

func (s *kardexService) ObtenerPorProducto(ctx context.Context, productoID uuid.UUID, page, limit int) ([]model.Kardex, int64, error) {
	return s.repo.List(ctx, repository.KardexFilter{ProductoID: &productoID, Page: page, Limit: limit})
}

func (s *kardexService) ObtenerPorFecha(ctx context.Context, desde, hasta time.Time, page, limit int) ([]model.Kardex, int64, error) {
	return s.repo.List(ctx, repository.KardexFilter{Desde: &desde, Hasta: &hasta, Page: page, Limit: limit})
}

func (s *kardexService) Listar(ctx context.Context, filter repository.KardexFilter) ([]model.Kardex, int64, error) {
	return s.repo.List(ctx, filter)
}
