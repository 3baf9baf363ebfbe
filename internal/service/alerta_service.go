package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce/internal/model"
	"ecommerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertaService opens and closes threshold-based stock alerts.
//
// VerificarStockTx runs inside the transaction that mutated the stock, so the
// level it reads is the one the mutation produced. When a pending alert
// already exists it is escalated in place if the product dropped into a more
// severe class; it is never duplicated, so "at most one pending alert per
// product" always holds.
type AlertaService interface {
	// VerificarStockTx classifies the product's current stock and creates or
	// escalates the pending alert. Returns the created/escalated alert, or
	// nil when nothing changed.
	VerificarStockTx(tx *gorm.DB, productoID uuid.UUID) (*model.AlertaStock, error)

	ObtenerPendientes(ctx context.Context) ([]model.AlertaStock, error)
	MarcarRevisada(ctx context.Context, alertaID uuid.UUID, usuarioID string) error
}

type alertaService struct {
	repo         repository.AlertaRepository
	productoRepo repository.ProductoRepository
	now          func() time.Time
}

func NewAlertaService(repo repository.AlertaRepository, productoRepo repository.ProductoRepository) AlertaService {
	return &alertaService{repo: repo, productoRepo: productoRepo, now: time.Now}
}

func (s *alertaService) VerificarStockTx(tx *gorm.DB, productoID uuid.UUID) (*model.AlertaStock, error) {
	producto, err := s.productoRepo.FindByIDForUpdateTx(tx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductoNoEncontradoError{ProductoID: productoID}
		}
		return nil, err
	}

	tipo, hayAlerta := model.ClasificarStock(producto.Stock, producto.StockMinimo)
	if !hayAlerta {
		return nil, nil
	}
	mensaje := mensajeAlerta(tipo, producto)

	pendiente, err := s.repo.FindPendientePorProductoTx(tx, productoID)
	switch {
	case err == nil:
		// Escalate in place when the level got worse; keep the original
		// alert otherwise (no downgrade, no duplicate).
		if !tipo.MasSevera(pendiente.Tipo) {
			return nil, nil
		}
		pendiente.Tipo = tipo
		pendiente.Mensaje = mensaje
		if err := s.repo.UpdateTx(tx, pendiente); err != nil {
			return nil, err
		}
		return pendiente, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		alerta := &model.AlertaStock{
			ProductoID: productoID,
			Tipo:       tipo,
			Mensaje:    mensaje,
			Estado:     model.AlertaPendiente,
		}
		if err := s.repo.CreateTx(tx, alerta); err != nil {
			// Partial unique index on pending alerts: a concurrent
			// evaluation won the insert, which is the same outcome.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, nil
			}
			return nil, err
		}
		return alerta, nil

	default:
		return nil, err
	}
}

func mensajeAlerta(tipo model.TipoAlerta, p *model.Producto) string {
	switch tipo {
	case model.AlertaStockAgotado:
		return fmt.Sprintf("Producto %s está agotado (mínimo %d)", p.Nombre, p.StockMinimo)
	case model.AlertaStockCritico:
		return fmt.Sprintf("Producto %s en stock crítico (%d unidades, mínimo %d)", p.Nombre, p.Stock, p.StockMinimo)
	default:
		return fmt.Sprintf("Producto %s alcanzó el stock mínimo (%d unidades, mínimo %d)", p.Nombre, p.Stock, p.StockMinimo)
	}
}

func (s *alertaService) ObtenerPendientes(ctx context.Context) ([]model.AlertaStock, error) {
	return s.repo.ListPendientes(ctx)
}

func (s *alertaService) MarcarRevisada(ctx context.Context, alertaID uuid.UUID, usuarioID string) error {
	alerta, err := s.repo.FindByID(ctx, alertaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertaNoEncontrada
		}
		return err
	}
	if alerta.Estado == model.AlertaRevisada {
		return ErrAlertaYaRevisada
	}

	ahora := s.now()
	alerta.Estado = model.AlertaRevisada
	alerta.FechaRevision = &ahora
	alerta.RevisadoPor = &usuarioID
	return s.repo.Update(ctx, alerta)
}
