package service

import (
	"context"
	"errors"

	"ecommerce/internal/dto"
	"ecommerce/internal/model"
	"ecommerce/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CarritoService manages the pre-checkout cart. The cart holds quantities
// only; prices and stock are resolved by the order orchestrator at checkout.
type CarritoService interface {
	// ObtenerCarrito finds the owner's cart, creating an empty one when none
	// exists. At least one of usuarioID/sessionID must be set.
	ObtenerCarrito(ctx context.Context, usuarioID, sessionID *string) (*model.Carrito, error)

	AgregarItem(ctx context.Context, usuarioID, sessionID *string, productoID uuid.UUID, cantidad int) (*model.Carrito, error)
	ActualizarCantidad(ctx context.Context, usuarioID, sessionID *string, itemID uuid.UUID, cantidad int) (*model.Carrito, error)
	EliminarItem(ctx context.Context, usuarioID, sessionID *string, itemID uuid.UUID) (*model.Carrito, error)
	VaciarCarrito(ctx context.Context, usuarioID, sessionID *string) error

	// Checkout turns the cart into an order and empties the cart on success.
	Checkout(ctx context.Context, usuarioID, sessionID *string, clienteID uuid.UUID, direccionEnvio, notas *string) (*model.Orden, error)
}

type carritoService struct {
	repo         repository.CarritoRepository
	productoRepo repository.ProductoRepository
	ordenes      OrdenService
}

func NewCarritoService(repo repository.CarritoRepository, productoRepo repository.ProductoRepository, ordenes OrdenService) CarritoService {
	return &carritoService{repo: repo, productoRepo: productoRepo, ordenes: ordenes}
}

func (s *carritoService) ObtenerCarrito(ctx context.Context, usuarioID, sessionID *string) (*model.Carrito, error) {
	carrito, err := s.repo.FindByOwner(ctx, usuarioID, sessionID)
	if err == nil {
		return carrito, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if usuarioID == nil && sessionID == nil {
		return nil, ErrCarritoNoEncontrado
	}
	nuevo := &model.Carrito{UsuarioID: usuarioID, SessionID: sessionID}
	if err := s.repo.Create(ctx, nuevo); err != nil {
		return nil, err
	}
	return nuevo, nil
}

func (s *carritoService) AgregarItem(ctx context.Context, usuarioID, sessionID *string, productoID uuid.UUID, cantidad int) (*model.Carrito, error) {
	if cantidad < 1 {
		return nil, ErrCantidadInvalida
	}

	producto, err := s.productoRepo.FindByID(ctx, productoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ProductoNoEncontradoError{ProductoID: productoID}
		}
		return nil, err
	}
	if !producto.Activo {
		return nil, &ProductoNoEncontradoError{ProductoID: productoID}
	}

	carrito, err := s.ObtenerCarrito(ctx, usuarioID, sessionID)
	if err != nil {
		return nil, err
	}

	// Adding an existing product merges quantities into the one line.
	existente, err := s.repo.FindItem(ctx, carrito.ID, productoID)
	switch {
	case err == nil:
		existente.Cantidad += cantidad
		if err := s.repo.UpdateItem(ctx, existente); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		item := &model.CarritoItem{CarritoID: carrito.ID, ProductoID: productoID, Cantidad: cantidad}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.repo.FindByID(ctx, carrito.ID)
}

func (s *carritoService) ActualizarCantidad(ctx context.Context, usuarioID, sessionID *string, itemID uuid.UUID, cantidad int) (*model.Carrito, error) {
	if cantidad < 0 {
		return nil, ErrCantidadInvalida
	}

	carrito, item, err := s.itemDelCarrito(ctx, usuarioID, sessionID, itemID)
	if err != nil {
		return nil, err
	}

	// Quantity zero removes the line.
	if cantidad == 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, err
		}
	} else {
		item.Cantidad = cantidad
		if err := s.repo.UpdateItem(ctx, item); err != nil {
			return nil, err
		}
	}

	return s.repo.FindByID(ctx, carrito.ID)
}

func (s *carritoService) EliminarItem(ctx context.Context, usuarioID, sessionID *string, itemID uuid.UUID) (*model.Carrito, error) {
	carrito, item, err := s.itemDelCarrito(ctx, usuarioID, sessionID, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, carrito.ID)
}

func (s *carritoService) VaciarCarrito(ctx context.Context, usuarioID, sessionID *string) error {
	carrito, err := s.repo.FindByOwner(ctx, usuarioID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCarritoNoEncontrado
		}
		return err
	}
	return s.repo.DeleteItems(ctx, carrito.ID)
}

func (s *carritoService) Checkout(ctx context.Context, usuarioID, sessionID *string, clienteID uuid.UUID, direccionEnvio, notas *string) (*model.Orden, error) {
	carrito, err := s.repo.FindByOwner(ctx, usuarioID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCarritoNoEncontrado
		}
		return nil, err
	}
	if len(carrito.Items) == 0 {
		return nil, ErrCarritoVacio
	}

	items := make([]dto.ItemOrdenRequest, 0, len(carrito.Items))
	for _, it := range carrito.Items {
		items = append(items, dto.ItemOrdenRequest{
			ProductoID: it.ProductoID.String(),
			Cantidad:   it.Cantidad,
		})
	}

	orden, err := s.ordenes.CrearOrden(ctx, clienteID, items, direccionEnvio, notas)
	if err != nil {
		return nil, err
	}

	// The order committed; an emptying failure leaves a stale cart, which the
	// next checkout attempt would surface as a stock error, so report it.
	if err := s.repo.DeleteItems(ctx, carrito.ID); err != nil {
		return orden, err
	}
	return orden, nil
}

// itemDelCarrito resolves an item and verifies it belongs to the owner's cart.
func (s *carritoService) itemDelCarrito(ctx context.Context, usuarioID, sessionID *string, itemID uuid.UUID) (*model.Carrito, *model.CarritoItem, error) {
	carrito, err := s.repo.FindByOwner(ctx, usuarioID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrCarritoNoEncontrado
		}
		return nil, nil, err
	}
	item, err := s.repo.FindItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrItemNoEncontrado
		}
		return nil, nil, err
	}
	if item.CarritoID != carrito.ID {
		return nil, nil, ErrItemNoEncontrado
	}
	return carrito, item, nil
}
