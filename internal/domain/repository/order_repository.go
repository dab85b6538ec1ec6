package repository

import "github.com/chpcstore/tienda-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para Order y sus items.
// Create, CreateItems y UpdateCodigo se usan dentro de la transacción de
// creación (el código embebe el ID generado, por eso el patch posterior).
type OrderRepository interface {
	Create(order *entity.Order) error // asigna order.ID
	CreateItems(orderID int64, items []entity.OrderItem) error
	UpdateCodigo(orderID int64, codigo string) error

	GetByID(id int64) (*entity.Order, error)
	// GetByIDAndUser busca por el par (id, userID): un pedido ajeno se reporta
	// como inexistente, nunca como prohibido.
	GetByIDAndUser(id, userID int64) (*entity.Order, error)
	ListByUser(userID int64) ([]*entity.Order, error)
	ListAll() ([]*entity.Order, error)
	ListByVendedor(vendedorID int64) ([]*entity.Order, error)

	UpdateStatus(id int64, status string) error
	UpdateAsignacion(id int64, vendedorID *int64, vendedorNombre *string, estadoGestion string) error
	UpdateEstadoGestion(id int64, estadoGestion string) error
}
