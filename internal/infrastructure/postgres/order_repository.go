package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, user_id, codigo, total_items, subtotal, descuento, total, status, estado_gestion, vendedor_id, vendedor_nombre, payment_method, payment_ref, nombre_cliente, email_cliente, telefono, direccion_envio, observaciones, created_at, updated_at`

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de persistencia para pedidos.
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create inserta el pedido sin código y asigna su ID; el código se escribe
// después con UpdateCodigo dentro de la misma transacción.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (user_id, codigo, total_items, subtotal, descuento, total, status, estado_gestion, payment_method, payment_ref, nombre_cliente, email_cliente, telefono, direccion_envio, observaciones, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		order.UserID, order.Codigo, order.TotalItems, order.Subtotal, order.Descuento,
		order.Total, order.Status, order.EstadoGestion, order.PaymentMethod, order.PaymentRef,
		order.NombreCliente, order.EmailCliente, order.Telefono, order.DireccionEnvio,
		order.Observaciones, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// CreateItems inserta las líneas del pedido.
func (r *OrderRepo) CreateItems(orderID int64, items []entity.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, nombre, precio, cantidad, total)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range items {
		it := &items[i]
		if err := r.q.QueryRow(context.Background(), query+` RETURNING id`,
			orderID, it.ProductID, it.Nombre, it.Precio, it.Cantidad, it.Total,
		).Scan(&it.ID); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}

// UpdateCodigo escribe el código legible derivado del ID.
func (r *OrderRepo) UpdateCodigo(orderID int64, codigo string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET codigo = $2 WHERE id = $1`, orderID, codigo)
	if err != nil {
		return fmt.Errorf("update order codigo: %w", err)
	}
	return nil
}

// GetByID obtiene un pedido por ID, con sus items.
func (r *OrderRepo) GetByID(id int64) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByIDAndUser obtiene un pedido por el par (id, userID); un pedido ajeno
// se reporta como inexistente.
func (r *OrderRepo) GetByIDAndUser(id, userID int64) (*entity.Order, error) {
	return r.getOne(`SELECT `+orderColumns+` FROM orders WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *OrderRepo) getOne(query string, args ...any) (*entity.Order, error) {
	var o entity.Order
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&o.ID, &o.UserID, &o.Codigo, &o.TotalItems, &o.Subtotal, &o.Descuento, &o.Total,
		&o.Status, &o.EstadoGestion, &o.VendedorID, &o.VendedorNombre, &o.PaymentMethod,
		&o.PaymentRef, &o.NombreCliente, &o.EmailCliente, &o.Telefono, &o.DireccionEnvio,
		&o.Observaciones, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	items, err := r.itemsFor(o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *OrderRepo) itemsFor(orderID int64) ([]entity.OrderItem, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, order_id, product_id, nombre, precio, cantidad, total FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	var items []entity.OrderItem
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.Nombre, &it.Precio, &it.Cantidad, &it.Total); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListByUser lista los pedidos de un cliente, más recientes primero.
func (r *OrderRepo) ListByUser(userID int64) ([]*entity.Order, error) {
	return r.list(`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

// ListAll lista todos los pedidos, más recientes primero.
func (r *OrderRepo) ListAll() ([]*entity.Order, error) {
	return r.list(`SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
}

// ListByVendedor lista los pedidos asignados a un vendedor.
func (r *OrderRepo) ListByVendedor(vendedorID int64) ([]*entity.Order, error) {
	return r.list(`SELECT `+orderColumns+` FROM orders WHERE vendedor_id = $1 ORDER BY created_at DESC`, vendedorID)
}

func (r *OrderRepo) list(query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Codigo, &o.TotalItems, &o.Subtotal, &o.Descuento, &o.Total,
			&o.Status, &o.EstadoGestion, &o.VendedorID, &o.VendedorNombre, &o.PaymentMethod,
			&o.PaymentRef, &o.NombreCliente, &o.EmailCliente, &o.Telefono, &o.DireccionEnvio,
			&o.Observaciones, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		items, err := r.itemsFor(o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return list, nil
}

// UpdateStatus sobrescribe el estado de pago/cumplimiento.
func (r *OrderRepo) UpdateStatus(id int64, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// UpdateAsignacion escribe vendedor y estado de gestión en una sola sentencia.
func (r *OrderRepo) UpdateAsignacion(id int64, vendedorID *int64, vendedorNombre *string, estadoGestion string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET vendedor_id = $2, vendedor_nombre = $3, estado_gestion = $4, updated_at = now() WHERE id = $1`,
		id, vendedorID, vendedorNombre, estadoGestion)
	if err != nil {
		return fmt.Errorf("update order asignacion: %w", err)
	}
	return nil
}

// UpdateEstadoGestion cambia el estado de gestión interna.
func (r *OrderRepo) UpdateEstadoGestion(id int64, estadoGestion string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE orders SET estado_gestion = $2, updated_at = now() WHERE id = $1`, id, estadoGestion)
	if err != nil {
		return fmt.Errorf("update order estado gestion: %w", err)
	}
	return nil
}
