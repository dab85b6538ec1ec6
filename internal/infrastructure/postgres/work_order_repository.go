package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

var _ repository.WorkOrderRepository = (*WorkOrderRepo)(nil)

const workOrderColumns = `id, tracking_id, cliente_nombre, cliente_telefono, cliente_email, marca_equipo, modelo_equipo, numero_serie, descripcion_problema, notas_tecnicas, estado, costo_estimado, costo_final, tecnico_id, tecnico_nombre, user_id, fecha_creacion, fecha_actualizacion, fecha_entrega`

// WorkOrderRepo implementación del puerto WorkOrderRepository sobre PostgreSQL.
type WorkOrderRepo struct {
	q Querier
}

// NewWorkOrderRepository construye el adaptador de persistencia para órdenes de trabajo.
func NewWorkOrderRepository(q Querier) *WorkOrderRepo {
	return &WorkOrderRepo{q: q}
}

// Create persiste una nueva orden de trabajo y asigna su ID.
// El constraint único de tracking_id respalda al generador de códigos.
func (r *WorkOrderRepo) Create(wo *entity.WorkOrder) error {
	query := `
		INSERT INTO work_orders (tracking_id, cliente_nombre, cliente_telefono, cliente_email, marca_equipo, modelo_equipo, numero_serie, descripcion_problema, notas_tecnicas, estado, costo_estimado, costo_final, tecnico_id, tecnico_nombre, user_id, fecha_creacion, fecha_actualizacion, fecha_entrega)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`
	err := r.q.QueryRow(context.Background(), query,
		wo.TrackingID, wo.ClienteNombre, wo.ClienteTelefono, wo.ClienteEmail,
		wo.MarcaEquipo, wo.ModeloEquipo, wo.NumeroSerie, wo.DescripcionProblema,
		wo.NotasTecnicas, wo.Estado, wo.CostoEstimado, wo.CostoFinal,
		wo.TecnicoID, wo.TecnicoNombre, wo.UserID,
		wo.FechaCreacion, wo.FechaActualizacion, wo.FechaEntrega,
	).Scan(&wo.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de trabajo por ID.
func (r *WorkOrderRepo) GetByID(id int64) (*entity.WorkOrder, error) {
	return r.getOne(`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
}

// GetByTrackingID obtiene una orden por su código público de seguimiento.
func (r *WorkOrderRepo) GetByTrackingID(trackingID string) (*entity.WorkOrder, error) {
	return r.getOne(`SELECT `+workOrderColumns+` FROM work_orders WHERE tracking_id = $1`, trackingID)
}

func (r *WorkOrderRepo) getOne(query string, arg any) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&wo.ID, &wo.TrackingID, &wo.ClienteNombre, &wo.ClienteTelefono, &wo.ClienteEmail,
		&wo.MarcaEquipo, &wo.ModeloEquipo, &wo.NumeroSerie, &wo.DescripcionProblema,
		&wo.NotasTecnicas, &wo.Estado, &wo.CostoEstimado, &wo.CostoFinal,
		&wo.TecnicoID, &wo.TecnicoNombre, &wo.UserID,
		&wo.FechaCreacion, &wo.FechaActualizacion, &wo.FechaEntrega,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get work order: %w", err)
	}
	return &wo, nil
}

// ExistsTrackingID verifica si el código ya está en uso.
func (r *WorkOrderRepo) ExistsTrackingID(trackingID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM work_orders WHERE tracking_id = $1)`, trackingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists tracking id: %w", err)
	}
	return exists, nil
}

// List lista órdenes según el filtro; SoloDisponibles prevalece sobre TecnicoID.
func (r *WorkOrderRepo) List(filter repository.WorkOrderFilter) ([]*entity.WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE 1=1`
	var args []any
	if filter.Estado != "" {
		args = append(args, filter.Estado)
		query += fmt.Sprintf(" AND estado = $%d", len(args))
	}
	if filter.SoloDisponibles {
		query += " AND tecnico_id IS NULL"
	} else if filter.TecnicoID != nil {
		args = append(args, *filter.TecnicoID)
		query += fmt.Sprintf(" AND tecnico_id = $%d", len(args))
	}
	query += " ORDER BY fecha_creacion DESC"

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list work orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkOrder
	for rows.Next() {
		var wo entity.WorkOrder
		if err := rows.Scan(&wo.ID, &wo.TrackingID, &wo.ClienteNombre, &wo.ClienteTelefono, &wo.ClienteEmail,
			&wo.MarcaEquipo, &wo.ModeloEquipo, &wo.NumeroSerie, &wo.DescripcionProblema,
			&wo.NotasTecnicas, &wo.Estado, &wo.CostoEstimado, &wo.CostoFinal,
			&wo.TecnicoID, &wo.TecnicoNombre, &wo.UserID,
			&wo.FechaCreacion, &wo.FechaActualizacion, &wo.FechaEntrega); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		list = append(list, &wo)
	}
	return list, rows.Err()
}

// Update actualiza los campos editables de una orden.
func (r *WorkOrderRepo) Update(wo *entity.WorkOrder) error {
	query := `
		UPDATE work_orders SET cliente_nombre = $2, cliente_telefono = $3, cliente_email = $4, marca_equipo = $5, modelo_equipo = $6, numero_serie = $7, descripcion_problema = $8, notas_tecnicas = $9, costo_estimado = $10, costo_final = $11, fecha_actualizacion = $12
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		wo.ID, wo.ClienteNombre, wo.ClienteTelefono, wo.ClienteEmail,
		wo.MarcaEquipo, wo.ModeloEquipo, wo.NumeroSerie, wo.DescripcionProblema,
		wo.NotasTecnicas, wo.CostoEstimado, wo.CostoFinal, wo.FechaActualizacion,
	)
	if err != nil {
		return fmt.Errorf("update work order: %w", err)
	}
	return nil
}

// UpdateAsignacion asigna o libera el técnico; no toca el estado.
func (r *WorkOrderRepo) UpdateAsignacion(id int64, tecnicoID *int64, tecnicoNombre *string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE work_orders SET tecnico_id = $2, tecnico_nombre = $3, fecha_actualizacion = now() WHERE id = $1`,
		id, tecnicoID, tecnicoNombre)
	if err != nil {
		return fmt.Errorf("update work order asignacion: %w", err)
	}
	return nil
}

// UpdateEstado cambia el estado; fecha_entrega solo se escribe si viene no-nil
// (la fecha es pegajosa, nunca se limpia).
func (r *WorkOrderRepo) UpdateEstado(id int64, estado string, fechaEntrega *time.Time) error {
	var err error
	if fechaEntrega != nil {
		_, err = r.q.Exec(context.Background(),
			`UPDATE work_orders SET estado = $2, fecha_entrega = $3, fecha_actualizacion = now() WHERE id = $1`,
			id, estado, fechaEntrega)
	} else {
		_, err = r.q.Exec(context.Background(),
			`UPDATE work_orders SET estado = $2, fecha_actualizacion = now() WHERE id = $1`,
			id, estado)
	}
	if err != nil {
		return fmt.Errorf("update work order estado: %w", err)
	}
	return nil
}

// Count cuenta órdenes, opcionalmente acotadas a un técnico.
func (r *WorkOrderRepo) Count(tecnicoID *int64) (int64, error) {
	var n int64
	var err error
	if tecnicoID != nil {
		err = r.q.QueryRow(context.Background(),
			`SELECT count(*) FROM work_orders WHERE tecnico_id = $1`, *tecnicoID).Scan(&n)
	} else {
		err = r.q.QueryRow(context.Background(), `SELECT count(*) FROM work_orders`).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count work orders: %w", err)
	}
	return n, nil
}

// CountByEstado cuenta órdenes agrupadas por estado.
func (r *WorkOrderRepo) CountByEstado(tecnicoID *int64) (map[string]int64, error) {
	query := `SELECT estado, count(*) FROM work_orders`
	var args []any
	if tecnicoID != nil {
		query += ` WHERE tecnico_id = $1`
		args = append(args, *tecnicoID)
	}
	query += ` GROUP BY estado`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("count work orders by estado: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int64)
	for rows.Next() {
		var estado string
		var n int64
		if err := rows.Scan(&estado, &n); err != nil {
			return nil, fmt.Errorf("scan count by estado: %w", err)
		}
		out[estado] = n
	}
	return out, rows.Err()
}

// CountSinTecnico cuenta las órdenes disponibles (sin técnico asignado).
func (r *WorkOrderRepo) CountSinTecnico() (int64, error) {
	var n int64
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM work_orders WHERE tecnico_id IS NULL`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count work orders sin tecnico: %w", err)
	}
	return n, nil
}
