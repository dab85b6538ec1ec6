package orders

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// UseCase ciclo de vida de pedidos: creación atómica, consultas por dueño,
// asignación a vendedores y estados de gestión. Los efectos secundarios
// (notificación in-app + correos) se despachan después del commit y nunca
// hacen fallar la operación que los disparó.
type UseCase struct {
	tx          TxRunner
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	mailer      Mailer
	log         *logger.Logger

	// dispatch desacopla los efectos secundarios de la respuesta;
	// en producción lanza una goroutine, en tests se reemplaza por ejecución síncrona.
	dispatch func(fn func())
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	tx TxRunner,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	mailer Mailer,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		tx:          tx,
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		mailer:      mailer,
		log:         log,
		dispatch:    func(fn func()) { go fn() },
	}
}

// Create crea un pedido: resuelve cada producto y copia nombre/precio al item
// (snapshot: cambios futuros del producto no alteran pedidos históricos),
// calcula subtotal y total = subtotal − descuento, y persiste pedido + items +
// patch del código en una sola transacción.
func (uc *UseCase) Create(userID int64, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden debe contener al menos un producto", domain.ErrInvalidInput)
	}
	if in.Descuento.IsNegative() {
		return nil, fmt.Errorf("%w: el descuento no puede ser negativo", domain.ErrInvalidInput)
	}

	ids := make([]int64, 0, len(in.Items))
	for _, it := range in.Items {
		if it.Cantidad <= 0 {
			return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
		}
		ids = append(ids, it.ProductID)
	}

	products, err := uc.productRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, fmt.Errorf("%w: uno o más productos no existen", domain.ErrInvalidInput)
		}
	}

	subtotal := decimal.Zero
	totalItems := 0
	items := make([]entity.OrderItem, 0, len(in.Items))
	for _, it := range in.Items {
		p := byID[it.ProductID]
		lineTotal := p.Precio.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		subtotal = subtotal.Add(lineTotal)
		totalItems += it.Cantidad
		items = append(items, entity.OrderItem{
			ProductID: p.ID,
			Nombre:    p.NombreProducto,
			Precio:    p.Precio,
			Cantidad:  it.Cantidad,
			Total:     lineTotal,
		})
	}

	now := time.Now()
	order := &entity.Order{
		UserID:         userID,
		TotalItems:     totalItems,
		Subtotal:       subtotal,
		Descuento:      in.Descuento,
		Total:          subtotal.Sub(in.Descuento),
		Status:         entity.OrderStatusPending,
		EstadoGestion:  entity.EstadoGestionPendiente,
		PaymentMethod:  in.PaymentMethod,
		PaymentRef:     in.PaymentRef,
		NombreCliente:  in.NombreCliente,
		EmailCliente:   in.EmailCliente,
		Telefono:       in.Telefono,
		DireccionEnvio: in.DireccionEnvio,
		Observaciones:  in.Observaciones,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// El código embebe el ID generado: insert, luego patch, dentro de la misma tx.
	err = uc.tx.Run(func(orderRepo repository.OrderRepository) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
		}
		if err := orderRepo.CreateItems(order.ID, items); err != nil {
			return err
		}
		order.Codigo = entity.CodigoPedido(order.ID)
		return orderRepo.UpdateCodigo(order.ID, order.Codigo)
	})
	if err != nil {
		return nil, err
	}
	order.Items = items

	uc.dispatch(func() { uc.notifyNewOrder(order) })

	return toOrderResponse(order), nil
}

// notifyNewOrder efectos secundarios de la creación: notificación in-app al
// staff, confirmación al cliente y alerta concurrente a cada administrador.
func (uc *UseCase) notifyNewOrder(order *entity.Order) {
	_, err := uc.notifier.Create(dto.CreateNotificationRequest{
		Tipo:   entity.NotifNuevoPedido,
		Titulo: "Nuevo Pedido Recibido",
		Mensaje: fmt.Sprintf("Se ha recibido un nuevo pedido #%s por un total de $%s de %s",
			order.Codigo, order.Total.StringFixed(2), order.NombreCliente),
		OrderID:       &order.ID,
		OrderCodigo:   &order.Codigo,
		Destinatarios: []string{entity.RolAdministrador, entity.RolVendedor},
	})
	if err != nil {
		uc.log.Error().Err(err).Str("codigo", order.Codigo).Msg("notificación de nuevo pedido")
	}

	uc.mailer.SendOrderConfirmation(order.EmailCliente, mail.OrderConfirmationData{
		Codigo:         order.Codigo,
		NombreCliente:  order.NombreCliente,
		Total:          order.Total,
		Items:          order.Items,
		DireccionEnvio: order.DireccionEnvio,
	})

	admins, err := uc.userRepo.ListByRol(entity.RolAdministrador)
	if err != nil {
		uc.log.Error().Err(err).Msg("listar administradores para alerta de pedido")
		return
	}
	var wg sync.WaitGroup
	for _, admin := range admins {
		wg.Add(1)
		go func(email string) {
			defer wg.Done()
			uc.mailer.SendNewOrderNotificationToAdmin(email, mail.NewOrderAdminData{
				Codigo:        order.Codigo,
				NombreCliente: order.NombreCliente,
				EmailCliente:  order.EmailCliente,
				Total:         order.Total,
				TotalItems:    order.TotalItems,
			})
		}(admin.Email)
	}
	wg.Wait()
}

// ListForCustomer devuelve los pedidos del cliente, más recientes primero.
func (uc *UseCase) ListForCustomer(userID int64) ([]dto.OrderResponse, error) {
	list, err := uc.orderRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// GetForCustomer busca por el par (id, userID): un pedido de otro cliente se
// reporta como no encontrado, nunca como prohibido.
func (uc *UseCase) GetForCustomer(id, userID int64) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toOrderResponse(order), nil
}

// ListAll devuelve todos los pedidos (panel de vendedores), más recientes primero.
func (uc *UseCase) ListAll() ([]dto.OrderResponse, error) {
	list, err := uc.orderRepo.ListAll()
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// ListByVendedor devuelve los pedidos asignados a un vendedor.
func (uc *UseCase) ListByVendedor(vendedorID int64) ([]dto.OrderResponse, error) {
	list, err := uc.orderRepo.ListByVendedor(vendedorID)
	if err != nil {
		return nil, err
	}
	return toOrderResponses(list), nil
}

// UpdateStatus sobrescribe el estado de pago/cumplimiento (solo admin, sin
// grafo de transiciones: cualquier estado puede seguir a cualquier otro).
func (uc *UseCase) UpdateStatus(id int64, status string) (*dto.OrderResponse, error) {
	if !entity.OrderStatusValido(status) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return toOrderResponse(order), nil
}

// Assign asigna el pedido a un vendedor y fuerza el estado de gestión a
// EN_TRAMITE sin importar el valor previo.
func (uc *UseCase) Assign(orderID, vendedorID int64, vendedorNombre string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	vendedor, err := uc.userRepo.GetByID(vendedorID)
	if err != nil {
		return nil, err
	}

	if err := uc.orderRepo.UpdateAsignacion(orderID, &vendedorID, &vendedorNombre, entity.EstadoGestionEnTramite); err != nil {
		return nil, err
	}
	order.VendedorID = &vendedorID
	order.VendedorNombre = &vendedorNombre
	order.EstadoGestion = entity.EstadoGestionEnTramite

	var vendedorEmail string
	if vendedor != nil {
		vendedorEmail = vendedor.Email
	}
	uc.dispatch(func() { uc.notifyAssigned(order, vendedorNombre, vendedorEmail) })

	return toOrderResponse(order), nil
}

func (uc *UseCase) notifyAssigned(order *entity.Order, vendedorNombre, vendedorEmail string) {
	_, err := uc.notifier.Create(dto.CreateNotificationRequest{
		Tipo:          entity.NotifPedidoActualizado,
		Titulo:        "Pedido Asignado",
		Mensaje:       fmt.Sprintf("El pedido #%s ha sido asignado a %s", order.Codigo, vendedorNombre),
		OrderID:       &order.ID,
		OrderCodigo:   &order.Codigo,
		Destinatarios: []string{entity.RolAdministrador, entity.RolVendedor},
	})
	if err != nil {
		uc.log.Error().Err(err).Str("codigo", order.Codigo).Msg("notificación de asignación")
	}

	uc.mailer.SendOrderStatusUpdate(order.EmailCliente, mail.OrderStatusData{
		Codigo:         order.Codigo,
		NombreCliente:  order.NombreCliente,
		EstadoGestion:  entity.EstadoGestionEnTramite,
		VendedorNombre: vendedorNombre,
	})

	if vendedorEmail != "" {
		uc.mailer.SendOrderAssignedToVendedor(vendedorEmail, mail.OrderAssignedData{
			Codigo:         order.Codigo,
			NombreCliente:  order.NombreCliente,
			Total:          order.Total,
			VendedorNombre: vendedorNombre,
		})
	}
}

// Unassign libera el pedido: permitido para admin o para el vendedor asignado.
// Limpia la asignación y regresa el estado de gestión a PENDIENTE.
func (uc *UseCase) Unassign(orderID, actorID int64, actorRol string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !puedeGestionar(actorID, actorRol, order) {
		return nil, domain.ErrForbidden
	}

	if err := uc.orderRepo.UpdateAsignacion(orderID, nil, nil, entity.EstadoGestionPendiente); err != nil {
		return nil, err
	}
	order.VendedorID = nil
	order.VendedorNombre = nil
	order.EstadoGestion = entity.EstadoGestionPendiente

	uc.dispatch(func() {
		_, err := uc.notifier.Create(dto.CreateNotificationRequest{
			Tipo:          entity.NotifPedidoActualizado,
			Titulo:        "Pedido Liberado",
			Mensaje:       fmt.Sprintf("El pedido #%s ha sido liberado y está disponible para asignación", order.Codigo),
			OrderID:       &order.ID,
			OrderCodigo:   &order.Codigo,
			Destinatarios: []string{entity.RolAdministrador, entity.RolVendedor},
		})
		if err != nil {
			uc.log.Error().Err(err).Str("codigo", order.Codigo).Msg("notificación de liberación")
		}
		uc.mailer.SendOrderStatusUpdate(order.EmailCliente, mail.OrderStatusData{
			Codigo:        order.Codigo,
			NombreCliente: order.NombreCliente,
			EstadoGestion: entity.EstadoGestionPendiente,
		})
	})

	return toOrderResponse(order), nil
}

// UpdateEstadoGestion cambia el estado de gestión: permitido para admin o
// para el vendedor asignado.
func (uc *UseCase) UpdateEstadoGestion(orderID, actorID int64, actorRol, estado string) (*dto.OrderResponse, error) {
	if !entity.EstadoGestionValido(estado) {
		return nil, domain.ErrInvalidInput
	}
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if !puedeGestionar(actorID, actorRol, order) {
		return nil, domain.ErrForbidden
	}

	if err := uc.orderRepo.UpdateEstadoGestion(orderID, estado); err != nil {
		return nil, err
	}
	order.EstadoGestion = estado

	vendedorNombre := ""
	if order.VendedorNombre != nil {
		vendedorNombre = *order.VendedorNombre
	}
	uc.dispatch(func() {
		_, err := uc.notifier.Create(dto.CreateNotificationRequest{
			Tipo:          entity.NotifPedidoActualizado,
			Titulo:        "Estado Actualizado",
			Mensaje:       fmt.Sprintf("El pedido #%s cambió a: %s", order.Codigo, entity.EtiquetaEstadoGestion(estado)),
			OrderID:       &order.ID,
			OrderCodigo:   &order.Codigo,
			Destinatarios: []string{entity.RolAdministrador, entity.RolVendedor},
		})
		if err != nil {
			uc.log.Error().Err(err).Str("codigo", order.Codigo).Msg("notificación de estado de gestión")
		}
		uc.mailer.SendOrderStatusUpdate(order.EmailCliente, mail.OrderStatusData{
			Codigo:         order.Codigo,
			NombreCliente:  order.NombreCliente,
			EstadoGestion:  estado,
			VendedorNombre: vendedorNombre,
		})
	})

	return toOrderResponse(order), nil
}

// puedeGestionar: admin siempre; si no, solo el vendedor actualmente asignado.
func puedeGestionar(actorID int64, actorRol string, order *entity.Order) bool {
	if actorRol == entity.RolAdministrador {
		return true
	}
	return order.VendedorID != nil && *order.VendedorID == actorID
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.OrderItemResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Nombre:    it.Nombre,
			Precio:    it.Precio,
			Cantidad:  it.Cantidad,
			Total:     it.Total,
		})
	}
	return &dto.OrderResponse{
		ID:             o.ID,
		UserID:         o.UserID,
		Codigo:         o.Codigo,
		TotalItems:     o.TotalItems,
		Subtotal:       o.Subtotal,
		Descuento:      o.Descuento,
		Total:          o.Total,
		Status:         o.Status,
		EstadoGestion:  o.EstadoGestion,
		VendedorID:     o.VendedorID,
		VendedorNombre: o.VendedorNombre,
		PaymentMethod:  o.PaymentMethod,
		PaymentRef:     o.PaymentRef,
		NombreCliente:  o.NombreCliente,
		EmailCliente:   o.EmailCliente,
		Telefono:       o.Telefono,
		DireccionEnvio: o.DireccionEnvio,
		Observaciones:  o.Observaciones,
		Items:          items,
		CreatedAt:      o.CreatedAt,
	}
}

func toOrderResponses(list []*entity.Order) []dto.OrderResponse {
	out := make([]dto.OrderResponse, 0, len(list))
	for _, o := range list {
		out = append(out, *toOrderResponse(o))
	}
	return out
}
