package orders

import (
	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
)

// TxRunner ejecuta la creación de pedido + items + patch de código como unidad atómica.
type TxRunner interface {
	Run(fn func(orderRepo repository.OrderRepository) error) error
}

// Notifier puerto hacia las notificaciones in-app (lo implementa notifications.UseCase).
type Notifier interface {
	Create(in dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
}

// Mailer puerto hacia los correos del dominio (lo implementa mail.MailService).
// Todos los envíos son fire-and-forget: el bool nunca corta el flujo de negocio.
type Mailer interface {
	SendOrderConfirmation(email string, data mail.OrderConfirmationData) bool
	SendOrderStatusUpdate(email string, data mail.OrderStatusData) bool
	SendOrderAssignedToVendedor(email string, data mail.OrderAssignedData) bool
	SendNewOrderNotificationToAdmin(email string, data mail.NewOrderAdminData) bool
}
