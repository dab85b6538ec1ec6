package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// Sender es el transporte de correo. Devuelve true si el envío se aceptó;
// el servicio nunca propaga fallos de correo al flujo de negocio.
type Sender interface {
	Send(to, subject, htmlBody string) bool
}

// OrderConfirmationData confirmación de pedido al cliente.
type OrderConfirmationData struct {
	Codigo         string
	NombreCliente  string
	Total          decimal.Decimal
	Items          []entity.OrderItem
	DireccionEnvio string
}

// OrderStatusData actualización del estado de gestión al cliente.
type OrderStatusData struct {
	Codigo         string
	NombreCliente  string
	EstadoGestion  string
	VendedorNombre string
}

// OrderAssignedData aviso al vendedor asignado.
type OrderAssignedData struct {
	Codigo         string
	NombreCliente  string
	Total          decimal.Decimal
	VendedorNombre string
}

// NewOrderAdminData alerta de nuevo pedido a administradores.
type NewOrderAdminData struct {
	Codigo        string
	NombreCliente string
	EmailCliente  string
	Total         decimal.Decimal
	TotalItems    int
}

// WelcomeData correo de bienvenida tras el registro.
type WelcomeData struct {
	Nombre   string
	Apellido string
}

// MailService arma los correos del dominio y delega el envío al Sender.
type MailService struct {
	sender Sender
	log    *logger.Logger
}

// NewMailService construye el servicio.
func NewMailService(sender Sender, log *logger.Logger) *MailService {
	return &MailService{sender: sender, log: log}
}

// SendOrderConfirmation confirma un pedido recién creado al cliente.
func (s *MailService) SendOrderConfirmation(email string, data OrderConfirmationData) bool {
	subject := fmt.Sprintf("Confirmación de Pedido #%s", data.Codigo)
	return s.send(email, subject, tplOrderConfirmation, map[string]any{
		"Nombre":    data.NombreCliente,
		"Codigo":    data.Codigo,
		"Total":     data.Total.StringFixed(2),
		"Items":     data.Items,
		"Direccion": data.DireccionEnvio,
		"Fecha":     time.Now().Format("02/01/2006"),
	})
}

// SendOrderStatusUpdate avisa al cliente de un cambio en el estado de gestión.
func (s *MailService) SendOrderStatusUpdate(email string, data OrderStatusData) bool {
	subject := fmt.Sprintf("Actualización de Pedido #%s", data.Codigo)
	return s.send(email, subject, tplOrderStatus, map[string]any{
		"Nombre":   data.NombreCliente,
		"Codigo":   data.Codigo,
		"Estado":   entity.EtiquetaEstadoGestion(data.EstadoGestion),
		"Vendedor": data.VendedorNombre,
		"Fecha":    time.Now().Format("02/01/2006 15:04"),
	})
}

// SendOrderAssignedToVendedor avisa al vendedor que tiene un pedido asignado.
func (s *MailService) SendOrderAssignedToVendedor(email string, data OrderAssignedData) bool {
	subject := fmt.Sprintf("Pedido #%s asignado a ti", data.Codigo)
	return s.send(email, subject, tplOrderAssigned, map[string]any{
		"Vendedor": data.VendedorNombre,
		"Codigo":   data.Codigo,
		"Cliente":  data.NombreCliente,
		"Total":    data.Total.StringFixed(2),
	})
}

// SendNewOrderNotificationToAdmin alerta a un administrador de un nuevo pedido.
func (s *MailService) SendNewOrderNotificationToAdmin(email string, data NewOrderAdminData) bool {
	subject := fmt.Sprintf("Nuevo Pedido #%s", data.Codigo)
	return s.send(email, subject, tplNewOrderAdmin, map[string]any{
		"Codigo":       data.Codigo,
		"Cliente":      data.NombreCliente,
		"EmailCliente": data.EmailCliente,
		"Total":        data.Total.StringFixed(2),
		"TotalItems":   data.TotalItems,
	})
}

// SendWelcomeEmail da la bienvenida a un usuario recién registrado.
func (s *MailService) SendWelcomeEmail(email string, data WelcomeData) bool {
	return s.send(email, "Bienvenido a Tienda CHPC", tplWelcome, map[string]any{
		"Nombre":   data.Nombre,
		"Apellido": data.Apellido,
	})
}

func (s *MailService) send(to, subject string, tpl *template.Template, ctx map[string]any) bool {
	var body bytes.Buffer
	if err := tpl.Execute(&body, ctx); err != nil {
		s.log.Error().Err(err).Str("to", to).Str("subject", subject).Msg("render de plantilla de correo")
		return false
	}
	ok := s.sender.Send(to, subject, body.String())
	if ok {
		s.log.Info().Str("to", to).Str("subject", subject).Msg("email enviado")
	} else {
		s.log.Error().Str("to", to).Str("subject", subject).Msg("fallo al enviar email")
	}
	return ok
}
