package orders

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

// --- fakes en memoria ---

type fakeOrderRepo struct {
	orders map[int64]*entity.Order
	items  map[int64][]entity.OrderItem
	nextID int64

	failCreateItems bool
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*entity.Order),
		items:  make(map[int64][]entity.OrderItem),
		nextID: 1,
	}
}

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	order.ID = r.nextID
	r.nextID++
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateItems(orderID int64, items []entity.OrderItem) error {
	if r.failCreateItems {
		return assert.AnError
	}
	r.items[orderID] = items
	return nil
}

func (r *fakeOrderRepo) UpdateCodigo(orderID int64, codigo string) error {
	r.orders[orderID].Codigo = codigo
	return nil
}

func (r *fakeOrderRepo) GetByID(id int64) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	cp.Items = r.items[id]
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDAndUser(id, userID int64) (*entity.Order, error) {
	o, ok := r.orders[id]
	if !ok || o.UserID != userID {
		return nil, nil
	}
	cp := *o
	cp.Items = r.items[id]
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(userID int64) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll() ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) ListByVendedor(vendedorID int64) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.orders {
		if o.VendedorID != nil && *o.VendedorID == vendedorID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(id int64, status string) error {
	r.orders[id].Status = status
	return nil
}

func (r *fakeOrderRepo) UpdateAsignacion(id int64, vendedorID *int64, vendedorNombre *string, estadoGestion string) error {
	o := r.orders[id]
	o.VendedorID = vendedorID
	o.VendedorNombre = vendedorNombre
	o.EstadoGestion = estadoGestion
	return nil
}

func (r *fakeOrderRepo) UpdateEstadoGestion(id int64, estadoGestion string) error {
	r.orders[id].EstadoGestion = estadoGestion
	return nil
}

// fakeTxRunner ejecuta la función directamente contra el repo; si falla,
// descarta lo insertado para simular el rollback.
type fakeTxRunner struct {
	repo *fakeOrderRepo
}

func (t *fakeTxRunner) Run(fn func(orderRepo repository.OrderRepository) error) error {
	before := t.repo.nextID
	if err := fn(t.repo); err != nil {
		for id := before; id < t.repo.nextID; id++ {
			delete(t.repo.orders, id)
			delete(t.repo.items, id)
		}
		return err
	}
	return nil
}

type fakeProductRepo struct {
	products map[int64]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error            { return nil }
func (r *fakeProductRepo) GetByID(id int64) (*entity.Product, error) { return r.products[id], nil }
func (r *fakeProductRepo) List(_, _ int) ([]*entity.Product, error)  { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error            { return nil }
func (r *fakeProductRepo) Delete(id int64) error                     { return nil }
func (r *fakeProductRepo) GetByIDs(ids []int64) ([]*entity.Product, error) {
	var out []*entity.Product
	seen := make(map[int64]bool)
	for _, id := range ids {
		if p, ok := r.products[id]; ok && !seen[id] {
			out = append(out, p)
			seen[id] = true
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int64]*entity.User
}

func (r *fakeUserRepo) Create(u *entity.User) error                 { return nil }
func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error)      { return r.users[id], nil }
func (r *fakeUserRepo) FindByUsername(string) (*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) FindByEmail(string) (*entity.User, error)    { return nil, nil }
func (r *fakeUserRepo) Update(u *entity.User) error                 { return nil }
func (r *fakeUserRepo) UpdateRefreshTokenHash(int64, string) error  { return nil }
func (r *fakeUserRepo) List(_, _ int) ([]*entity.User, error)       { return nil, nil }
func (r *fakeUserRepo) Delete(id int64) error                       { return nil }
func (r *fakeUserRepo) ListByRol(rol string) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		if u.Rol == rol {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	created []dto.CreateNotificationRequest
}

func (n *fakeNotifier) Create(in dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	n.created = append(n.created, in)
	return &dto.NotificationResponse{ID: int64(len(n.created))}, nil
}

type fakeMailer struct {
	confirmations []string
	statusUpdates []mail.OrderStatusData
	assignedTo    []string
	adminAlerts   []string
}

func (m *fakeMailer) SendOrderConfirmation(email string, _ mail.OrderConfirmationData) bool {
	m.confirmations = append(m.confirmations, email)
	return true
}

func (m *fakeMailer) SendOrderStatusUpdate(email string, data mail.OrderStatusData) bool {
	m.statusUpdates = append(m.statusUpdates, data)
	return true
}

func (m *fakeMailer) SendOrderAssignedToVendedor(email string, _ mail.OrderAssignedData) bool {
	m.assignedTo = append(m.assignedTo, email)
	return true
}

func (m *fakeMailer) SendNewOrderNotificationToAdmin(email string, _ mail.NewOrderAdminData) bool {
	m.adminAlerts = append(m.adminAlerts, email)
	return true
}

type ordersFixture struct {
	uc       *UseCase
	orders   *fakeOrderRepo
	notifier *fakeNotifier
	mailer   *fakeMailer
}

func newOrdersFixture(t *testing.T) *ordersFixture {
	t.Helper()
	orderRepo := newFakeOrderRepo()
	productRepo := &fakeProductRepo{products: map[int64]*entity.Product{
		1: {ID: 1, NombreProducto: "Teclado mecánico", Precio: decimal.NewFromInt(50)},
		2: {ID: 2, NombreProducto: "Mouse inalámbrico", Precio: decimal.NewFromFloat(25.50)},
	}}
	userRepo := &fakeUserRepo{users: map[int64]*entity.User{
		10: {ID: 10, Rol: entity.RolAdministrador, Email: "admin@chpc.test"},
		20: {ID: 20, Rol: entity.RolVendedor, Email: "vendedor@chpc.test", Nombre: "Luis"},
	}}
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}
	uc := NewUseCase(&fakeTxRunner{repo: orderRepo}, orderRepo, productRepo, userRepo, notifier, mailer, logger.NewNop())
	uc.dispatch = func(fn func()) { fn() } // efectos secundarios síncronos en tests
	return &ordersFixture{uc: uc, orders: orderRepo, notifier: notifier, mailer: mailer}
}

func validCreateRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{ProductID: 1, Cantidad: 2},
			{ProductID: 2, Cantidad: 1},
		},
		Descuento:      decimal.NewFromInt(5),
		PaymentMethod:  "transferencia",
		NombreCliente:  "Ana Pérez",
		EmailCliente:   "ana@correo.test",
		Telefono:       "987654321",
		DireccionEnvio: "Av. Principal 123",
	}
}

// --- tests ---

func TestCreate_CalculaTotalesYCodigo(t *testing.T) {
	f := newOrdersFixture(t)

	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)

	// 2×50 + 1×25.50 = 125.50, menos 5 de descuento
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromFloat(125.50)), "subtotal %s", resp.Subtotal)
	assert.True(t, resp.Total.Equal(decimal.NewFromFloat(120.50)), "total %s", resp.Total)
	assert.Equal(t, 3, resp.TotalItems)
	assert.Equal(t, "CHPC-000001", resp.Codigo)
	assert.Equal(t, entity.OrderStatusPending, resp.Status)
	assert.Equal(t, entity.EstadoGestionPendiente, resp.EstadoGestion)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Teclado mecánico", resp.Items[0].Nombre)
	assert.True(t, resp.Items[0].Total.Equal(decimal.NewFromInt(100)))
}

func TestCreate_DisparaEfectosSecundarios(t *testing.T) {
	f := newOrdersFixture(t)

	_, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)

	require.Len(t, f.notifier.created, 1)
	n := f.notifier.created[0]
	assert.Equal(t, entity.NotifNuevoPedido, n.Tipo)
	assert.ElementsMatch(t, []string{entity.RolAdministrador, entity.RolVendedor}, n.Destinatarios)
	assert.Contains(t, n.Mensaje, "CHPC-000001")

	assert.Equal(t, []string{"ana@correo.test"}, f.mailer.confirmations)
	assert.Equal(t, []string{"admin@chpc.test"}, f.mailer.adminAlerts)
}

func TestCreate_SinItems(t *testing.T) {
	f := newOrdersFixture(t)

	_, err := f.uc.Create(5, dto.CreateOrderRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_DescuentoNegativo(t *testing.T) {
	f := newOrdersFixture(t)

	req := validCreateRequest()
	req.Descuento = decimal.NewFromInt(-1)
	_, err := f.uc.Create(5, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreate_ProductoInexistente(t *testing.T) {
	f := newOrdersFixture(t)

	req := validCreateRequest()
	req.Items = append(req.Items, dto.OrderItemRequest{ProductID: 999, Cantidad: 1})
	_, err := f.uc.Create(5, req)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "uno o más productos no existen")
	assert.Empty(t, f.orders.orders, "nada debe persistirse")
}

func TestCreate_RollbackSiFallaLaTransaccion(t *testing.T) {
	f := newOrdersFixture(t)
	f.orders.failCreateItems = true

	_, err := f.uc.Create(5, validCreateRequest())
	require.Error(t, err)
	assert.Empty(t, f.orders.orders)
	assert.Empty(t, f.notifier.created, "sin commit no hay efectos secundarios")
}

func TestGetForCustomer_PedidoAjenoEsNotFound(t *testing.T) {
	f := newOrdersFixture(t)

	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)

	_, err = f.uc.GetForCustomer(resp.ID, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := f.uc.GetForCustomer(resp.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, resp.Codigo, got.Codigo)
}

func TestUpdateStatus(t *testing.T) {
	f := newOrdersFixture(t)
	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)

	got, err := f.uc.UpdateStatus(resp.ID, entity.OrderStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPaid, got.Status)

	_, err = f.uc.UpdateStatus(resp.ID, "ENVIADO_A_MARTE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.UpdateStatus(9999, entity.OrderStatusPaid)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAssign_ForzaEnTramiteYNotifica(t *testing.T) {
	f := newOrdersFixture(t)
	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)
	f.notifier.created = nil
	f.mailer.statusUpdates = nil

	got, err := f.uc.Assign(resp.ID, 20, "Luis")
	require.NoError(t, err)
	require.NotNil(t, got.VendedorID)
	assert.Equal(t, int64(20), *got.VendedorID)
	assert.Equal(t, entity.EstadoGestionEnTramite, got.EstadoGestion)

	require.Len(t, f.notifier.created, 1)
	assert.Contains(t, f.notifier.created[0].Mensaje, "Luis")
	assert.Equal(t, []string{"vendedor@chpc.test"}, f.mailer.assignedTo)
	require.Len(t, f.mailer.statusUpdates, 1)
	assert.Equal(t, entity.EstadoGestionEnTramite, f.mailer.statusUpdates[0].EstadoGestion)
}

func TestUnassign_SoloAdminOAsignado(t *testing.T) {
	f := newOrdersFixture(t)
	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)
	_, err = f.uc.Assign(resp.ID, 20, "Luis")
	require.NoError(t, err)

	// otro vendedor no puede liberar
	_, err = f.uc.Unassign(resp.ID, 33, entity.RolVendedor)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// el asignado sí
	got, err := f.uc.Unassign(resp.ID, 20, entity.RolVendedor)
	require.NoError(t, err)
	assert.Nil(t, got.VendedorID)
	assert.Equal(t, entity.EstadoGestionPendiente, got.EstadoGestion)
}

func TestUpdateEstadoGestion(t *testing.T) {
	f := newOrdersFixture(t)
	resp, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)
	_, err = f.uc.Assign(resp.ID, 20, "Luis")
	require.NoError(t, err)
	f.mailer.statusUpdates = nil

	// un vendedor no asignado no puede gestionar
	_, err = f.uc.UpdateEstadoGestion(resp.ID, 33, entity.RolVendedor, entity.EstadoGestionAtendido)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// admin siempre puede, aunque no esté asignado
	got, err := f.uc.UpdateEstadoGestion(resp.ID, 10, entity.RolAdministrador, entity.EstadoGestionAtendido)
	require.NoError(t, err)
	assert.Equal(t, entity.EstadoGestionAtendido, got.EstadoGestion)

	require.Len(t, f.mailer.statusUpdates, 1)
	assert.Equal(t, entity.EstadoGestionAtendido, f.mailer.statusUpdates[0].EstadoGestion)

	_, err = f.uc.UpdateEstadoGestion(resp.ID, 10, entity.RolAdministrador, "INVENTADO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListByVendedor(t *testing.T) {
	f := newOrdersFixture(t)
	a, err := f.uc.Create(5, validCreateRequest())
	require.NoError(t, err)
	_, err = f.uc.Create(6, validCreateRequest())
	require.NoError(t, err)
	_, err = f.uc.Assign(a.ID, 20, "Luis")
	require.NoError(t, err)

	list, err := f.uc.ListByVendedor(20)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	all, err := f.uc.ListAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
