package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/pkg/config"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*entity.User), nextID: 1}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	u.ID = r.nextID
	r.nextID++
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(u *entity.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) UpdateRefreshTokenHash(userID int64, hash string) error {
	r.users[userID].RefreshTokenHash = hash
	return nil
}

func (r *fakeUserRepo) List(_, _ int) ([]*entity.User, error)    { return nil, nil }
func (r *fakeUserRepo) ListByRol(string) ([]*entity.User, error) { return nil, nil }
func (r *fakeUserRepo) Delete(id int64) error                    { return nil }

type fakeNotifier struct {
	created []dto.CreateNotificationRequest
}

func (n *fakeNotifier) Create(in dto.CreateNotificationRequest) (*dto.NotificationResponse, error) {
	n.created = append(n.created, in)
	return &dto.NotificationResponse{}, nil
}

type fakeMailer struct {
	welcomes []string
}

func (m *fakeMailer) SendWelcomeEmail(email string, _ mail.WelcomeData) bool {
	m.welcomes = append(m.welcomes, email)
	return true
}

type authFixture struct {
	uc       *UseCase
	users    *fakeUserRepo
	notifier *fakeNotifier
	mailer   *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newFakeUserRepo()
	notifier := &fakeNotifier{}
	mailer := &fakeMailer{}
	cfg := config.JWTConfig{Secret: "secreto-de-test", Expiration: 60, Issuer: "tienda-api"}
	uc := NewUseCase(users, notifier, mailer, cfg, logger.NewNop())
	uc.dispatch = func(fn func()) { fn() }
	return &authFixture{uc: uc, users: users, notifier: notifier, mailer: mailer}
}

func validRegister() dto.RegisterRequest {
	return dto.RegisterRequest{
		Nombre:   "Ana",
		Apellido: "Pérez",
		Username: "anaperez",
		Email:    "Ana@Correo.Test",
		Password: "secreta1",
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture(t)

	resp, err := f.uc.Register(validRegister())
	require.NoError(t, err)
	assert.Equal(t, entity.RolCliente, resp.Rol, "rol por defecto")
	assert.Equal(t, "ana@correo.test", resp.Email, "email normalizado a minúsculas")
	assert.True(t, resp.Activo)

	// el hash nunca es la contraseña en claro
	stored := f.users.users[resp.ID]
	assert.NotEqual(t, "secreta1", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secreta1")))

	// efectos secundarios: aviso a admins + bienvenida
	require.Len(t, f.notifier.created, 1)
	assert.Equal(t, entity.NotifNuevoUsuario, f.notifier.created[0].Tipo)
	assert.Equal(t, []string{entity.RolAdministrador}, f.notifier.created[0].Destinatarios)
	assert.Equal(t, []string{"ana@correo.test"}, f.mailer.welcomes)
}

func TestRegister_Duplicados(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Register(validRegister())
	require.NoError(t, err)

	dup := validRegister()
	dup.Email = "otra@correo.test"
	_, err = f.uc.Register(dup)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)

	dup = validRegister()
	dup.Username = "otrousuario"
	_, err = f.uc.Register(dup)
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestRegister_Validaciones(t *testing.T) {
	f := newAuthFixture(t)

	req := validRegister()
	req.Password = "corta"
	_, err := f.uc.Register(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = validRegister()
	req.Rol = "superusuario"
	_, err = f.uc.Register(req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Register(validRegister())
	require.NoError(t, err)

	resp, err := f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Len(t, resp.RefreshToken, 64, "32 bytes aleatorios en hex")
	assert.Equal(t, "anaperez", resp.User.Username)

	// el refresh se guarda hasheado, nunca en claro
	stored := f.users.users[resp.User.ID]
	assert.NotEqual(t, resp.RefreshToken, stored.RefreshTokenHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.RefreshTokenHash), []byte(resp.RefreshToken)))
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Register(validRegister())
	require.NoError(t, err)

	_, err = f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "equivocada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(dto.LoginRequest{Username: "noexiste", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_CuentaDesactivada(t *testing.T) {
	f := newAuthFixture(t)
	resp, err := f.uc.Register(validRegister())
	require.NoError(t, err)
	f.users.users[resp.ID].Activo = false

	_, err = f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRefresh_Rotacion(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Register(validRegister())
	require.NoError(t, err)
	login, err := f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	require.NoError(t, err)

	refreshed, err := f.uc.Refresh(dto.RefreshRequest{UserID: login.User.ID, RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// el token anterior quedó invalidado por la rotación
	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: login.User.ID, RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Register(validRegister())
	require.NoError(t, err)
	login, err := f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	require.NoError(t, err)

	require.NoError(t, f.uc.Logout(login.User.ID))
	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: login.User.ID, RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	resp, err := f.uc.Register(validRegister())
	require.NoError(t, err)
	login, err := f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	require.NoError(t, err)

	// contraseña actual incorrecta
	err = f.uc.ChangePassword(resp.ID, dto.ChangePasswordRequest{PasswordActual: "mala", PasswordNueva: "nuevaclave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// nueva demasiado corta
	err = f.uc.ChangePassword(resp.ID, dto.ChangePasswordRequest{PasswordActual: "secreta1", PasswordNueva: "abc"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = f.uc.ChangePassword(resp.ID, dto.ChangePasswordRequest{PasswordActual: "secreta1", PasswordNueva: "nuevaclave"})
	require.NoError(t, err)

	// la vieja deja de servir, la nueva entra, y el refresh quedó invalidado
	_, err = f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "secreta1"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = f.uc.Login(dto.LoginRequest{Username: "anaperez", Password: "nuevaclave"})
	assert.NoError(t, err)
	_, err = f.uc.Refresh(dto.RefreshRequest{UserID: resp.ID, RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRegister_RecortaEspacios(t *testing.T) {
	f := newAuthFixture(t)
	req := validRegister()
	req.Username = "  anaperez  "
	resp, err := f.uc.Register(req)
	require.NoError(t, err)
	assert.Equal(t, "anaperez", resp.Username)
	assert.False(t, strings.Contains(resp.Email, " "))
}
