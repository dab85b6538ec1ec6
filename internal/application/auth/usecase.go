package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/chpcstore/tienda-api/internal/application/dto"
	"github.com/chpcstore/tienda-api/internal/application/mail"
	"github.com/chpcstore/tienda-api/internal/domain"
	"github.com/chpcstore/tienda-api/internal/domain/entity"
	"github.com/chpcstore/tienda-api/internal/domain/repository"
	"github.com/chpcstore/tienda-api/pkg/config"
	"github.com/chpcstore/tienda-api/pkg/jwt"
	"github.com/chpcstore/tienda-api/pkg/logger"
)

const minPasswordLen = 6

// Notifier puerto hacia las notificaciones in-app (lo implementa notifications.UseCase).
type Notifier interface {
	Create(in dto.CreateNotificationRequest) (*dto.NotificationResponse, error)
}

// Mailer puerto hacia el correo de bienvenida.
type Mailer interface {
	SendWelcomeEmail(email string, data mail.WelcomeData) bool
}

// UseCase registro, login con rotación de refresh token y cambio de contraseña.
type UseCase struct {
	userRepo repository.UserRepository
	notifier Notifier
	mailer   Mailer
	jwtCfg   config.JWTConfig
	log      *logger.Logger

	// dispatch desacopla los efectos secundarios del registro;
	// en producción lanza una goroutine, en tests se reemplaza por ejecución síncrona.
	dispatch func(fn func())
}

// NewUseCase construye el caso de uso.
func NewUseCase(userRepo repository.UserRepository, notifier Notifier, mailer Mailer, jwtCfg config.JWTConfig, log *logger.Logger) *UseCase {
	return &UseCase{
		userRepo: userRepo,
		notifier: notifier,
		mailer:   mailer,
		jwtCfg:   jwtCfg,
		log:      log,
		dispatch: func(fn func()) { go fn() },
	}
}

// Register da de alta un usuario. Username y email deben ser únicos; el rol
// por defecto es cliente. El aviso al staff y el correo de bienvenida son
// best-effort: nunca hacen fallar el registro.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.UserResponse, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Nombre == "" || in.Username == "" || in.Email == "" {
		return nil, fmt.Errorf("%w: nombre, username y email son obligatorios", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	rol := in.Rol
	if rol == "" {
		rol = entity.RolCliente
	}
	if rol != entity.RolAdministrador && rol != entity.RolVendedor && rol != entity.RolTecnico && rol != entity.RolCliente {
		return nil, fmt.Errorf("%w: rol inválido", domain.ErrInvalidInput)
	}

	if existing, err := uc.userRepo.FindByUsername(in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}
	if existing, err := uc.userRepo.FindByEmail(in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de contraseña: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		Nombre:             in.Nombre,
		Apellido:           in.Apellido,
		Username:           in.Username,
		Email:              in.Email,
		PasswordHash:       string(hash),
		Telefono:           in.Telefono,
		Direccion:          in.Direccion,
		Rol:                rol,
		Activo:             true,
		FechaCreacion:      now,
		FechaActualizacion: now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("username", user.Username).Str("rol", user.Rol).Msg("usuario registrado")

	uc.dispatch(func() { uc.notifyNewUser(user) })

	return toUserResponse(user), nil
}

func (uc *UseCase) notifyNewUser(user *entity.User) {
	_, err := uc.notifier.Create(dto.CreateNotificationRequest{
		Tipo:          entity.NotifNuevoUsuario,
		Titulo:        "Nuevo Usuario Registrado",
		Mensaje:       fmt.Sprintf("Se ha registrado un nuevo usuario: %s %s (%s)", user.Nombre, user.Apellido, user.Email),
		Destinatarios: []string{entity.RolAdministrador},
	})
	if err != nil {
		uc.log.Error().Err(err).Str("username", user.Username).Msg("notificación de nuevo usuario")
	}
	uc.mailer.SendWelcomeEmail(user.Email, mail.WelcomeData{Nombre: user.Nombre, Apellido: user.Apellido})
}

// Login valida credenciales y emite el par access/refresh. El refresh token
// se guarda hasheado: una fuga de la tabla de usuarios no filtra sesiones.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByUsername(strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Activo {
		return nil, fmt.Errorf("%w: la cuenta está desactivada", domain.ErrForbidden)
	}
	return uc.emitirTokens(user)
}

// Refresh rota el refresh token: valida el presentado contra el hash vigente
// y emite un par nuevo, invalidando el anterior.
func (uc *UseCase) Refresh(in dto.RefreshRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByID(in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.RefreshTokenHash), []byte(in.RefreshToken)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Activo {
		return nil, fmt.Errorf("%w: la cuenta está desactivada", domain.ErrForbidden)
	}
	return uc.emitirTokens(user)
}

// Logout invalida la sesión borrando el hash del refresh token.
func (uc *UseCase) Logout(userID int64) error {
	return uc.userRepo.UpdateRefreshTokenHash(userID, "")
}

// ChangePassword cambia la contraseña del propio usuario verificando la actual.
// Invalida el refresh token vigente: las demás sesiones deben reautenticarse.
func (uc *UseCase) ChangePassword(userID int64, in dto.ChangePasswordRequest) error {
	if len(in.PasswordNueva) < minPasswordLen {
		return fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.PasswordActual)); err != nil {
		return domain.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.PasswordNueva), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash de contraseña: %w", err)
	}
	user.PasswordHash = string(hash)
	user.FechaActualizacion = time.Now()
	if err := uc.userRepo.Update(user); err != nil {
		return err
	}
	return uc.userRepo.UpdateRefreshTokenHash(userID, "")
}

func (uc *UseCase) emitirTokens(user *entity.User) (*dto.LoginResponse, error) {
	access, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Rol, uc.jwtCfg.Issuer, uc.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	refresh := hex.EncodeToString(raw)

	refreshHash, err := bcrypt.GenerateFromPassword([]byte(refresh), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash de refresh token: %w", err)
	}
	if err := uc.userRepo.UpdateRefreshTokenHash(user.ID, string(refreshHash)); err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:            u.ID,
		Nombre:        u.Nombre,
		Apellido:      u.Apellido,
		Username:      u.Username,
		Email:         u.Email,
		Telefono:      u.Telefono,
		Direccion:     u.Direccion,
		Rol:           u.Rol,
		Activo:        u.Activo,
		FechaCreacion: u.FechaCreacion,
	}
}
