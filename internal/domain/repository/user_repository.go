package repository

import "github.com/chpcstore/tienda-api/internal/domain/entity"

// UserRepository define el puerto de persistencia para User (DIP).
type UserRepository interface {
	Create(user *entity.User) error // asigna user.ID
	GetByID(id int64) (*entity.User, error)
	FindByUsername(username string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateRefreshTokenHash(userID int64, hash string) error
	List(limit, offset int) ([]*entity.User, error)
	ListByRol(rol string) ([]*entity.User, error)
	Delete(id int64) error
}
