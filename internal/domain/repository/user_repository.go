package repository

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// UserRepository persistencia de usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
