package repository

import (
	"context"

	"almacen/internal/model"

	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *model.Cliente) error
	FindByRUT(ctx context.Context, rut string) (*model.Cliente, error)
	ExistsRUT(ctx context.Context, rut string) (bool, error)
	ExistsCorreo(ctx context.Context, correo string) (bool, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByRUT(ctx context.Context, rut string) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).Where("rut_clie = ?", rut).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) ExistsRUT(ctx context.Context, rut string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("rut_clie = ?", rut).Count(&n).Error
	return n > 0, err
}

func (r *clienteRepo) ExistsCorreo(ctx context.Context, correo string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Cliente{}).Where("LOWER(correo) = LOWER(?)", correo).Count(&n).Error
	return n > 0, err
}
