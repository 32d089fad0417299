package repository

import (
	"context"

	"almacen/internal/model"

	"gorm.io/gorm"
)

type VentaRepository interface {
	CreateTx(tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uint) (*model.Venta, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) CreateTx(tx *gorm.DB, v *model.Venta) error {
	return tx.Create(v).Error
}

// FindByID loads the sale with its order, lines, products and customer,
// everything the receipt needs.
func (r *ventaRepo) FindByID(ctx context.Context, id uint) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Pedido.Lineas.Producto").
		Preload("Pedido.Cliente").
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}
