package repository

import (
	"context"

	"almacen/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PedidoRepository interface {
	Create(ctx context.Context, p *model.Pedido) error
	FindByCodigo(ctx context.Context, codigo int) (*model.Pedido, error)
	// List returns orders pending first, newest code first. A zero codigo
	// lists everything.
	List(ctx context.Context, codigo int) ([]model.Pedido, error)

	// Used inside transactions; callers must pass the tx instance
	FindForUpdateTx(tx *gorm.DB, codigo int) (*model.Pedido, error)
	// MarcarRecogidoTx flips estado false → true and reports whether this
	// call performed the transition.
	MarcarRecogidoTx(tx *gorm.DB, codigo int) (bool, error)
	DeleteTx(tx *gorm.DB, codigo int) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) Create(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) FindByCodigo(ctx context.Context, codigo int) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Lineas", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lineas.Producto").
		Preload("Cliente").
		First(&p, "codigo_ped = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) List(ctx context.Context, codigo int) ([]model.Pedido, error) {
	q := r.db.WithContext(ctx).
		Preload("Lineas", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Lineas.Producto")
	if codigo > 0 {
		q = q.Where("codigo_ped = ?", codigo)
	}
	var pedidos []model.Pedido
	err := q.Order("estado ASC").Order("codigo_ped DESC").Find(&pedidos).Error
	return pedidos, err
}

// FindForUpdateTx locks the order row (SELECT … FOR UPDATE on PostgreSQL;
// SQLite serializes writers and its dialect drops the clause). Lines come
// back by product code so concurrent pickups lock products in the same order.
func (r *pedidoRepo) FindForUpdateTx(tx *gorm.DB, codigo int) (*model.Pedido, error) {
	var p model.Pedido
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "codigo_ped = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	if err := tx.Where("codigo_pedido = ?", codigo).Order("codigo_producto ASC, id ASC").Find(&p.Lineas).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) MarcarRecogidoTx(tx *gorm.DB, codigo int) (bool, error) {
	res := tx.Model(&model.Pedido{}).
		Where("codigo_ped = ? AND estado = ?", codigo, false).
		Update("estado", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// DeleteTx removes the order lines and then the order.
func (r *pedidoRepo) DeleteTx(tx *gorm.DB, codigo int) error {
	if err := tx.Where("codigo_pedido = ?", codigo).Delete(&model.ListaProducto{}).Error; err != nil {
		return err
	}
	return tx.Where("codigo_ped = ?", codigo).Delete(&model.Pedido{}).Error
}
