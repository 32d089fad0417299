package repository

import (
	"context"

	"almacen/internal/dto"
	"almacen/internal/model"

	"gorm.io/gorm"
)

// ProductoRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByCodigo(ctx context.Context, codigo int) (*model.Producto, error)
	List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error)
	ListAll(ctx context.Context) ([]model.Producto, error)

	// Used inside transactions; callers must pass the tx instance
	FindByCodigoTx(tx *gorm.DB, codigo int) (*model.Producto, error)
	// DescontarStockTx subtracts cantidad only while the result stays >= 0.
	// It reports false when the guard rejected the update.
	DescontarStockTx(tx *gorm.DB, codigo int, cantidad int) (bool, error)
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo int) (*model.Producto, error) {
	return r.FindByCodigoTx(r.db.WithContext(ctx), codigo)
}

func (r *productoRepo) FindByCodigoTx(tx *gorm.DB, codigo int) (*model.Producto, error) {
	var p model.Producto
	if err := tx.First(&p, "codigo = ?", codigo).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context, filter dto.ProductoFilter) ([]model.Producto, int64, error) {
	var productos []model.Producto
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if filter.Nombre != "" {
		q = q.Where("LOWER(nombre) LIKE LOWER(?)", "%"+filter.Nombre+"%")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("nombre ASC").Limit(filter.Limit).Offset(offset).Find(&productos).Error
	return productos, total, err
}

func (r *productoRepo) ListAll(ctx context.Context) ([]model.Producto, error) {
	var productos []model.Producto
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, codigo int, cantidad int) (bool, error) {
	res := tx.Model(&model.Producto{}).
		Where("codigo = ? AND existencias >= ?", codigo, cantidad).
		Update("existencias", gorm.Expr("existencias - ?", cantidad))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
