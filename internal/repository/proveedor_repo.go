package repository

import (
	"context"

	"almacen/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProveedorRepository interface {
	Create(ctx context.Context, p *model.Proveedor) error
	FindByRUT(ctx context.Context, rut string) (*model.Proveedor, error)
	ExistsCodigo(ctx context.Context, codigo string) (bool, error)
	List(ctx context.Context) ([]model.Proveedor, error)
	// Update writes only the mutable columns; rut_prov and codigo are never touched.
	Update(ctx context.Context, p *model.Proveedor) error

	// Supplier ↔ product associations (lista_proveedores)
	CreateAsociacion(ctx context.Context, a *model.ListaProveedores) error

	// Used inside transactions; callers must pass the tx instance
	FindForUpdateTx(tx *gorm.DB, rut string) (*model.Proveedor, error)
	CountAsociacionesTx(tx *gorm.DB, codigoProveedor string) (int64, error)
	DeleteTx(tx *gorm.DB, rut string) error

	DB() *gorm.DB
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) DB() *gorm.DB { return r.db }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByRUT(ctx context.Context, rut string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := r.db.WithContext(ctx).Where("rut_prov = ?", rut).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) ExistsCodigo(ctx context.Context, codigo string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("codigo = ?", codigo).Count(&n).Error
	return n > 0, err
}

func (r *proveedorRepo) List(ctx context.Context) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	err := r.db.WithContext(ctx).Order("razon_social ASC").Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).
		Where("rut_prov = ?", p.RUT).
		Select("razon_social", "correo", "telefono", "direccion", "representante", "updated_at").
		Updates(map[string]interface{}{
			"razon_social":  p.RazonSocial,
			"correo":        p.Correo,
			"telefono":      p.Telefono,
			"direccion":     p.Direccion,
			"representante": p.Representante,
			"updated_at":    gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

func (r *proveedorRepo) CreateAsociacion(ctx context.Context, a *model.ListaProveedores) error {
	return r.db.WithContext(ctx).Create(a).Error
}

// FindForUpdateTx locks the supplier row. On PostgreSQL an association
// insert waits on this lock through the lista_proveedores foreign key.
func (r *proveedorRepo) FindForUpdateTx(tx *gorm.DB, rut string) (*model.Proveedor, error) {
	var p model.Proveedor
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("rut_prov = ?", rut).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) CountAsociacionesTx(tx *gorm.DB, codigoProveedor string) (int64, error) {
	var n int64
	err := tx.Model(&model.ListaProveedores{}).
		Where("codigo_proveedor = ?", codigoProveedor).Count(&n).Error
	return n, err
}

func (r *proveedorRepo) DeleteTx(tx *gorm.DB, rut string) error {
	return tx.Where("rut_prov = ?", rut).Delete(&model.Proveedor{}).Error
}
