package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"almacen/internal/infra"
	"almacen/internal/model"
	"almacen/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:service_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := infra.NewDatabase("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fakeEncolador records enqueued jobs instead of pushing them to Redis.
type fakeEncolador struct {
	mu           sync.Mutex
	comprobantes []worker.ComprobanteJobPayload
	emails       []worker.EmailJobPayload
	err          error
}

func (f *fakeEncolador) EnqueueComprobante(_ context.Context, p worker.ComprobanteJobPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.comprobantes = append(f.comprobantes, p)
	return nil
}

func (f *fakeEncolador) EnqueueEmail(_ context.Context, p worker.EmailJobPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.emails = append(f.emails, p)
	return nil
}

func seedProducto(t *testing.T, db *gorm.DB, codigo int, nombre string, existencias int, precio string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Producto{
		Codigo:      codigo,
		Nombre:      nombre,
		Existencias: existencias,
		Precio:      decimal.RequireFromString(precio),
	}).Error)
}

// seedPedido creates a pending order; lineas is a flat list of
// (codigo_producto, cantidad) pairs.
func seedPedido(t *testing.T, db *gorm.DB, codigo int, lineas ...int) {
	t.Helper()
	require.Zero(t, len(lineas)%2, "lineas must be (producto, cantidad) pairs")
	p := model.Pedido{Codigo: codigo}
	for i := 0; i < len(lineas); i += 2 {
		p.Lineas = append(p.Lineas, model.ListaProducto{CodigoProducto: lineas[i], Cantidad: lineas[i+1]})
	}
	require.NoError(t, db.Create(&p).Error)
}

func existencias(t *testing.T, db *gorm.DB, codigo int) int {
	t.Helper()
	var p model.Producto
	require.NoError(t, db.First(&p, "codigo = ?", codigo).Error)
	return p.Existencias
}

func recogido(t *testing.T, db *gorm.DB, codigo int) bool {
	t.Helper()
	var p model.Pedido
	require.NoError(t, db.First(&p, "codigo_ped = ?", codigo).Error)
	return p.Recogido
}

func contar(t *testing.T, db *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}

// fallarEn makes every create or delete against tabla fail, so a
// transaction aborts at that statement.
func fallarEn(t *testing.T, db *gorm.DB, operacion, tabla string) {
	t.Helper()
	falla := func(tx *gorm.DB) {
		if tx.Statement.Table == tabla {
			_ = tx.AddError(errors.New("escritura rechazada en " + tabla))
		}
	}
	nombre := "test:fallo_" + operacion + "_" + tabla
	var err error
	switch operacion {
	case "create":
		err = db.Callback().Create().Before("gorm:create").Register(nombre, falla)
	case "delete":
		err = db.Callback().Delete().Before("gorm:delete").Register(nombre, falla)
	default:
		t.Fatalf("operación desconocida %q", operacion)
	}
	require.NoError(t, err)
}
