// cmd/seeddemo/main.go: Crea/actualiza el usuario administrador y carga
// productos y pedidos de demostración.
// Uso: go run ./cmd/seeddemo
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"almacen/internal/config"
	"almacen/internal/infra"
	"almacen/internal/model"
	"almacen/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := envOr("SEED_ADMIN_USER", "admin")
	password := envOr("SEED_ADMIN_PASSWORD", "admin1234")

	db, err := infra.NewDatabase(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}
	if err := infra.PrepareSchema(ctx, cfg.DatabaseDriver, db); err != nil {
		log.Fatal().Err(err).Msg("migration error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	email := username + "@almacen.local"
	admin := &model.Usuario{
		Username:     username,
		Nombre:       "Administrador",
		Email:        &email,
		PasswordHash: string(hash),
		Rol:          "administrador",
		Activo:       true,
	}
	if err := repository.NewUsuarioRepository(db).Upsert(ctx, admin); err != nil {
		log.Fatal().Err(err).Msg("usuario upsert error")
	}

	if err := seedCatalogo(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("seed error")
	}
	fmt.Printf("✅ Usuario '%s' creado/actualizado con password '%s'\n", username, password)
}

// seedCatalogo inserts demo products, one supplier linked to two of them and
// two pending orders; existing rows are left untouched.
func seedCatalogo(ctx context.Context, db *gorm.DB) error {
	productos := []model.Producto{
		{Codigo: 1, Nombre: "Arroz 1kg", Existencias: 40, Precio: decimal.RequireFromString("1290")},
		{Codigo: 2, Nombre: "Aceite 1L", Existencias: 25, Precio: decimal.RequireFromString("2990")},
		{Codigo: 3, Nombre: "Azúcar 1kg", Existencias: 10, Precio: decimal.RequireFromString("1150")},
	}
	pedidos := []model.Pedido{
		{Codigo: 1, Lineas: []model.ListaProducto{{CodigoProducto: 1, Cantidad: 2}, {CodigoProducto: 2, Cantidad: 1}}},
		{Codigo: 2, Lineas: []model.ListaProducto{{CodigoProducto: 3, Cantidad: 4}}},
	}
	productoRepo := repository.NewProductoRepository(db)
	for i := range productos {
		if _, err := productoRepo.FindByCodigo(ctx, productos[i].Codigo); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := productoRepo.Create(ctx, &productos[i]); err != nil {
			return err
		}
	}

	if err := seedProveedor(ctx, db); err != nil {
		return err
	}

	pedidoRepo := repository.NewPedidoRepository(db)
	for i := range pedidos {
		if _, err := pedidoRepo.FindByCodigo(ctx, pedidos[i].Codigo); err == nil {
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := pedidoRepo.Create(ctx, &pedidos[i]); err != nil {
			return err
		}
	}
	return nil
}

// seedProveedor registers the demo supplier and its product links, so the
// deletion guard has something to refuse.
func seedProveedor(ctx context.Context, db *gorm.DB) error {
	repo := repository.NewProveedorRepository(db)
	prov := model.Proveedor{
		RUT:         "76543210-3",
		RazonSocial: "Distribuidora Demo SpA",
		Correo:      "ventas@distribuidora.demo",
		Codigo:      "PRV-0000D3E0",
	}
	if _, err := repo.FindByRUT(ctx, prov.RUT); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if err := repo.Create(ctx, &prov); err != nil {
		return err
	}
	for _, producto := range []int{1, 2} {
		a := model.ListaProveedores{CodigoProveedor: prov.Codigo, CodigoProducto: producto}
		if err := repo.CreateAsociacion(ctx, &a); err != nil {
			return err
		}
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
