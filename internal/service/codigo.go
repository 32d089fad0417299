package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	prefijoCodigoProveedor = "PRV-"
	maxIntentosCodigo      = 10
)

var ErrCodigosAgotados = errors.New("no se pudo generar un código de proveedor libre")

// GenerarCodigoProveedor returns a code of the form PRV-1A2B3C4D that existe
// reports as free. The unique index on proveedores.codigo still guards
// against a concurrent registration taking the same code.
func GenerarCodigoProveedor(ctx context.Context, existe func(ctx context.Context, codigo string) (bool, error)) (string, error) {
	for i := 0; i < maxIntentosCodigo; i++ {
		codigo := nuevoCodigo()
		usado, err := existe(ctx, codigo)
		if err != nil {
			return "", err
		}
		if !usado {
			return codigo, nil
		}
	}
	return "", ErrCodigosAgotados
}

func nuevoCodigo() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefijoCodigoProveedor + strings.ToUpper(hex[:8])
}
