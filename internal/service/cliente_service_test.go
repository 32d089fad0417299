package service_test

import (
	"context"
	"testing"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/model"
	"almacen/internal/repository"
	"almacen/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func clienteReq(rut, correo string, edad int) dto.RegistrarClienteRequest {
	return dto.RegistrarClienteRequest{
		RUT:        rut,
		Nombre:     "Juan Soto",
		Correo:     correo,
		Contrasena: "secreta123",
		Direccion:  "Los Aromos 55",
		Edad:       edad,
	}
}

func newClienteService(t *testing.T, jobs service.Encolador) (service.ClienteService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return service.NewClienteService(repository.NewClienteRepository(db), jobs, "Almacén Don Pepe"), db
}

func TestRegistrarCliente(t *testing.T) {
	jobs := &fakeEncolador{}
	svc, db := newClienteService(t, jobs)

	resp, err := svc.Registrar(context.Background(), clienteReq("11.111.111-1", "juan@mail.cl", 30))
	require.NoError(t, err)
	assert.Equal(t, "11111111-1", resp.RUT)

	var c model.Cliente
	require.NoError(t, db.First(&c, "rut_clie = ?", "11111111-1").Error)
	assert.NotEqual(t, "secreta123", c.ContrasenaHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(c.ContrasenaHash), []byte("secreta123")))

	require.Len(t, jobs.emails, 1)
	assert.Equal(t, "juan@mail.cl", jobs.emails[0].ToEmail)
	assert.Contains(t, jobs.emails[0].Subject, "Almacén Don Pepe")
	assert.Contains(t, jobs.emails[0].Body, "11.111.111-1")
}

func TestRegistrarCliente_EdadCeroEsValida(t *testing.T) {
	svc, _ := newClienteService(t, nil)

	resp, err := svc.Registrar(context.Background(), clienteReq("11111111-1", "bebe@mail.cl", 0))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Edad)
}

func TestRegistrarCliente_Errores(t *testing.T) {
	tests := []struct {
		name string
		req  dto.RegistrarClienteRequest
		want error
	}{
		{"rut invalido", clienteReq("12345678-4", "otro@mail.cl", 20), apierror.ErrInvalidIdentifier},
		{"rut duplicado", clienteReq("12.345.678-5", "otro@mail.cl", 20), apierror.ErrDuplicateIdentifier},
		{"correo duplicado", clienteReq("11111111-1", "Existente@Mail.cl", 20), apierror.ErrDuplicateEmail},
		{"edad negativa", clienteReq("11111111-1", "nuevo@mail.cl", -1), apierror.ErrInvalidAge},
		// RUT is checked before age
		{"rut invalido y edad negativa", clienteReq("12345678-4", "nuevo@mail.cl", -5), apierror.ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, db := newClienteService(t, nil)
			_, err := svc.Registrar(context.Background(), clienteReq("12345678-5", "existente@mail.cl", 40))
			require.NoError(t, err)

			_, err = svc.Registrar(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.want)
			assert.EqualValues(t, 1, contar(t, db, &model.Cliente{}))
		})
	}
}

func TestObtenerCliente(t *testing.T) {
	svc, _ := newClienteService(t, nil)
	_, err := svc.Registrar(context.Background(), clienteReq("11111111-1", "juan@mail.cl", 30))
	require.NoError(t, err)

	got, err := svc.ObtenerPorRUT(context.Background(), "11.111.111-1")
	require.NoError(t, err)
	assert.Equal(t, "Juan Soto", got.Nombre)

	_, err = svc.ObtenerPorRUT(context.Background(), "22222222-2")
	require.ErrorIs(t, err, apierror.ErrNotFound)
}
