package service

import (
	"context"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/metrics"
	"almacen/internal/model"
	"almacen/internal/repository"
	"almacen/internal/rut"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProveedorService interface {
	Registrar(ctx context.Context, req dto.RegistrarProveedorRequest) (*dto.ProveedorResponse, error)
	ObtenerPorRUT(ctx context.Context, rutProv string) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, rutProv string, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error)
	Eliminar(ctx context.Context, rutProv string) error
}

type proveedorService struct {
	repo repository.ProveedorRepository
}

func NewProveedorService(repo repository.ProveedorRepository) ProveedorService {
	return &proveedorService{repo: repo}
}

func (s *proveedorService) Registrar(ctx context.Context, req dto.RegistrarProveedorRequest) (*dto.ProveedorResponse, error) {
	rutProv, err := validarRUT(req.RUT)
	if err != nil {
		metrics.RegistrosCounter.WithLabelValues("proveedor", string(apierror.CodeInvalidIdentifier)).Inc()
		return nil, err
	}

	if _, err := s.repo.FindByRUT(ctx, rutProv); err == nil {
		metrics.RegistrosCounter.WithLabelValues("proveedor", string(apierror.CodeDuplicateIdentifier)).Inc()
		return nil, apierror.DuplicateIdentifier("El proveedor con RUT %s ya existe", rutProv)
	} else if !noEncontrado(err) {
		return nil, persistencia(err, "No se pudo verificar el proveedor %s", rutProv)
	}

	codigo, err := GenerarCodigoProveedor(ctx, s.repo.ExistsCodigo)
	if err != nil {
		return nil, persistencia(err, "No se pudo generar el código del proveedor")
	}

	p := &model.Proveedor{
		RUT:           rutProv,
		RazonSocial:   req.RazonSocial,
		Correo:        req.Correo,
		Telefono:      req.Telefono,
		Direccion:     req.Direccion,
		Representante: req.Representante,
		Codigo:        codigo,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, persistencia(err, "No se pudo registrar el proveedor %s", rutProv)
	}

	metrics.RegistrosCounter.WithLabelValues("proveedor", "success").Inc()
	log.Info().Str("rut_prov", p.RUT).Str("codigo", p.Codigo).Msg("proveedor registrado")
	return proveedorToResponse(p), nil
}

func (s *proveedorService) ObtenerPorRUT(ctx context.Context, rutProv string) (*dto.ProveedorResponse, error) {
	p, err := s.buscar(ctx, rutProv)
	if err != nil {
		return nil, err
	}
	return proveedorToResponse(p), nil
}

func (s *proveedorService) Listar(ctx context.Context) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx)
	if err != nil {
		return nil, persistencia(err, "No se pudo listar los proveedores")
	}
	resp := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		resp[i] = *proveedorToResponse(&proveedores[i])
	}
	return resp, nil
}

// Actualizar overwrites the contact fields. RUT and código stay as registered.
func (s *proveedorService) Actualizar(ctx context.Context, rutProv string, req dto.ActualizarProveedorRequest) (*dto.ProveedorResponse, error) {
	p, err := s.buscar(ctx, rutProv)
	if err != nil {
		return nil, err
	}

	p.RazonSocial = req.RazonSocial
	p.Correo = req.Correo
	p.Telefono = req.Telefono
	p.Direccion = req.Direccion
	p.Representante = req.Representante
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, persistencia(err, "No se pudo actualizar el proveedor %s", p.RUT)
	}
	return proveedorToResponse(p), nil
}

// Eliminar refuses to delete a supplier still linked to products through
// lista_proveedores. The check and the delete share one transaction with the
// supplier row locked.
func (s *proveedorService) Eliminar(ctx context.Context, rutProv string) error {
	normalizado, err := rut.Normalizar(rutProv)
	if err != nil {
		return apierror.NotFound("Proveedor no encontrado")
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		p, err := s.repo.FindForUpdateTx(tx, normalizado)
		if err != nil {
			if noEncontrado(err) {
				return apierror.NotFound("Proveedor no encontrado")
			}
			return persistencia(err, "No se pudo leer el proveedor %s", normalizado)
		}

		n, err := s.repo.CountAsociacionesTx(tx, p.Codigo)
		if err != nil {
			return persistencia(err, "No se pudo verificar los productos del proveedor %s", p.RUT)
		}
		if n > 0 {
			log.Warn().Str("rut_prov", p.RUT).Int64("productos", n).Msg("eliminación de proveedor rechazada")
			return apierror.ReferentialIntegrity("No se puede eliminar el proveedor %s: tiene %d producto(s) asociado(s)", p.RUT, n)
		}

		if err := s.repo.DeleteTx(tx, p.RUT); err != nil {
			return persistencia(err, "No se pudo eliminar el proveedor %s", p.RUT)
		}
		return nil
	})
	if txErr != nil {
		if e := apierror.As(txErr); e != nil {
			return e
		}
		return persistencia(txErr, "No se pudo eliminar el proveedor %s", normalizado)
	}

	log.Info().Str("rut_prov", normalizado).Msg("proveedor eliminado")
	return nil
}

// buscar normalizes the RUT before the lookup; a malformed value can't
// exist in the store, so it is reported as not found.
func (s *proveedorService) buscar(ctx context.Context, rutProv string) (*model.Proveedor, error) {
	normalizado, err := rut.Normalizar(rutProv)
	if err != nil {
		return nil, apierror.NotFound("Proveedor no encontrado")
	}
	p, err := s.repo.FindByRUT(ctx, normalizado)
	if err != nil {
		if noEncontrado(err) {
			return nil, apierror.NotFound("Proveedor no encontrado")
		}
		return nil, persistencia(err, "No se pudo leer el proveedor %s", normalizado)
	}
	return p, nil
}

// validarRUT checks the digit and returns the normalized form.
func validarRUT(valor string) (string, error) {
	if !rut.Validar(valor) {
		return "", apierror.InvalidIdentifier("El RUT %s no es válido", valor)
	}
	return rut.Normalizar(valor)
}

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		RUT:           p.RUT,
		RazonSocial:   p.RazonSocial,
		Correo:        p.Correo,
		Telefono:      p.Telefono,
		Direccion:     p.Direccion,
		Representante: p.Representante,
		Codigo:        p.Codigo,
	}
}
