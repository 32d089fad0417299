package service

import (
	"context"
	"fmt"

	"almacen/internal/apierror"
	"almacen/internal/dto"
	"almacen/internal/metrics"
	"almacen/internal/model"
	"almacen/internal/repository"
	"almacen/internal/rut"
	"almacen/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

type ClienteService interface {
	Registrar(ctx context.Context, req dto.RegistrarClienteRequest) (*dto.ClienteResponse, error)
	ObtenerPorRUT(ctx context.Context, rutClie string) (*dto.ClienteResponse, error)
}

type clienteService struct {
	repo         repository.ClienteRepository
	jobs         Encolador
	nombreTienda string
}

func NewClienteService(repo repository.ClienteRepository, jobs Encolador, nombreTienda string) ClienteService {
	return &clienteService{repo: repo, jobs: jobs, nombreTienda: nombreTienda}
}

// Registrar runs every check before writing: RUT digit, RUT taken, email
// taken, then age.
func (s *clienteService) Registrar(ctx context.Context, req dto.RegistrarClienteRequest) (*dto.ClienteResponse, error) {
	resp, err := s.registrar(ctx, req)
	if e := apierror.As(err); e != nil {
		metrics.RegistrosCounter.WithLabelValues("cliente", string(e.Code)).Inc()
	} else if err == nil {
		metrics.RegistrosCounter.WithLabelValues("cliente", "success").Inc()
	}
	return resp, err
}

func (s *clienteService) registrar(ctx context.Context, req dto.RegistrarClienteRequest) (*dto.ClienteResponse, error) {
	rutClie, err := validarRUT(req.RUT)
	if err != nil {
		return nil, err
	}

	existe, err := s.repo.ExistsRUT(ctx, rutClie)
	if err != nil {
		return nil, persistencia(err, "No se pudo verificar el cliente %s", rutClie)
	}
	if existe {
		return nil, apierror.DuplicateIdentifier("El cliente con RUT %s ya está registrado", rutClie)
	}

	existe, err = s.repo.ExistsCorreo(ctx, req.Correo)
	if err != nil {
		return nil, persistencia(err, "No se pudo verificar el correo %s", req.Correo)
	}
	if existe {
		return nil, apierror.DuplicateEmail("El correo %s ya está registrado", req.Correo)
	}

	if req.Edad < 0 {
		return nil, apierror.InvalidAge("La edad no puede ser negativa")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Contrasena), bcrypt.DefaultCost)
	if err != nil {
		return nil, persistencia(err, "No se pudo registrar el cliente %s", rutClie)
	}

	c := &model.Cliente{
		RUT:            rutClie,
		Nombre:         req.Nombre,
		Correo:         req.Correo,
		ContrasenaHash: string(hash),
		Direccion:      req.Direccion,
		Edad:           req.Edad,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, persistencia(err, "No se pudo registrar el cliente %s", rutClie)
	}
	log.Info().Str("rut_clie", c.RUT).Msg("cliente registrado")

	// Welcome email (best-effort, fire & forget)
	if s.jobs != nil {
		visible, _ := rut.Formatear(c.RUT)
		job := worker.EmailJobPayload{
			ToEmail: c.Correo,
			Subject: fmt.Sprintf("Bienvenido a %s", s.nombreTienda),
			Body: fmt.Sprintf("Hola %s, tu cuenta en %s fue creada correctamente con el RUT %s.",
				c.Nombre, s.nombreTienda, visible),
		}
		if err := s.jobs.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Str("rut_clie", c.RUT).Msg("no se pudo encolar el correo de bienvenida")
		}
	}

	return clienteToResponse(c), nil
}

func (s *clienteService) ObtenerPorRUT(ctx context.Context, rutClie string) (*dto.ClienteResponse, error) {
	normalizado, err := rut.Normalizar(rutClie)
	if err != nil {
		return nil, apierror.NotFound("Cliente no encontrado")
	}
	c, err := s.repo.FindByRUT(ctx, normalizado)
	if err != nil {
		if noEncontrado(err) {
			return nil, apierror.NotFound("Cliente no encontrado")
		}
		return nil, persistencia(err, "No se pudo leer el cliente %s", normalizado)
	}
	return clienteToResponse(c), nil
}

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		RUT:       c.RUT,
		Nombre:    c.Nombre,
		Correo:    c.Correo,
		Direccion: c.Direccion,
		Edad:      c.Edad,
	}
}
