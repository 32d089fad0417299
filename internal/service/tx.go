package service

import (
	"context"
	"errors"

	"almacen/internal/apierror"
	"almacen/internal/worker"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Encolador is the part of *worker.Dispatcher the services use.
type Encolador interface {
	EnqueueComprobante(ctx context.Context, payload worker.ComprobanteJobPayload) error
	EnqueueEmail(ctx context.Context, payload worker.EmailJobPayload) error
}

// runTx executes fn inside a GORM transaction; a non-nil return rolls back.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

func noEncontrado(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// persistencia logs a store failure and wraps it so the cause never
// reaches the client.
func persistencia(err error, format string, args ...any) *apierror.Error {
	e := apierror.Persistence(err, format, args...)
	log.Error().Err(err).Str("codigo", string(e.Code)).Msg(e.Message)
	return e
}
