// Package repository persists leads in PostgreSQL and implements the store
// the lead queue reads from and writes to.
package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/phone"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool  *pgxpool.Pool
	phone phone.Normalizer
}

func New(pool *pgxpool.Pool, phoneNormalizer phone.Normalizer) *Repository {
	return &Repository{pool: pool, phone: phoneNormalizer}
}

func parseLeadID(id, op string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, notFound(id, op)
	}
	return parsed, nil
}

func notFound(id, op string) error {
	return apperr.Wrap(apperr.KindNotFound, "lead not found", ErrNotFound).
		WithOp(op).
		WithDetails(map[string]string{"leadId": id})
}
