package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

var credentialQueries = map[model.ActorKind]string{
	model.ActorCustomer: `SELECT id, name, password_hash FROM customers WHERE lower(email) = lower($1)`,
	model.ActorBusiness: `SELECT id, business_name, password_hash FROM businesses WHERE lower(email) = lower($1) AND is_active`,
	model.ActorAdmin:    `SELECT id, name, password_hash FROM admins WHERE lower(email) = lower($1)`,
}

// Credentials looks up a login by actor kind and email.
func (s *Store) Credentials(ctx context.Context, kind model.ActorKind, email string) (model.Credentials, error) {
	q, ok := credentialQueries[kind]
	if !ok {
		return model.Credentials{}, fmt.Errorf("%w: unknown user type %q", booking.ErrValidation, kind)
	}
	c := model.Credentials{Actor: model.Actor{Kind: kind}}
	err := s.pool.QueryRow(ctx, q, email).Scan(&c.Actor.ID, &c.Name, &c.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Credentials{}, fmt.Errorf("%w: %s %s", booking.ErrNotFound, kind, email)
	}
	return c, err
}

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO customers (name, email, phone, password_hash)
		 VALUES ($1,$2,$3,$4) RETURNING id, created_at`,
		c.Name, c.Email, c.Phone, c.PasswordHash,
	).Scan(&c.ID, &c.CreatedAt)
	return emailErr(err)
}

func (s *Store) CreateBusiness(ctx context.Context, b *model.Business) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO businesses (business_name, owner_name, email, phone, password_hash, opening_time, closing_time)
		 VALUES ($1,$2,$3,$4,$5,$6::text::time,$7::text::time) RETURNING id, is_active`,
		b.Name, b.OwnerName, b.Email, b.Phone, b.PasswordHash, b.OpeningTime.String(), b.ClosingTime.String(),
	).Scan(&b.ID, &b.IsActive)
	return emailErr(err)
}

// emailErr maps a hit on an email unique constraint (customers_email_key,
// businesses_email_key) to model.ErrEmailTaken.
func emailErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.HasSuffix(pgErr.ConstraintName, "_email_key") {
		return model.ErrEmailTaken
	}
	return err
}
