package handler

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/booking"
	"appointment-booking-api/internal/model"
)

const minPasswordLen = 6

func (h *Handler) RegisterCustomer(ctx context.Context, req *bookingv1.RegisterCustomerRequest) (*bookingv1.RegisterResponse, error) {
	email := normalizeEmail(req.Email)
	if strings.TrimSpace(req.Name) == "" || email == "" || strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "name, email, phone and password required")
	}
	if err := checkAccount(email, req.Password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	c := &model.Customer{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hash,
	}
	if err := h.users.CreateCustomer(ctx, c); err != nil {
		return nil, h.registrationErr(ctx, err)
	}
	return h.issue(model.Actor{Kind: model.ActorCustomer, ID: c.ID}, c.Name)
}

func (h *Handler) RegisterBusiness(ctx context.Context, req *bookingv1.RegisterBusinessRequest) (*bookingv1.RegisterResponse, error) {
	email := normalizeEmail(req.Email)
	if strings.TrimSpace(req.BusinessName) == "" || strings.TrimSpace(req.OwnerName) == "" ||
		email == "" || strings.TrimSpace(req.Phone) == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "business_name, owner_name, email, phone and password required")
	}
	if err := checkAccount(email, req.Password); err != nil {
		return nil, err
	}
	open, shut, err := businessHours(req.OpeningTime, req.ClosingTime)
	if err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	b := &model.Business{
		Name:         strings.TrimSpace(req.BusinessName),
		OwnerName:    strings.TrimSpace(req.OwnerName),
		Email:        email,
		Phone:        strings.TrimSpace(req.Phone),
		OpeningTime:  open,
		ClosingTime:  shut,
		PasswordHash: hash,
	}
	if err := h.users.CreateBusiness(ctx, b); err != nil {
		return nil, h.registrationErr(ctx, err)
	}
	return h.issue(model.Actor{Kind: model.ActorBusiness, ID: b.ID}, b.Name)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func checkAccount(email, password string) error {
	if at := strings.IndexByte(email, '@'); at < 1 || at == len(email)-1 {
		return status.Error(codes.InvalidArgument, "invalid email")
	}
	if len(password) < minPasswordLen {
		return status.Error(codes.InvalidArgument, "password too short")
	}
	return nil
}

// businessHours parses optional opening and closing times.
func businessHours(opening, closing string) (model.Clock, model.Clock, error) {
	open, shut := model.NewClock(9, 0, 0), model.NewClock(18, 0, 0)
	var err error
	if opening != "" {
		if open, err = model.ParseClock(opening); err != nil {
			return 0, 0, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if closing != "" {
		if shut, err = model.ParseBound(closing); err != nil {
			return 0, 0, status.Error(codes.InvalidArgument, err.Error())
		}
	}
	if open >= shut {
		return 0, 0, status.Error(codes.InvalidArgument, "opening_time must be before closing_time")
	}
	return open, shut, nil
}

// registrationErr keeps duplicate emails indistinguishable from other
// rejected registrations.
func (h *Handler) registrationErr(ctx context.Context, err error) error {
	if errors.Is(err, model.ErrEmailTaken) {
		return status.Error(codes.InvalidArgument, "registration failed")
	}
	h.logger.ErrorContext(ctx, "registration failed", "err", err)
	return status.Error(codes.Internal, "internal error")
}

func (h *Handler) issue(a model.Actor, name string) (*bookingv1.RegisterResponse, error) {
	tok, err := auth.MakeToken(a, h.secret, h.ttl)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &bookingv1.RegisterResponse{Token: tok, UserID: a.ID, UserType: string(a.Kind), Name: name}, nil
}

func (h *Handler) Login(ctx context.Context, req *bookingv1.LoginRequest) (*bookingv1.LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password required")
	}
	kind := model.ActorKind(strings.ToLower(req.UserType))
	if kind == "" {
		kind = model.ActorCustomer
	}
	if !kind.Valid() {
		return nil, status.Error(codes.InvalidArgument, "user_type must be customer, business or admin")
	}

	cred, err := h.users.Credentials(ctx, kind, req.Email)
	if errors.Is(err, booking.ErrNotFound) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}
	if err != nil {
		h.logger.ErrorContext(ctx, "credentials lookup failed", "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	if !auth.CheckPassword(cred.PasswordHash, req.Password) {
		return nil, status.Error(codes.Unauthenticated, "invalid credentials")
	}

	tok, err := auth.MakeToken(cred.Actor, h.secret, h.ttl)
	if err != nil {
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &bookingv1.LoginResponse{
		Token:    tok,
		UserID:   cred.Actor.ID,
		UserType: string(cred.Actor.Kind),
		Name:     cred.Name,
	}, nil
}
