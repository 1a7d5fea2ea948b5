package middleware

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/auth"
	"appointment-booking-api/internal/model"
)

type ctxKey string

const ActorKey ctxKey = "actor"

// skip auth for these
var open = map[string]bool{
	bookingv1.Login_FullMethodName:            true,
	bookingv1.RegisterCustomer_FullMethodName: true,
	bookingv1.RegisterBusiness_FullMethodName: true,
}

// ActorFrom returns the authenticated caller stored by Auth.
func ActorFrom(ctx context.Context) (model.Actor, bool) {
	a, ok := ctx.Value(ActorKey).(model.Actor)
	return a, ok
}

func WithActor(ctx context.Context, a model.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, a)
}

func Auth(secret string) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if open[info.FullMethod] {
			return next(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}

		// token from Authorization: Bearer <jwt>
		raw := ""
		if vals := md.Get("authorization"); len(vals) > 0 {
			raw = strings.TrimSpace(strings.TrimPrefix(vals[0], "Bearer "))
		}
		if raw == "" {
			return nil, status.Error(codes.Unauthenticated, "no token")
		}

		claims, err := auth.ParseToken(raw, secret)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "bad token")
		}

		return next(WithActor(ctx, claims.Actor()), req)
	}
}
