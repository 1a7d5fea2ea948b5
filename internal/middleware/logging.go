package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// RequestIDKey is the metadata key request ids travel under.
const RequestIDKey = "x-request-id"

const requestIDCtx ctxKey = "request_id"

func RequestIDFrom(ctx context.Context) string {
	v, _ := ctx.Value(requestIDCtx).(string)
	return v
}

// RequestID reads the request id from incoming metadata, or makes one,
// and echoes it back in the response header.
func RequestID() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		id := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(RequestIDKey); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDKey, id))
		return next(context.WithValue(ctx, requestIDCtx, id), req)
	}
}

// Logging writes one line per call. It must run after Auth to see the actor.
func Logging(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := next(ctx, req)

		attrs := []any{
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFrom(ctx),
		}
		if a, ok := ActorFrom(ctx); ok {
			attrs = append(attrs, "actor", string(a.Kind), "actor_id", a.ID)
		}
		logger.InfoContext(ctx, "grpc call", attrs...)
		return resp, err
	}
}
