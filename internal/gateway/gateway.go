// Package gateway serves the REST/JSON API and forwards every request to
// the gRPC service over a client connection.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
	"appointment-booking-api/internal/grpcweb"
	"appointment-booking-api/internal/middleware"
)

const maxBody = 1 << 20

type Gateway struct {
	conn   *grpc.ClientConn
	cc     grpc.ClientConnInterface
	client bookingv1.BookingServiceClient
	logger *slog.Logger
}

// Dial connects to the gRPC server at addr (e.g. "localhost:50051").
func Dial(addr string, logger *slog.Logger) (*Gateway, error) {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithStatsHandler(otelgrpc.NewClientHandler()),
	)
	if err != nil {
		return nil, fmt.Errorf("gateway dial: %w", err)
	}
	g := New(conn, logger)
	g.conn = conn
	return g, nil
}

// New wraps an existing connection. Close leaves it open.
func New(cc grpc.ClientConnInterface, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{cc: cc, client: bookingv1.NewBookingServiceClient(cc), logger: logger}
}

func (g *Gateway) Close() error {
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}

// Handler builds the full HTTP stack: request id, access log, CORS,
// tracing and the routes. health answers /healthz and /readyz. gRPC-Web
// clients post to /booking.v1.BookingService/<Method>.
func (g *Gateway) Handler(origins []string, health http.Handler) http.Handler {
	router := g.routes()
	if health != nil {
		router.Handler(http.MethodGet, "/healthz", health)
		router.Handler(http.MethodGet, "/readyz", health)
	}
	router.Handler(http.MethodPost, "/"+bookingv1.ServiceName+"/:method", grpcweb.New(g.cc, outgoing, g.logger))

	var h http.Handler = router
	h = otelhttp.NewHandler(h, "gateway")
	h = cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", RequestIDHeader, "X-Grpc-Web", "X-User-Agent"},
		ExposedHeaders: []string{RequestIDHeader, "Grpc-Status", "Grpc-Message"},
		MaxAge:         86400,
	}).Handler(h)
	h = withAccessLog(g.logger)(h)
	return withRequestID(h)
}

func (g *Gateway) routes() *httprouter.Router {
	r := httprouter.New()
	r.POST("/api/auth/login", g.login)
	for _, kind := range []string{"customer", "business", "admin"} {
		r.POST("/api/auth/"+kind+"/login", g.loginAs(kind))
	}
	r.POST("/api/auth/customer/register", g.registerCustomer)
	r.POST("/api/auth/business/register", g.registerBusiness)
	r.POST("/api/appointments/create", g.createAppointment)
	r.PUT("/api/appointments/update/:id", g.updateAppointment)
	r.GET("/api/appointments/view/:id", g.getAppointment)
	r.GET("/api/appointments/customer/:id", g.customerAppointments)
	r.GET("/api/appointments/business/:id", g.businessAppointments)
	r.GET("/api/appointments/all", g.allAppointments)
	r.GET("/api/availability/:businessId", g.availability)

	r.NotFound = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeFailure(w, http.StatusNotFound, "not_found", "route not found")
	})
	return r
}

// outgoing copies the caller's token, request id and address into gRPC
// metadata.
func outgoing(r *http.Request) context.Context {
	md := metadata.MD{}
	if vals := r.Header.Values("Authorization"); len(vals) > 0 {
		md.Set("authorization", vals...)
	}
	if id := requestIDFrom(r.Context()); id != "" {
		md.Set(middleware.RequestIDKey, id)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		md.Set(middleware.ForwardedForKey, host)
	}
	return metadata.NewOutgoingContext(r.Context(), md)
}

type envelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSuccess(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, envelope{Success: false, Code: code, Message: msg})
}

// writeError translates a gRPC status into an HTTP failure.
func writeError(w http.ResponseWriter, err error) {
	st, _ := status.FromError(err)
	httpStatus, code := httpCode(st.Code())
	msg := st.Message()
	if httpStatus == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeFailure(w, httpStatus, code, msg)
}

func httpCode(c codes.Code) (int, string) {
	switch c {
	case codes.InvalidArgument:
		return http.StatusBadRequest, "validation"
	case codes.NotFound:
		return http.StatusNotFound, "not_found"
	case codes.AlreadyExists:
		return http.StatusConflict, "slot_taken"
	case codes.OutOfRange:
		return http.StatusUnprocessableEntity, "out_of_hours"
	case codes.FailedPrecondition:
		return http.StatusConflict, "invalid_transition"
	case codes.Unauthenticated:
		return http.StatusUnauthorized, "unauthenticated"
	case codes.PermissionDenied:
		return http.StatusForbidden, "forbidden"
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests, "rate_limited"
	case codes.Unavailable:
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(v); err != nil {
		writeFailure(w, http.StatusBadRequest, "validation", "invalid JSON body")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, ps httprouter.Params, name string) (int64, bool) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		writeFailure(w, http.StatusBadRequest, "validation", name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func queryID(r *http.Request, key string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer", key)
	}
	return &id, nil
}
