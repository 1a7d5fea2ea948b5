package middleware

import (
	"context"
	"net"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
	stop    chan struct{}
	once    sync.Once
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
		stop:    make(chan struct{}),
	}
	// cleanup stale entries every minute
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-rl.stop:
				return
			case <-t.C:
				rl.sweep(3 * time.Minute)
			}
		}
	}()
	return rl
}

func (rl *RateLimiter) Close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *RateLimiter) sweep(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, c := range rl.clients {
		if time.Since(c.seen) > idle {
			delete(rl.clients, ip)
		}
	}
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: time.Now()}
	return l
}

// Allow reports whether key may make another request now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.get(key).Allow()
}

// methods that should be rate limited
var limited = map[string]bool{
	bookingv1.Login_FullMethodName:            true,
	bookingv1.RegisterCustomer_FullMethodName: true,
	bookingv1.RegisterBusiness_FullMethodName: true,
}

func RateLimit(rl *RateLimiter) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, next grpc.UnaryHandler) (any, error) {
		if !limited[info.FullMethod] {
			return next(ctx, req)
		}
		if !rl.Allow(clientKey(ctx)) {
			return nil, status.Error(codes.ResourceExhausted, "too many requests")
		}
		return next(ctx, req)
	}
}

// ForwardedForKey carries the HTTP client address when the call arrives
// through the local gateway.
const ForwardedForKey = "x-forwarded-for"

// clientKey is the peer host. Loopback peers are the gateway, so the
// forwarded address is used instead when present.
func clientKey(ctx context.Context) string {
	host := "unknown"
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		host = p.Addr.String()
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if v := md.Get(ForwardedForKey); len(v) > 0 && v[0] != "" {
				return strings.TrimSpace(strings.Split(v[0], ",")[0])
			}
		}
	}
	return host
}
