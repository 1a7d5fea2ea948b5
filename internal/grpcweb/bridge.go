// Package grpcweb lets browsers call the booking service with the
// gRPC-Web protocol over HTTP/1.1. Payloads are the service's JSON
// messages; the bridge only reframes them.
package grpcweb

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	bookingv1 "appointment-booking-api/api/bookingv1"
)

const (
	ContentType = "application/grpc-web+json"

	maxFrame   = 1 << 20
	flagData   = 0x00
	flagTrailr = 0x80
)

// Bridge forwards gRPC-Web requests to a gRPC client connection.
type Bridge struct {
	cc       grpc.ClientConnInterface
	outgoing func(*http.Request) context.Context
	logger   *slog.Logger
}

// New builds a bridge. outgoing derives the call context (and its
// metadata) from the HTTP request.
func New(cc grpc.ClientConnInterface, outgoing func(*http.Request) context.Context, logger *slog.Logger) *Bridge {
	if outgoing == nil {
		outgoing = func(r *http.Request) context.Context { return r.Context() }
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{cc: cc, outgoing: outgoing, logger: logger}
}

func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ct := r.Header.Get("Content-Type")
	if ct != "application/grpc-web" && !strings.HasPrefix(ct, ContentType) {
		http.Error(w, "not grpc-web+json", http.StatusUnsupportedMediaType)
		return
	}
	if !strings.HasPrefix(r.URL.Path, "/"+bookingv1.ServiceName+"/") {
		writeTrailer(w, codes.Unimplemented, "unknown service")
		return
	}

	payload, err := readFrame(http.MaxBytesReader(w, r.Body, maxFrame+5))
	if err != nil {
		writeTrailer(w, codes.InvalidArgument, err.Error())
		return
	}

	// pass the JSON bytes through untouched
	resp := &rawMsg{}
	err = b.cc.Invoke(b.outgoing(r), r.URL.Path, &rawMsg{data: payload}, resp, grpc.ForceCodec(rawCodec{}))
	if err != nil {
		st, _ := status.FromError(err)
		b.logger.Debug("grpc-web call failed", "method", r.URL.Path, "code", st.Code().String())
		writeTrailer(w, st.Code(), st.Message())
		return
	}
	writeReply(w, resp.data)
}

// readFrame reads one uncompressed data frame: 1-byte flag, 4-byte
// big-endian length, message.
func readFrame(r io.Reader) ([]byte, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, errors.New("body too short")
	}
	if hdr[0] != flagData {
		return nil, fmt.Errorf("unsupported frame flag 0x%02x", hdr[0])
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	if n > maxFrame {
		return nil, errors.New("frame too large")
	}
	msg := make([]byte, n)
	if _, err := io.ReadFull(r, msg); err != nil {
		return nil, errors.New("incomplete frame")
	}
	return msg, nil
}

type rawMsg struct{ data []byte }

// rawCodec hands bytes to the transport as-is. It reports the service
// codec's name so the server decodes them as JSON.
type rawCodec struct{}

func (rawCodec) Marshal(v any) ([]byte, error) {
	m, ok := v.(*rawMsg)
	if !ok {
		return nil, fmt.Errorf("grpcweb: unexpected message %T", v)
	}
	return m.data, nil
}

func (rawCodec) Unmarshal(data []byte, v any) error {
	m, ok := v.(*rawMsg)
	if !ok {
		return fmt.Errorf("grpcweb: unexpected message %T", v)
	}
	m.data = append([]byte(nil), data...)
	return nil
}

func (rawCodec) Name() string { return bookingv1.CodecName }

func frame(flag byte, data []byte) []byte {
	f := make([]byte, 5+len(data))
	f[0] = flag
	binary.BigEndian.PutUint32(f[1:5], uint32(len(data)))
	copy(f[5:], data)
	return f
}

func trailer(code codes.Code, msg string) []byte {
	t := fmt.Sprintf("grpc-status:%d\r\n", code)
	if msg != "" {
		t += "grpc-message:" + strings.NewReplacer("\r", " ", "\n", " ").Replace(msg) + "\r\n"
	}
	return frame(flagTrailr, []byte(t))
}

func writeTrailer(w http.ResponseWriter, code codes.Code, msg string) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(trailer(code, msg))
}

func writeReply(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(frame(flagData, data))
	_, _ = w.Write(trailer(codes.OK, ""))
}
