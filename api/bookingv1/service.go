package bookingv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "booking.v1.BookingService"

const (
	Login_FullMethodName                    = "/booking.v1.BookingService/Login"
	RegisterCustomer_FullMethodName         = "/booking.v1.BookingService/RegisterCustomer"
	RegisterBusiness_FullMethodName         = "/booking.v1.BookingService/RegisterBusiness"
	CreateAppointment_FullMethodName        = "/booking.v1.BookingService/CreateAppointment"
	UpdateAppointment_FullMethodName        = "/booking.v1.BookingService/UpdateAppointment"
	GetAppointment_FullMethodName           = "/booking.v1.BookingService/GetAppointment"
	ListCustomerAppointments_FullMethodName = "/booking.v1.BookingService/ListCustomerAppointments"
	ListBusinessAppointments_FullMethodName = "/booking.v1.BookingService/ListBusinessAppointments"
	ListAllAppointments_FullMethodName      = "/booking.v1.BookingService/ListAllAppointments"
	GetAvailability_FullMethodName          = "/booking.v1.BookingService/GetAvailability"
)

type BookingServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RegisterCustomer(context.Context, *RegisterCustomerRequest) (*RegisterResponse, error)
	RegisterBusiness(context.Context, *RegisterBusinessRequest) (*RegisterResponse, error)
	CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error)
	UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*UpdateAppointmentResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error)
	ListCustomerAppointments(context.Context, *ListCustomerAppointmentsRequest) (*ListAppointmentsResponse, error)
	ListBusinessAppointments(context.Context, *ListBusinessAppointmentsRequest) (*ListAppointmentsResponse, error)
	ListAllAppointments(context.Context, *ListAllAppointmentsRequest) (*ListAppointmentsResponse, error)
	GetAvailability(context.Context, *GetAvailabilityRequest) (*GetAvailabilityResponse, error)
	mustEmbedUnimplementedBookingServiceServer()
}

// UnimplementedBookingServiceServer must be embedded by implementations.
type UnimplementedBookingServiceServer struct{}

func (UnimplementedBookingServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedBookingServiceServer) RegisterCustomer(context.Context, *RegisterCustomerRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterCustomer not implemented")
}
func (UnimplementedBookingServiceServer) RegisterBusiness(context.Context, *RegisterBusinessRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RegisterBusiness not implemented")
}
func (UnimplementedBookingServiceServer) CreateAppointment(context.Context, *CreateAppointmentRequest) (*CreateAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateAppointment not implemented")
}
func (UnimplementedBookingServiceServer) UpdateAppointment(context.Context, *UpdateAppointmentRequest) (*UpdateAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateAppointment not implemented")
}
func (UnimplementedBookingServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*GetAppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}
func (UnimplementedBookingServiceServer) ListCustomerAppointments(context.Context, *ListCustomerAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListCustomerAppointments not implemented")
}
func (UnimplementedBookingServiceServer) ListBusinessAppointments(context.Context, *ListBusinessAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListBusinessAppointments not implemented")
}
func (UnimplementedBookingServiceServer) ListAllAppointments(context.Context, *ListAllAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAllAppointments not implemented")
}
func (UnimplementedBookingServiceServer) GetAvailability(context.Context, *GetAvailabilityRequest) (*GetAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAvailability not implemented")
}
func (UnimplementedBookingServiceServer) mustEmbedUnimplementedBookingServiceServer() {}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingService_ServiceDesc, srv)
}

var BookingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", BookingServiceServer.Login),
		unary("RegisterCustomer", BookingServiceServer.RegisterCustomer),
		unary("RegisterBusiness", BookingServiceServer.RegisterBusiness),
		unary("CreateAppointment", BookingServiceServer.CreateAppointment),
		unary("UpdateAppointment", BookingServiceServer.UpdateAppointment),
		unary("GetAppointment", BookingServiceServer.GetAppointment),
		unary("ListCustomerAppointments", BookingServiceServer.ListCustomerAppointments),
		unary("ListBusinessAppointments", BookingServiceServer.ListBusinessAppointments),
		unary("ListAllAppointments", BookingServiceServer.ListAllAppointments),
		unary("GetAvailability", BookingServiceServer.GetAvailability),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/bookingv1",
}

// unary builds the method handler a generated stub would contain.
func unary[Req, Resp any](name string, call func(BookingServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(BookingServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

type BookingServiceClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RegisterCustomer(ctx context.Context, in *RegisterCustomerRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	RegisterBusiness(ctx context.Context, in *RegisterBusinessRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error)
	UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*UpdateAppointmentResponse, error)
	GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error)
	ListCustomerAppointments(ctx context.Context, in *ListCustomerAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error)
	ListBusinessAppointments(ctx context.Context, in *ListBusinessAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error)
	ListAllAppointments(ctx context.Context, in *ListAllAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error)
	GetAvailability(ctx context.Context, in *GetAvailabilityRequest, opts ...grpc.CallOption) (*GetAvailabilityResponse, error)
}

type bookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) BookingServiceClient {
	return &bookingServiceClient{cc}
}

func (c *bookingServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *bookingServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.invoke(ctx, Login_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) RegisterCustomer(ctx context.Context, in *RegisterCustomerRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, RegisterCustomer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) RegisterBusiness(ctx context.Context, in *RegisterBusinessRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	out := new(RegisterResponse)
	if err := c.invoke(ctx, RegisterBusiness_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) CreateAppointment(ctx context.Context, in *CreateAppointmentRequest, opts ...grpc.CallOption) (*CreateAppointmentResponse, error) {
	out := new(CreateAppointmentResponse)
	if err := c.invoke(ctx, CreateAppointment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) UpdateAppointment(ctx context.Context, in *UpdateAppointmentRequest, opts ...grpc.CallOption) (*UpdateAppointmentResponse, error) {
	out := new(UpdateAppointmentResponse)
	if err := c.invoke(ctx, UpdateAppointment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*GetAppointmentResponse, error) {
	out := new(GetAppointmentResponse)
	if err := c.invoke(ctx, GetAppointment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) ListCustomerAppointments(ctx context.Context, in *ListCustomerAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, ListCustomerAppointments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) ListBusinessAppointments(ctx context.Context, in *ListBusinessAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, ListBusinessAppointments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) ListAllAppointments(ctx context.Context, in *ListAllAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	out := new(ListAppointmentsResponse)
	if err := c.invoke(ctx, ListAllAppointments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookingServiceClient) GetAvailability(ctx context.Context, in *GetAvailabilityRequest, opts ...grpc.CallOption) (*GetAvailabilityResponse, error) {
	out := new(GetAvailabilityResponse)
	if err := c.invoke(ctx, GetAvailability_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
