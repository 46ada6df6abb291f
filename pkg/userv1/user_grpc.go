package userv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/dynamicpb"
)

const (
	ServiceName = "userservice.UserService"

	UserService_ValidateToken_FullMethodName   = "/userservice.UserService/ValidateToken"
	UserService_GetUserById_FullMethodName     = "/userservice.UserService/GetUserById"
	UserService_GetUsersByIds_FullMethodName   = "/userservice.UserService/GetUsersByIds"
	UserService_CheckPermission_FullMethodName = "/userservice.UserService/CheckPermission"
)

// UserServiceClient is the client API for UserService.
type UserServiceClient interface {
	ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*UserInfo, error)
	GetUserById(ctx context.Context, in *GetUserByIdRequest, opts ...grpc.CallOption) (*UserInfo, error)
	GetUsersByIds(ctx context.Context, in *GetUsersByIdsRequest, opts ...grpc.CallOption) (*UsersResponse, error)
	CheckPermission(ctx context.Context, in *CheckPermissionRequest, opts ...grpc.CallOption) (*PermissionResponse, error)
}

type userServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewUserServiceClient(cc grpc.ClientConnInterface) UserServiceClient {
	return &userServiceClient{cc: cc}
}

func (c *userServiceClient) ValidateToken(ctx context.Context, in *ValidateTokenRequest, opts ...grpc.CallOption) (*UserInfo, error) {
	out := dynamicpb.NewMessage(userInfoDesc)
	if err := c.cc.Invoke(ctx, UserService_ValidateToken_FullMethodName, in.protoMessage(), out, opts...); err != nil {
		return nil, err
	}
	return userInfoFromProto(out), nil
}

func (c *userServiceClient) GetUserById(ctx context.Context, in *GetUserByIdRequest, opts ...grpc.CallOption) (*UserInfo, error) {
	out := dynamicpb.NewMessage(userInfoDesc)
	if err := c.cc.Invoke(ctx, UserService_GetUserById_FullMethodName, in.protoMessage(), out, opts...); err != nil {
		return nil, err
	}
	return userInfoFromProto(out), nil
}

func (c *userServiceClient) GetUsersByIds(ctx context.Context, in *GetUsersByIdsRequest, opts ...grpc.CallOption) (*UsersResponse, error) {
	out := dynamicpb.NewMessage(usersResponseDesc)
	if err := c.cc.Invoke(ctx, UserService_GetUsersByIds_FullMethodName, in.protoMessage(), out, opts...); err != nil {
		return nil, err
	}
	return usersResponseFromProto(out), nil
}

func (c *userServiceClient) CheckPermission(ctx context.Context, in *CheckPermissionRequest, opts ...grpc.CallOption) (*PermissionResponse, error) {
	out := dynamicpb.NewMessage(permissionResponseDesc)
	if err := c.cc.Invoke(ctx, UserService_CheckPermission_FullMethodName, in.protoMessage(), out, opts...); err != nil {
		return nil, err
	}
	return permissionResponseFromProto(out), nil
}

// UserServiceServer is the server API for UserService.
type UserServiceServer interface {
	ValidateToken(context.Context, *ValidateTokenRequest) (*UserInfo, error)
	GetUserById(context.Context, *GetUserByIdRequest) (*UserInfo, error)
	GetUsersByIds(context.Context, *GetUsersByIdsRequest) (*UsersResponse, error)
	CheckPermission(context.Context, *CheckPermissionRequest) (*PermissionResponse, error)
}

// UnimplementedUserServiceServer can be embedded to have forward compatible implementations.
type UnimplementedUserServiceServer struct{}

func (UnimplementedUserServiceServer) ValidateToken(context.Context, *ValidateTokenRequest) (*UserInfo, error) {
	return nil, status.Error(codes.Unimplemented, "method ValidateToken not implemented")
}

func (UnimplementedUserServiceServer) GetUserById(context.Context, *GetUserByIdRequest) (*UserInfo, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUserById not implemented")
}

func (UnimplementedUserServiceServer) GetUsersByIds(context.Context, *GetUsersByIdsRequest) (*UsersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUsersByIds not implemented")
}

func (UnimplementedUserServiceServer) CheckPermission(context.Context, *CheckPermissionRequest) (*PermissionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CheckPermission not implemented")
}

// encodeReply turns a handler result into its wire message.
func encodeReply(out any, err error) (any, error) {
	if err != nil {
		return nil, err
	}

	msg, ok := out.(wireMessage)
	if !ok {
		return nil, status.Errorf(codes.Internal, "unexpected reply type %T", out)
	}

	return msg.protoMessage(), nil
}

func RegisterUserServiceServer(s grpc.ServiceRegistrar, srv UserServiceServer) {
	s.RegisterService(&UserService_ServiceDesc, srv)
}

func _UserService_ValidateToken_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	wire := dynamicpb.NewMessage(validateTokenRequestDesc)
	if err := dec(wire); err != nil {
		return nil, err
	}
	in := validateTokenRequestFromProto(wire)
	if interceptor == nil {
		return encodeReply(srv.(UserServiceServer).ValidateToken(ctx, in))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: UserService_ValidateToken_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).ValidateToken(ctx, req.(*ValidateTokenRequest))
	}
	return encodeReply(interceptor(ctx, in, info, handler))
}

func _UserService_GetUserById_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	wire := dynamicpb.NewMessage(getUserByIdRequestDesc)
	if err := dec(wire); err != nil {
		return nil, err
	}
	in := getUserByIdRequestFromProto(wire)
	if interceptor == nil {
		return encodeReply(srv.(UserServiceServer).GetUserById(ctx, in))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: UserService_GetUserById_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).GetUserById(ctx, req.(*GetUserByIdRequest))
	}
	return encodeReply(interceptor(ctx, in, info, handler))
}

func _UserService_GetUsersByIds_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	wire := dynamicpb.NewMessage(getUsersByIdsRequestDesc)
	if err := dec(wire); err != nil {
		return nil, err
	}
	in := getUsersByIdsRequestFromProto(wire)
	if interceptor == nil {
		return encodeReply(srv.(UserServiceServer).GetUsersByIds(ctx, in))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: UserService_GetUsersByIds_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).GetUsersByIds(ctx, req.(*GetUsersByIdsRequest))
	}
	return encodeReply(interceptor(ctx, in, info, handler))
}

func _UserService_CheckPermission_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	wire := dynamicpb.NewMessage(checkPermissionRequestDesc)
	if err := dec(wire); err != nil {
		return nil, err
	}
	in := checkPermissionRequestFromProto(wire)
	if interceptor == nil {
		return encodeReply(srv.(UserServiceServer).CheckPermission(ctx, in))
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: UserService_CheckPermission_FullMethodName,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(UserServiceServer).CheckPermission(ctx, req.(*CheckPermissionRequest))
	}
	return encodeReply(interceptor(ctx, in, info, handler))
}

// UserService_ServiceDesc is the grpc.ServiceDesc for UserService.
var UserService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ValidateToken", Handler: _UserService_ValidateToken_Handler},
		{MethodName: "GetUserById", Handler: _UserService_GetUserById_Handler},
		{MethodName: "GetUsersByIds", Handler: _UserService_GetUsersByIds_Handler},
		{MethodName: "CheckPermission", Handler: _UserService_CheckPermission_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "user.proto",
}
