package authz

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"auth-service/internal/domain/models"
	"auth-service/internal/services/authz"
	userv1 "auth-service/pkg/userv1"
)

type Authz interface {
	ValidateToken(ctx context.Context, token string) (user models.User, found bool, err error)
	UserByID(ctx context.Context, userID string) (models.User, error)
	UsersByIDs(ctx context.Context, userIDs []string) ([]models.User, error)
	CheckPermission(ctx context.Context, userID, action string) (bool, error)
}

type serverAPI struct {
	userv1.UnimplementedUserServiceServer
	authz Authz
}

func Register(gRPC *grpc.Server, authz Authz) {
	userv1.RegisterUserServiceServer(gRPC, &serverAPI{authz: authz})
}

func (s *serverAPI) ValidateToken(
	ctx context.Context,
	req *userv1.ValidateTokenRequest,
) (*userv1.UserInfo, error) {
	if req.GetToken() == "" {
		return nil, status.Error(codes.Unauthenticated, "token is required")
	}

	user, found, err := s.authz.ValidateToken(ctx, req.GetToken())
	if err != nil {
		return nil, toStatus(err)
	}
	if !found {
		return &userv1.UserInfo{}, nil
	}

	return userInfo(user), nil
}

func (s *serverAPI) GetUserById(
	ctx context.Context,
	req *userv1.GetUserByIdRequest,
) (*userv1.UserInfo, error) {
	if req.GetId() == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}

	user, err := s.authz.UserByID(ctx, req.GetId())
	if err != nil {
		return nil, toStatus(err)
	}

	return userInfo(user), nil
}

func (s *serverAPI) GetUsersByIds(
	ctx context.Context,
	req *userv1.GetUsersByIdsRequest,
) (*userv1.UsersResponse, error) {
	users, err := s.authz.UsersByIDs(ctx, req.GetIds())
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &userv1.UsersResponse{Users: make([]*userv1.UserInfo, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, userInfo(u))
	}

	return resp, nil
}

func (s *serverAPI) CheckPermission(
	ctx context.Context,
	req *userv1.CheckPermissionRequest,
) (*userv1.PermissionResponse, error) {
	if req.GetUserId() == "" {
		return nil, status.Error(codes.InvalidArgument, "userId is required")
	}

	if req.GetAction() == "" {
		return nil, status.Error(codes.InvalidArgument, "action is required")
	}

	allowed, err := s.authz.CheckPermission(ctx, req.GetUserId(), req.GetAction())
	if err != nil {
		return nil, toStatus(err)
	}

	return &userv1.PermissionResponse{Allowed: allowed}, nil
}

func userInfo(u models.User) *userv1.UserInfo {
	return &userv1.UserInfo{
		Id:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role.String(),
	}
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, authz.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, "invalid token")
	case errors.Is(err, authz.ErrUserNotFound):
		return status.Error(codes.NotFound, "user not found")
	case errors.Is(err, authz.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "user store unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	default:
		return status.Error(codes.Internal, "internal server error")
	}
}
