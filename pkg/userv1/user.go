// Package userv1 is the wire contract of userservice.UserService: message
// types, the service descriptor, and a typed client. Messages travel as
// plain protobuf described by user.proto, so any gRPC client generated from
// that file can call the service.
package userv1

import (
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// wireMessage is implemented by every message of this package.
type wireMessage interface {
	protoMessage() *dynamicpb.Message
}

type ValidateTokenRequest struct {
	Token string
}

func (r *ValidateTokenRequest) GetToken() string {
	if r == nil {
		return ""
	}
	return r.Token
}

func (r *ValidateTokenRequest) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(validateTokenRequestDesc)
	setString(m, "token", r.GetToken())
	return m
}

func validateTokenRequestFromProto(m protoreflect.Message) *ValidateTokenRequest {
	return &ValidateTokenRequest{Token: getString(m, "token")}
}

type GetUserByIdRequest struct {
	Id string
}

func (r *GetUserByIdRequest) GetId() string {
	if r == nil {
		return ""
	}
	return r.Id
}

func (r *GetUserByIdRequest) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(getUserByIdRequestDesc)
	setString(m, "id", r.GetId())
	return m
}

func getUserByIdRequestFromProto(m protoreflect.Message) *GetUserByIdRequest {
	return &GetUserByIdRequest{Id: getString(m, "id")}
}

type GetUsersByIdsRequest struct {
	Ids []string
}

func (r *GetUsersByIdsRequest) GetIds() []string {
	if r == nil {
		return nil
	}
	return r.Ids
}

func (r *GetUsersByIdsRequest) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(getUsersByIdsRequestDesc)
	ids := r.GetIds()
	if len(ids) == 0 {
		return m
	}

	list := m.Mutable(field(m, "ids")).List()
	for _, id := range ids {
		list.Append(protoreflect.ValueOfString(id))
	}
	return m
}

func getUsersByIdsRequestFromProto(m protoreflect.Message) *GetUsersByIdsRequest {
	list := m.Get(field(m, "ids")).List()
	if list.Len() == 0 {
		return &GetUsersByIdsRequest{}
	}

	ids := make([]string, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		ids = append(ids, list.Get(i).String())
	}
	return &GetUsersByIdsRequest{Ids: ids}
}

type CheckPermissionRequest struct {
	UserId string
	Action string
}

func (r *CheckPermissionRequest) GetUserId() string {
	if r == nil {
		return ""
	}
	return r.UserId
}

func (r *CheckPermissionRequest) GetAction() string {
	if r == nil {
		return ""
	}
	return r.Action
}

func (r *CheckPermissionRequest) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(checkPermissionRequestDesc)
	setString(m, "userId", r.GetUserId())
	setString(m, "action", r.GetAction())
	return m
}

func checkPermissionRequestFromProto(m protoreflect.Message) *CheckPermissionRequest {
	return &CheckPermissionRequest{
		UserId: getString(m, "userId"),
		Action: getString(m, "action"),
	}
}

// UserInfo is the public view of a user. All fields are empty when
// ValidateToken finds no user behind a valid token.
type UserInfo struct {
	Id       string
	Username string
	Email    string
	Role     string
}

func (u *UserInfo) GetId() string {
	if u == nil {
		return ""
	}
	return u.Id
}

func (u *UserInfo) GetUsername() string {
	if u == nil {
		return ""
	}
	return u.Username
}

func (u *UserInfo) GetEmail() string {
	if u == nil {
		return ""
	}
	return u.Email
}

func (u *UserInfo) GetRole() string {
	if u == nil {
		return ""
	}
	return u.Role
}

func (u *UserInfo) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(userInfoDesc)
	u.fill(m)
	return m
}

func (u *UserInfo) fill(m protoreflect.Message) {
	setString(m, "id", u.GetId())
	setString(m, "username", u.GetUsername())
	setString(m, "email", u.GetEmail())
	setString(m, "role", u.GetRole())
}

func userInfoFromProto(m protoreflect.Message) *UserInfo {
	return &UserInfo{
		Id:       getString(m, "id"),
		Username: getString(m, "username"),
		Email:    getString(m, "email"),
		Role:     getString(m, "role"),
	}
}

type UsersResponse struct {
	Users []*UserInfo
}

func (r *UsersResponse) GetUsers() []*UserInfo {
	if r == nil {
		return nil
	}
	return r.Users
}

func (r *UsersResponse) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(usersResponseDesc)
	users := r.GetUsers()
	if len(users) == 0 {
		return m
	}

	list := m.Mutable(field(m, "users")).List()
	for _, u := range users {
		el := list.NewElement()
		u.fill(el.Message())
		list.Append(el)
	}
	return m
}

func usersResponseFromProto(m protoreflect.Message) *UsersResponse {
	list := m.Get(field(m, "users")).List()

	users := make([]*UserInfo, 0, list.Len())
	for i := 0; i < list.Len(); i++ {
		users = append(users, userInfoFromProto(list.Get(i).Message()))
	}
	return &UsersResponse{Users: users}
}

type PermissionResponse struct {
	Allowed bool
}

func (r *PermissionResponse) GetAllowed() bool {
	if r == nil {
		return false
	}
	return r.Allowed
}

func (r *PermissionResponse) protoMessage() *dynamicpb.Message {
	m := dynamicpb.NewMessage(permissionResponseDesc)
	if r.GetAllowed() {
		m.Set(field(m, "allowed"), protoreflect.ValueOfBool(true))
	}
	return m
}

func permissionResponseFromProto(m protoreflect.Message) *PermissionResponse {
	return &PermissionResponse{Allowed: m.Get(field(m, "allowed")).Bool()}
}

func field(m protoreflect.Message, name protoreflect.Name) protoreflect.FieldDescriptor {
	return m.Descriptor().Fields().ByName(name)
}

// setString leaves empty strings unset, as proto3 does.
func setString(m protoreflect.Message, name protoreflect.Name, v string) {
	if v == "" {
		return
	}
	m.Set(field(m, name), protoreflect.ValueOfString(v))
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(field(m, name)).String()
}
