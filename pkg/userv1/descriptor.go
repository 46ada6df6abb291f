package userv1

import (
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
)

// File_user_proto describes user.proto. It is assembled at init and
// registered in protoregistry.GlobalFiles.
var File_user_proto protoreflect.FileDescriptor

var (
	validateTokenRequestDesc   protoreflect.MessageDescriptor
	getUserByIdRequestDesc     protoreflect.MessageDescriptor
	getUsersByIdsRequestDesc   protoreflect.MessageDescriptor
	checkPermissionRequestDesc protoreflect.MessageDescriptor
	userInfoDesc               protoreflect.MessageDescriptor
	usersResponseDesc          protoreflect.MessageDescriptor
	permissionResponseDesc     protoreflect.MessageDescriptor
)

func init() {
	fd, err := protodesc.NewFile(userProtoFile(), protoregistry.GlobalFiles)
	if err != nil {
		panic("userv1: build user.proto descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("userv1: register user.proto: " + err.Error())
	}

	File_user_proto = fd

	msgs := fd.Messages()
	validateTokenRequestDesc = msgs.ByName("ValidateTokenRequest")
	getUserByIdRequestDesc = msgs.ByName("GetUserByIdRequest")
	getUsersByIdsRequestDesc = msgs.ByName("GetUsersByIdsRequest")
	checkPermissionRequestDesc = msgs.ByName("CheckPermissionRequest")
	userInfoDesc = msgs.ByName("UserInfo")
	usersResponseDesc = msgs.ByName("UsersResponse")
	permissionResponseDesc = msgs.ByName("PermissionResponse")
}

// userProtoFile mirrors user.proto in this directory. Field numbers are part
// of the wire contract and must not change.
func userProtoFile() *descriptorpb.FileDescriptorProto {
	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String("user.proto"),
		Package: proto.String("userservice"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			message("ValidateTokenRequest", scalar("token", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			message("GetUserByIdRequest", scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING)),
			message("GetUsersByIdsRequest", repeated(scalar("ids", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING))),
			message("CheckPermissionRequest",
				scalar("userId", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("action", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("UserInfo",
				scalar("id", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("username", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("email", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalar("role", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			),
			message("UsersResponse", repeated(messageField("users", 1, ".userservice.UserInfo"))),
			message("PermissionResponse", scalar("allowed", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL)),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("UserService"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ValidateToken", "ValidateTokenRequest", "UserInfo"),
				method("GetUserById", "GetUserByIdRequest", "UserInfo"),
				method("GetUsersByIds", "GetUsersByIdsRequest", "UsersResponse"),
				method("CheckPermission", "CheckPermissionRequest", "PermissionResponse"),
			},
		}},
	}
}

func message(name string, fields ...*descriptorpb.FieldDescriptorProto) *descriptorpb.DescriptorProto {
	return &descriptorpb.DescriptorProto{
		Name:  proto.String(name),
		Field: fields,
	}
}

func scalar(name string, number int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		JsonName: proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     typ.Enum(),
	}
}

func messageField(name string, number int32, typeName string) *descriptorpb.FieldDescriptorProto {
	f := scalar(name, number, descriptorpb.FieldDescriptorProto_TYPE_MESSAGE)
	f.TypeName = proto.String(typeName)
	return f
}

func repeated(f *descriptorpb.FieldDescriptorProto) *descriptorpb.FieldDescriptorProto {
	f.Label = descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum()
	return f
}

func method(name, input, output string) *descriptorpb.MethodDescriptorProto {
	return &descriptorpb.MethodDescriptorProto{
		Name:       proto.String(name),
		InputType:  proto.String(".userservice." + input),
		OutputType: proto.String(".userservice." + output),
	}
}
