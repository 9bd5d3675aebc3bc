package grpcpred

import (
	"fmt"

	"github.com/jhump/protoreflect/v2/protobuilder"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// The wire contract of the remote decision point. Descriptors are built
// programmatically so hosts implement the service from this definition
// without any shared generated code:
//
//	service Authorizer {
//	  rpc Check(CheckRequest) returns (CheckResponse);
//	}
//	message CheckRequest {
//	  string actor       = 1; // JSON-encoded principal
//	  string subject     = 2; // tag of the backing record
//	  string field_key   = 3;
//	  string field_value = 4; // JSON-encoded, "null" when absent
//	  string rule        = 5;
//	}
//	message CheckResponse {
//	  bool allowed = 1;
//	}
const (
	defaultPackage = "authgraph.v1"

	serviceName = "Authorizer"
	methodName  = "Check"
)

// buildCheckMethod constructs the Check method descriptor under the given
// proto package.
func buildCheckMethod(pkg string) (protoreflect.MethodDescriptor, error) {
	fb := protobuilder.NewFile("authgraph/authorizer.proto")
	fb.SetPackageName(protoreflect.FullName(pkg))
	fb.SetSyntax(protoreflect.Proto3)

	req := protobuilder.NewMessage("CheckRequest")
	for i, name := range []protoreflect.Name{"actor", "subject", "field_key", "field_value", "rule"} {
		f := protobuilder.NewField(name, protobuilder.FieldTypeScalar(protoreflect.StringKind))
		f.SetNumber(protoreflect.FieldNumber(i + 1))
		req.AddField(f)
	}

	resp := protobuilder.NewMessage("CheckResponse")
	allowed := protobuilder.NewField("allowed", protobuilder.FieldTypeScalar(protoreflect.BoolKind))
	allowed.SetNumber(1)
	resp.AddField(allowed)

	svc := protobuilder.NewService(serviceName)
	svc.AddMethod(protobuilder.NewMethod(
		methodName,
		protobuilder.RpcTypeMessage(req, false),
		protobuilder.RpcTypeMessage(resp, false),
	))

	fb.AddMessage(req)
	fb.AddMessage(resp)
	fb.AddService(svc)

	fd, err := fb.Build()
	if err != nil {
		return nil, fmt.Errorf("grpcpred: failed to build descriptors: %w", err)
	}
	return fd.Services().ByName(serviceName).Methods().ByName(methodName), nil
}
