package parquetproto_test

import (
	"bytes"
	"testing"

	"github.com/columnar-go/parquetwrite"
	"github.com/columnar-go/parquetwrite/parquetproto"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/dynamicpb"
)

func label(l descriptorpb.FieldDescriptorProto_Label) *descriptorpb.FieldDescriptorProto_Label { return &l }
func typ(t descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto_Type       { return &t }

func personDescriptor(t *testing.T) protoreflect.MessageDescriptor {
	t.Helper()
	fdProto := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("parquetproto_test.proto"),
		Package: proto.String("parquetprototest"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("Address"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("city"), Number: proto.Int32(1), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_STRING), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)},
				},
			},
			{
				Name: proto.String("Person"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("name"), Number: proto.Int32(1), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_STRING), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)},
					{Name: proto.String("age"), Number: proto.Int32(2), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_INT32), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)},
					{Name: proto.String("tags"), Number: proto.Int32(3), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_STRING), Label: label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED)},
					{Name: proto.String("home"), Number: proto.Int32(4), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL), TypeName: proto.String(".parquetprototest.Address")},
				},
			},
		},
	}
	fd, err := protodesc.NewFile(fdProto, protoregistry.GlobalFiles)
	if err != nil {
		t.Fatalf("protodesc.NewFile: %v", err)
	}
	return fd.Messages().ByName("Person")
}

func TestSchemaFromDescriptorShape(t *testing.T) {
	md := personDescriptor(t)
	schema, err := parquetproto.SchemaFromDescriptor(md)
	if err != nil {
		t.Fatalf("SchemaFromDescriptor: %v", err)
	}
	root := schema.Root()
	if root.Name() != "Person" {
		t.Fatalf("root name = %q, want Person", root.Name())
	}
	children := root.Children()
	if len(children) != 4 {
		t.Fatalf("len(children) = %d, want 4", len(children))
	}
	if children[2].Repetition() != parquet.Repeated {
		t.Fatalf("tags repetition = %v, want Repeated", children[2].Repetition())
	}
	if !children[3].IsGroup() {
		t.Fatalf("home should shred as a group")
	}
}

func TestWriteMessageRoundTripsThroughWriter(t *testing.T) {
	md := personDescriptor(t)
	schema, err := parquetproto.SchemaFromDescriptor(md)
	if err != nil {
		t.Fatalf("SchemaFromDescriptor: %v", err)
	}

	msgType := dynamicpb.NewMessageType(md)
	msg := msgType.New()
	fields := md.Fields()
	msg.Set(fields.ByName("name"), protoreflect.ValueOfString("Ada Lovelace"))
	msg.Set(fields.ByName("age"), protoreflect.ValueOfInt32(36))
	tags := msg.Mutable(fields.ByName("tags")).List()
	tags.Append(protoreflect.ValueOfString("mathematician"))
	tags.Append(protoreflect.ValueOfString("writer"))

	homeMd := fields.ByName("home").Message()
	homeType := dynamicpb.NewMessageType(homeMd)
	home := homeType.New()
	home.Set(homeMd.Fields().ByName("city"), protoreflect.ValueOfString("London"))
	msg.Set(fields.ByName("home"), protoreflect.ValueOfMessage(home))

	var buf bytes.Buffer
	wr, err := parquet.NewWriter(&buf, schema)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := parquetproto.WriteMessage(wr, msg); err != nil {
		t.Fatalf("WriteMessage: %v", err)
	}

	emptyMsg := msgType.New()
	if err := parquetproto.WriteMessage(wr, emptyMsg); err != nil {
		t.Fatalf("WriteMessage (empty): %v", err)
	}

	if err := wr.Close(nil); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty file output")
	}
}

func TestMapFieldExpandsToKeyValueGroup(t *testing.T) {
	fdProto := &descriptorpb.FileDescriptorProto{
		Name:    proto.String("parquetproto_map_test.proto"),
		Package: proto.String("parquetprototest2"),
		Syntax:  proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{
			{
				Name: proto.String("ScoresEntry"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("key"), Number: proto.Int32(1), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_STRING), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)},
					{Name: proto.String("value"), Number: proto.Int32(2), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_INT32), Label: label(descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL)},
				},
				Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
			},
			{
				Name: proto.String("Scoreboard"),
				Field: []*descriptorpb.FieldDescriptorProto{
					{Name: proto.String("scores"), Number: proto.Int32(1), Type: typ(descriptorpb.FieldDescriptorProto_TYPE_MESSAGE), Label: label(descriptorpb.FieldDescriptorProto_LABEL_REPEATED), TypeName: proto.String(".parquetprototest2.ScoresEntry")},
				},
			},
		},
	}
	fd, err := protodesc.NewFile(fdProto, protoregistry.GlobalFiles)
	if err != nil {
		t.Fatalf("protodesc.NewFile: %v", err)
	}
	md := fd.Messages().ByName("Scoreboard")

	schema, err := parquetproto.SchemaFromDescriptor(md)
	if err != nil {
		t.Fatalf("SchemaFromDescriptor: %v", err)
	}
	scores := schema.Root().Children()[0]
	if !scores.IsGroup() || scores.Logical() == nil || !scores.Logical().Map {
		t.Fatalf("scores should be a MAP-annotated group")
	}
	entry := scores.Children()[0]
	if entry.Name() != "key_value" || entry.Repetition() != parquet.Repeated {
		t.Fatalf("expected a repeated key_value group, got %q/%v", entry.Name(), entry.Repetition())
	}
}
