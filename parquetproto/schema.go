// Package parquetproto derives a parquet schema from a protobuf message
// descriptor and drives the record-consumer ingestion surface from a live
// protoreflect.Message, without relying on generated Go struct tags.
package parquetproto

import (
	"github.com/columnar-go/parquetwrite"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// SchemaFromDescriptor builds a schema whose root group mirrors md's
// fields in declaration order, recursing into nested messages and
// expanding map fields into the three-level key_value convention.
func SchemaFromDescriptor(md protoreflect.MessageDescriptor) (*parquet.Schema, error) {
	root := groupNodeFromMessage(string(md.Name()), parquet.Required, md)
	return parquet.NewSchema(string(md.Name()), root)
}

func orderedFields(md protoreflect.MessageDescriptor) []protoreflect.FieldDescriptor {
	fds := md.Fields()
	out := make([]protoreflect.FieldDescriptor, fds.Len())
	for i := 0; i < fds.Len(); i++ {
		out[i] = fds.Get(i)
	}
	return out
}

func isGroupKind(fd protoreflect.FieldDescriptor) bool {
	return fd.Kind() == protoreflect.MessageKind || fd.Kind() == protoreflect.GroupKind
}

func groupNodeFromMessage(name string, rep parquet.Repetition, md protoreflect.MessageDescriptor) *parquet.Node {
	fields := orderedFields(md)
	children := make([]*parquet.Node, len(fields))
	for i, fd := range fields {
		children[i] = nodeForField(fd)
	}
	return parquet.NewGroup(name, rep, children...)
}

func nodeForField(fd protoreflect.FieldDescriptor) *parquet.Node {
	name := string(fd.Name())
	switch {
	case fd.IsMap():
		return mapNode(fd, name)
	case fd.IsList():
		return listNode(fd, name)
	default:
		return singularNode(fd, name, repetitionOf(fd))
	}
}

// repetitionOf maps proto2's explicit REQUIRED onto Required and
// everything else (proto2/proto3 singular, proto3 "optional") onto
// Optional: proto3 gives no way to tell a field's zero value apart from
// its absence short of checking HasPresence, so every non-required
// singular field is shredded as nullable.
func repetitionOf(fd protoreflect.FieldDescriptor) parquet.Repetition {
	if fd.Cardinality() == protoreflect.Required {
		return parquet.Required
	}
	return parquet.Optional
}

func singularNode(fd protoreflect.FieldDescriptor, name string, rep parquet.Repetition) *parquet.Node {
	if isGroupKind(fd) {
		return groupNodeFromMessage(name, rep, fd.Message())
	}
	return nodeForScalar(fd, name, rep)
}

func listNode(fd protoreflect.FieldDescriptor, name string) *parquet.Node {
	if isGroupKind(fd) {
		return groupNodeFromMessage(name, parquet.Repeated, fd.Message())
	}
	return nodeForScalar(fd, name, parquet.Repeated)
}

// mapNode expands a map field into parquet's MAP-annotated group wrapping
// a repeated key_value group, the three-level convention parquet-format
// requires for logical maps.
func mapNode(fd protoreflect.FieldDescriptor, name string) *parquet.Node {
	keyFd := fd.MapKey()
	valFd := fd.MapValue()
	keyNode := nodeForScalar(keyFd, "key", parquet.Required)
	var valNode *parquet.Node
	if isGroupKind(valFd) {
		valNode = groupNodeFromMessage("value", parquet.Optional, valFd.Message())
	} else {
		valNode = nodeForScalar(valFd, "value", parquet.Required)
	}
	entry := parquet.NewGroup("key_value", parquet.Repeated, keyNode, valNode)
	return parquet.NewGroupWithLogical(name, parquet.Optional, &parquet.LogicalType{Map: true}, entry)
}

func nodeForScalar(fd protoreflect.FieldDescriptor, name string, rep parquet.Repetition) *parquet.Node {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return parquet.NewLeaf(name, rep, parquet.Boolean, nil)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return parquet.NewLeaf(name, rep, parquet.Int32, &parquet.LogicalType{Integer: &parquet.IntLogicalType{BitWidth: 32, Signed: true}})
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return parquet.NewLeaf(name, rep, parquet.Int32, &parquet.LogicalType{Integer: &parquet.IntLogicalType{BitWidth: 32, Signed: false}})
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return parquet.NewLeaf(name, rep, parquet.Int64, &parquet.LogicalType{Integer: &parquet.IntLogicalType{BitWidth: 64, Signed: true}})
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return parquet.NewLeaf(name, rep, parquet.Int64, &parquet.LogicalType{Integer: &parquet.IntLogicalType{BitWidth: 64, Signed: false}})
	case protoreflect.FloatKind:
		return parquet.NewLeaf(name, rep, parquet.Float, nil)
	case protoreflect.DoubleKind:
		return parquet.NewLeaf(name, rep, parquet.Double, nil)
	case protoreflect.StringKind:
		return parquet.NewLeaf(name, rep, parquet.ByteArray, &parquet.LogicalType{UTF8: true})
	case protoreflect.BytesKind:
		return parquet.NewLeaf(name, rep, parquet.ByteArray, nil)
	case protoreflect.EnumKind:
		// Stored as the raw wire number; ENUM's logical type applies to a
		// BYTE_ARRAY physical type in parquet-format, not INT32, so no
		// LogicalType annotation is attached here.
		return parquet.NewLeaf(name, rep, parquet.Int32, nil)
	default:
		panic("parquetproto: unsupported scalar kind " + fd.Kind().String())
	}
}
