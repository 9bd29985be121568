package parquetproto

import (
	"github.com/columnar-go/parquetwrite"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// WriteMessage drives consumer through one message's fields, in the same
// declaration order SchemaFromDescriptor used to build the schema that
// consumer was constructed over.
func WriteMessage(consumer parquet.RecordConsumer, msg protoreflect.Message) error {
	if err := consumer.Consume(parquet.StartMessage()); err != nil {
		return err
	}
	if err := writeFields(consumer, msg); err != nil {
		return err
	}
	return consumer.Consume(parquet.EndMessage())
}

func writeFields(consumer parquet.RecordConsumer, msg protoreflect.Message) error {
	for idx, fd := range orderedFields(msg.Descriptor()) {
		if err := writeField(consumer, idx, fd, msg); err != nil {
			return err
		}
	}
	return nil
}

// writeField skips the field entirely when absent: the shredder's own
// null-fill, triggered by the enclosing StartField/StartGroup call that
// is still made for the parent, supplies the right definition level for
// everything beneath an unvisited field.
func writeField(consumer parquet.RecordConsumer, idx int, fd protoreflect.FieldDescriptor, msg protoreflect.Message) error {
	switch {
	case fd.IsMap():
		return writeMapField(consumer, idx, fd, msg)
	case fd.IsList():
		return writeListField(consumer, idx, fd, msg)
	default:
		return writeSingularField(consumer, idx, fd, msg)
	}
}

func writeSingularField(consumer parquet.RecordConsumer, idx int, fd protoreflect.FieldDescriptor, msg protoreflect.Message) error {
	if !msg.Has(fd) {
		return nil
	}
	if err := consumer.Consume(parquet.StartField(string(fd.Name()), idx)); err != nil {
		return err
	}
	if isGroupKind(fd) {
		if err := consumer.Consume(parquet.StartGroup()); err != nil {
			return err
		}
		if err := writeFields(consumer, msg.Get(fd).Message()); err != nil {
			return err
		}
		if err := consumer.Consume(parquet.EndGroup()); err != nil {
			return err
		}
	} else if err := consumer.Consume(parquet.AddValue(scalarValue(fd, msg.Get(fd)))); err != nil {
		return err
	}
	return consumer.Consume(parquet.EndField())
}

func writeListField(consumer parquet.RecordConsumer, idx int, fd protoreflect.FieldDescriptor, msg protoreflect.Message) error {
	list := msg.Get(fd).List()
	if list.Len() == 0 {
		return nil
	}
	if err := consumer.Consume(parquet.StartField(string(fd.Name()), idx)); err != nil {
		return err
	}
	group := isGroupKind(fd)
	for i := 0; i < list.Len(); i++ {
		v := list.Get(i)
		if group {
			if err := consumer.Consume(parquet.StartGroup()); err != nil {
				return err
			}
			if err := writeFields(consumer, v.Message()); err != nil {
				return err
			}
			if err := consumer.Consume(parquet.EndGroup()); err != nil {
				return err
			}
		} else if err := consumer.Consume(parquet.AddValue(scalarValue(fd, v))); err != nil {
			return err
		}
	}
	return consumer.Consume(parquet.EndField())
}

func writeMapField(consumer parquet.RecordConsumer, idx int, fd protoreflect.FieldDescriptor, msg protoreflect.Message) error {
	m := msg.Get(fd).Map()
	if m.Len() == 0 {
		return nil
	}
	if err := consumer.Consume(parquet.StartField(string(fd.Name()), idx)); err != nil {
		return err
	}
	keyFd, valFd := fd.MapKey(), fd.MapValue()
	valIsGroup := isGroupKind(valFd)
	var rangeErr error
	m.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		rangeErr = writeMapEntry(consumer, keyFd, valFd, valIsGroup, k, v)
		return rangeErr == nil
	})
	if rangeErr != nil {
		return rangeErr
	}
	return consumer.Consume(parquet.EndField())
}

func writeMapEntry(consumer parquet.RecordConsumer, keyFd, valFd protoreflect.FieldDescriptor, valIsGroup bool, k protoreflect.MapKey, v protoreflect.Value) error {
	if err := consumer.Consume(parquet.StartGroup()); err != nil {
		return err
	}
	if err := consumer.Consume(parquet.StartField("key", 0)); err != nil {
		return err
	}
	if err := consumer.Consume(parquet.AddValue(scalarValue(keyFd, k.Value()))); err != nil {
		return err
	}
	if err := consumer.Consume(parquet.EndField()); err != nil {
		return err
	}
	if err := consumer.Consume(parquet.StartField("value", 1)); err != nil {
		return err
	}
	if valIsGroup {
		if err := consumer.Consume(parquet.StartGroup()); err != nil {
			return err
		}
		if err := writeFields(consumer, v.Message()); err != nil {
			return err
		}
		if err := consumer.Consume(parquet.EndGroup()); err != nil {
			return err
		}
	} else if err := consumer.Consume(parquet.AddValue(scalarValue(valFd, v))); err != nil {
		return err
	}
	if err := consumer.Consume(parquet.EndField()); err != nil {
		return err
	}
	return consumer.Consume(parquet.EndGroup())
}

func scalarValue(fd protoreflect.FieldDescriptor, v protoreflect.Value) parquet.Value {
	switch fd.Kind() {
	case protoreflect.BoolKind:
		return parquet.BooleanValue(v.Bool(), 0, 0)
	case protoreflect.Int32Kind, protoreflect.Sint32Kind, protoreflect.Sfixed32Kind:
		return parquet.Int32Value(int32(v.Int()), 0, 0)
	case protoreflect.Uint32Kind, protoreflect.Fixed32Kind:
		return parquet.Int32Value(int32(v.Uint()), 0, 0)
	case protoreflect.Int64Kind, protoreflect.Sint64Kind, protoreflect.Sfixed64Kind:
		return parquet.Int64Value(v.Int(), 0, 0)
	case protoreflect.Uint64Kind, protoreflect.Fixed64Kind:
		return parquet.Int64Value(int64(v.Uint()), 0, 0)
	case protoreflect.FloatKind:
		return parquet.FloatValue(float32(v.Float()), 0, 0)
	case protoreflect.DoubleKind:
		return parquet.DoubleValue(v.Float(), 0, 0)
	case protoreflect.StringKind:
		return parquet.ByteArrayValue([]byte(v.String()), 0, 0)
	case protoreflect.BytesKind:
		return parquet.ByteArrayValue(v.Bytes(), 0, 0)
	case protoreflect.EnumKind:
		return parquet.Int32Value(int32(v.Enum()), 0, 0)
	default:
		panic("parquetproto: scalarValue called on non-scalar kind " + fd.Kind().String())
	}
}
