package parquet

// Value is a tagged-union leaf value plus the repetition/definition level
// it was shredded at (spec §9: "model as tagged variants/interface").
// Exactly one of the typed fields is meaningful, selected by kind; a null
// value (definitionLevel < the column's max) carries no payload.
type Value struct {
	kind              Kind
	isNull            bool
	repetitionLevel   int
	definitionLevel   int
	boolean           bool
	int32             int32
	int64             int64
	int96             [12]byte
	float32           float32
	float64           float64
	bytes             []byte // ByteArray / FixedLenByteArray
}

func NullValue(r, d int) Value {
	return Value{isNull: true, repetitionLevel: r, definitionLevel: d}
}

func BooleanValue(v bool, r, d int) Value {
	return Value{kind: Boolean, boolean: v, repetitionLevel: r, definitionLevel: d}
}

func Int32Value(v int32, r, d int) Value {
	return Value{kind: Int32, int32: v, repetitionLevel: r, definitionLevel: d}
}

func Int64Value(v int64, r, d int) Value {
	return Value{kind: Int64, int64: v, repetitionLevel: r, definitionLevel: d}
}

func Int96Value(v [12]byte, r, d int) Value {
	return Value{kind: Int96, int96: v, repetitionLevel: r, definitionLevel: d}
}

func FloatValue(v float32, r, d int) Value {
	return Value{kind: Float, float32: v, repetitionLevel: r, definitionLevel: d}
}

func DoubleValue(v float64, r, d int) Value {
	return Value{kind: Double, float64: v, repetitionLevel: r, definitionLevel: d}
}

func ByteArrayValue(v []byte, r, d int) Value {
	return Value{kind: ByteArray, bytes: v, repetitionLevel: r, definitionLevel: d}
}

func FixedLenByteArrayValue(v []byte, r, d int) Value {
	return Value{kind: FixedLenByteArray, bytes: v, repetitionLevel: r, definitionLevel: d}
}

// withLevels returns v with its repetition/definition levels replaced,
// used by the shredder once it has computed them for a raw value the
// caller passed to AddValue.
func (v Value) withLevels(r, d int) Value {
	v.repetitionLevel = r
	v.definitionLevel = d
	return v
}

func (v Value) Kind() Kind              { return v.kind }
func (v Value) IsNull() bool            { return v.isNull }
func (v Value) RepetitionLevel() int    { return v.repetitionLevel }
func (v Value) DefinitionLevel() int    { return v.definitionLevel }
func (v Value) Boolean() bool           { return v.boolean }
func (v Value) Int32() int32            { return v.int32 }
func (v Value) Int64() int64            { return v.int64 }
func (v Value) Int96() [12]byte         { return v.int96 }
func (v Value) Float32() float32        { return v.float32 }
func (v Value) Float64() float64        { return v.float64 }
func (v Value) Bytes() []byte           { return v.bytes }
