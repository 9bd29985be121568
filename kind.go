package parquet

import "github.com/columnar-go/parquetwrite/format"

// Kind identifies the physical primitive type of a schema leaf, mirroring
// parquet-format's Type enum (spec §3: BOOLEAN, INT32, INT64, INT96,
// FLOAT, DOUBLE, BYTE_ARRAY, FIXED_LEN_BYTE_ARRAY).
type Kind int8

const (
	Boolean Kind = iota
	Int32
	Int64
	Int96
	Float
	Double
	ByteArray
	FixedLenByteArray
)

func (k Kind) String() string {
	switch k {
	case Boolean:
		return "BOOLEAN"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case Int96:
		return "INT96"
	case Float:
		return "FLOAT"
	case Double:
		return "DOUBLE"
	case ByteArray:
		return "BYTE_ARRAY"
	case FixedLenByteArray:
		return "FIXED_LEN_BYTE_ARRAY"
	default:
		return "UNKNOWN"
	}
}

// format reports the on-wire physical type tag for this Kind.
func (k Kind) format() format.Type {
	switch k {
	case Boolean:
		return format.Boolean
	case Int32:
		return format.Int32
	case Int64:
		return format.Int64
	case Int96:
		return format.Int96
	case Float:
		return format.Float
	case Double:
		return format.Double
	case ByteArray:
		return format.ByteArray
	case FixedLenByteArray:
		return format.FixedLenByteArray
	default:
		panic("parquet: invalid Kind")
	}
}

// Repetition identifies whether a schema node is required, optional or
// repeated (spec §3).
type Repetition int8

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "REQUIRED"
	case Optional:
		return "OPTIONAL"
	case Repeated:
		return "REPEATED"
	default:
		return "UNKNOWN"
	}
}

func (r Repetition) format() format.FieldRepetitionType {
	switch r {
	case Required:
		return format.Required
	case Optional:
		return format.Optional
	case Repeated:
		return format.Repeated
	default:
		panic("parquet: invalid Repetition")
	}
}
