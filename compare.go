package parquet

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Comparator orders two non-null Values of the same column, per the
// rules spec §4.5 assigns per logical/physical type. It must never be
// called with a null Value.
type Comparator func(a, b Value) int

func compareInt32(a, b int32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareUint32(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareFloat32(a, b float32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return +1
	default:
		return 0
	}
}

// signedNumericCompare orders INT32/INT64/FLOAT/DOUBLE (spec §4.5).
// FLOAT/DOUBLE NaN is handled by the caller (statistics excludes NaN
// from min/max entirely rather than ordering it).
func signedNumericCompare(kind Kind) Comparator {
	switch kind {
	case Int32:
		return func(a, b Value) int { return compareInt32(a.int32, b.int32) }
	case Int64:
		return func(a, b Value) int { return compareInt64(a.int64, b.int64) }
	case Float:
		return func(a, b Value) int { return compareFloat32(a.float32, b.float32) }
	case Double:
		return func(a, b Value) int { return compareFloat64(a.float64, b.float64) }
	default:
		panic("parquet: signed numeric comparator not defined for " + kind.String())
	}
}

// unsignedNumericCompare orders columns annotated with an unsigned INT
// logical type (spec §4.5: "UINT logical types: unsigned numeric").
func unsignedNumericCompare(kind Kind) Comparator {
	switch kind {
	case Int32:
		return func(a, b Value) int { return compareUint32(uint32(a.int32), uint32(b.int32)) }
	case Int64:
		return func(a, b Value) int { return compareUint64(uint64(a.int64), uint64(b.int64)) }
	default:
		panic("parquet: unsigned numeric comparator not defined for " + kind.String())
	}
}

// unsignedLexicographic orders BYTE_ARRAY/FIXED_LEN_BYTE_ARRAY (and UTF8,
// which compares on raw bytes, not code points) by unsigned byte value
// (spec §4.5).
func unsignedLexicographic(a, b Value) int {
	return bytes.Compare(a.bytes, b.bytes)
}

// signedDecimalCompare orders DECIMAL-annotated columns by their
// underlying physical representation interpreted as a signed two's
// complement integer (spec §4.5).
func signedDecimalCompare(kind Kind) Comparator {
	switch kind {
	case Int32:
		return func(a, b Value) int { return compareInt32(a.int32, b.int32) }
	case Int64:
		return func(a, b Value) int { return compareInt64(a.int64, b.int64) }
	default:
		// BYTE_ARRAY / FIXED_LEN_BYTE_ARRAY: compare as big-endian signed
		// integers of possibly differing width, sign-extending the
		// shorter operand so width never changes the comparison.
		return func(a, b Value) int { return compareSignedBigEndian(a.bytes, b.bytes) }
	}
}

func compareSignedBigEndian(a, b []byte) int {
	an, bn := len(a), len(b)
	aNeg := an > 0 && a[0]&0x80 != 0
	bNeg := bn > 0 && b[0]&0x80 != 0
	if aNeg != bNeg {
		if aNeg {
			return -1
		}
		return +1
	}
	if an != bn {
		// Pad the shorter slice with its sign-extension byte so the
		// magnitude comparison below is width-independent.
		pad := byte(0x00)
		if aNeg {
			pad = 0xff
		}
		if an < bn {
			a = append(bytes.Repeat([]byte{pad}, bn-an), a...)
		} else {
			b = append(bytes.Repeat([]byte{pad}, an-bn), b...)
		}
	}
	return bytes.Compare(a, b)
}

// isNaN reports whether v (assumed FLOAT or DOUBLE) holds a NaN payload,
// which statistics must exclude from min/max entirely (spec §4.5).
func isNaN(v Value) bool {
	switch v.kind {
	case Float:
		return math.IsNaN(float64(v.float32))
	case Double:
		return math.IsNaN(v.float64)
	default:
		return false
	}
}

// comparatorFor selects the ordering spec §4.5 assigns to a column,
// based on its physical Kind and optional LogicalType annotation.
func comparatorFor(col *ColumnDescriptor) Comparator {
	lt := col.Node.Logical()
	kind := col.Node.Kind()
	switch {
	case lt != nil && lt.Decimal != nil:
		return signedDecimalCompare(kind)
	case lt != nil && lt.Integer != nil && !lt.Integer.Signed:
		return unsignedNumericCompare(kind)
	case kind == ByteArray || kind == FixedLenByteArray:
		return unsignedLexicographic
	case kind == Int96:
		return func(a, b Value) int { return compareInt64(int96ToMillis(a.int96), int96ToMillis(b.int96)) }
	case kind == Boolean:
		return func(a, b Value) int {
			switch {
			case a.boolean == b.boolean:
				return 0
			case b.boolean:
				return -1
			default:
				return +1
			}
		}
	default:
		return signedNumericCompare(kind)
	}
}

// int96ToMillis converts a deprecated INT96 timestamp (nanosecond-of-day
// + Julian day, both little-endian, spec GLOSSARY note on INT96 stats)
// to Unix millis, used only by comparatorFor's INT96 ordering.
func int96ToMillis(v [12]byte) int64 {
	nanos := int64(binary.LittleEndian.Uint64(v[0:8]))
	julianDay := int64(binary.LittleEndian.Uint32(v[8:12]))
	const julianEpoch = 2440588 // Julian day number of 1970-01-01
	days := julianDay - julianEpoch
	return days*86400000 + nanos/1_000_000
}
