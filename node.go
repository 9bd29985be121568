package parquet

import (
	"fmt"

	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/perrors"
)

// LogicalType annotates a leaf with one of the logical types spec §3
// lists (UTF8, DECIMAL, DATE, TIME_*, TIMESTAMP_*, INTERVAL, ENUM, UUID,
// MAP, LIST); nil means the leaf carries no logical annotation.
type LogicalType struct {
	UTF8      bool
	Decimal   *DecimalType
	Date      bool
	Time      *TimeType
	Timestamp *TimeType
	Interval  bool
	Enum      bool
	UUID      bool
	JSON      bool
	Integer   *IntLogicalType
	// Map and List mark group nodes, not leaves; a group carrying one of
	// these is a logical MAP/LIST rather than a plain struct.
	Map  bool
	List bool
}

type DecimalType struct {
	Scale     int
	Precision int
}

// IntLogicalType annotates an INT32/INT64 leaf with the INT(bitWidth,
// isSigned) logical type (spec §4.5 distinguishes its unsigned variants
// for the statistics comparator).
type IntLogicalType struct {
	BitWidth int
	Signed   bool
}

type TimeUnit int8

const (
	Millis TimeUnit = iota
	Micros
	Nanos
)

type TimeType struct {
	IsAdjustedToUTC bool
	Unit            TimeUnit
}

func (lt *LogicalType) format() *format.LogicalType {
	if lt == nil {
		return nil
	}
	out := &format.LogicalType{}
	switch {
	case lt.UTF8:
		out.UTF8 = &struct{}{}
	case lt.Decimal != nil:
		out.Decimal = &format.DecimalType{
			Scale:     int32(lt.Decimal.Scale),
			Precision: int32(lt.Decimal.Precision),
		}
	case lt.Date:
		out.Date = &struct{}{}
	case lt.Time != nil:
		out.Time = &format.TimeType{
			IsAdjustedToUTC: lt.Time.IsAdjustedToUTC,
			Unit:            lt.Time.Unit.format(),
		}
	case lt.Timestamp != nil:
		out.Timestamp = &format.TimestampType{
			IsAdjustedToUTC: lt.Timestamp.IsAdjustedToUTC,
			Unit:            lt.Timestamp.Unit.format(),
		}
	case lt.Interval:
		// INTERVAL has no dedicated LogicalType entry in the Thrift IDL;
		// it is represented purely via ConvertedType on the SchemaElement.
		return nil
	case lt.Enum:
		out.Enum = &struct{}{}
	case lt.UUID:
		out.UUID = &struct{}{}
	case lt.JSON:
		out.JSON = &struct{}{}
	case lt.Map:
		out.Map = &struct{}{}
	case lt.List:
		out.List = &struct{}{}
	case lt.Integer != nil:
		out.Integer = &format.IntType{
			BitWidth: int8(lt.Integer.BitWidth),
			IsSigned: lt.Integer.Signed,
		}
	}
	return out
}

func (u TimeUnit) format() format.TimeUnit {
	switch u {
	case Millis:
		return format.TimeUnit{Millis: &struct{}{}}
	case Micros:
		return format.TimeUnit{Micros: &struct{}{}}
	default:
		return format.TimeUnit{Nanos: &struct{}{}}
	}
}

// Node is one element of the schema tree (spec §3). Leaves carry a Kind
// and optional LogicalType/length/precision-scale; groups carry an
// ordered, name-unique child list.
type Node struct {
	name       string
	repetition Repetition
	kind       Kind
	isGroup    bool
	length     int // FIXED_LEN_BYTE_ARRAY width
	logical    *LogicalType
	children   []*Node
}

// NewGroup builds a group node (struct, MAP or LIST container) from an
// ordered set of named children; sibling names must be unique.
func NewGroup(name string, repetition Repetition, children ...*Node) *Node {
	seen := make(map[string]bool, len(children))
	for _, c := range children {
		if seen[c.name] {
			panic(fmt.Sprintf("parquet: duplicate child name %q in group %q", c.name, name))
		}
		seen[c.name] = true
	}
	return &Node{name: name, repetition: repetition, isGroup: true, children: children}
}

// NewGroupWithLogical builds a group node annotated with a logical type
// (MAP or LIST; spec §3's three-level map/list convention), otherwise
// identical to NewGroup.
func NewGroupWithLogical(name string, repetition Repetition, logical *LogicalType, children ...*Node) *Node {
	n := NewGroup(name, repetition, children...)
	n.logical = logical
	return n
}

// NewLeaf builds a primitive leaf node.
func NewLeaf(name string, repetition Repetition, kind Kind, logical *LogicalType) *Node {
	if kind == FixedLenByteArray {
		panic("parquet: use NewFixedLenByteArray for FIXED_LEN_BYTE_ARRAY leaves")
	}
	return &Node{name: name, repetition: repetition, kind: kind, logical: logical}
}

// NewFixedLenByteArray builds a FIXED_LEN_BYTE_ARRAY leaf; length must be
// greater than zero (spec §3 invariant).
func NewFixedLenByteArray(name string, repetition Repetition, length int, logical *LogicalType) *Node {
	if length <= 0 {
		panic("parquet: FIXED_LEN_BYTE_ARRAY requires length > 0")
	}
	return &Node{name: name, repetition: repetition, kind: FixedLenByteArray, length: length, logical: logical}
}

// NewUUID builds a UUID-annotated leaf: a 16-byte FIXED_LEN_BYTE_ARRAY
// carrying the UUID logical type (spec §3's logical-type list).
func NewUUID(name string, repetition Repetition) *Node {
	return NewFixedLenByteArray(name, repetition, 16, &LogicalType{UUID: true})
}

// NewDecimal builds a DECIMAL-annotated leaf over Int32, Int64, ByteArray
// or FixedLenByteArray, enforcing 1 ≤ scale ≤ precision (spec §3).
func NewDecimal(name string, repetition Repetition, kind Kind, length, precision, scale int) *Node {
	if scale < 1 || scale > precision {
		panic("parquet: DECIMAL requires 1 <= scale <= precision")
	}
	var n *Node
	if kind == FixedLenByteArray {
		n = NewFixedLenByteArray(name, repetition, length, nil)
	} else {
		n = NewLeaf(name, repetition, kind, nil)
	}
	n.logical = &LogicalType{Decimal: &DecimalType{Scale: scale, Precision: precision}}
	return n
}

func (n *Node) Name() string           { return n.name }
func (n *Node) Repetition() Repetition { return n.repetition }
func (n *Node) IsGroup() bool          { return n.isGroup }
func (n *Node) Kind() Kind             { return n.kind }
func (n *Node) Children() []*Node      { return n.children }
func (n *Node) Logical() *LogicalType  { return n.logical }

func (n *Node) validate() error {
	if n.name == "" {
		return perrors.NewSchemaError(n.name, "non-empty name", "empty name")
	}
	if n.isGroup {
		seen := make(map[string]bool, len(n.children))
		for _, c := range n.children {
			if seen[c.name] {
				return perrors.NewSchemaError(n.name, "unique child names", fmt.Sprintf("duplicate %q", c.name))
			}
			seen[c.name] = true
			if err := c.validate(); err != nil {
				return err
			}
		}
		return nil
	}
	if n.kind == FixedLenByteArray && n.length <= 0 {
		return perrors.NewSchemaError(n.name, "length > 0", "length <= 0")
	}
	if n.logical != nil && n.logical.Decimal != nil {
		d := n.logical.Decimal
		if d.Scale < 1 || d.Scale > d.Precision {
			return perrors.NewSchemaError(n.name, "1 <= scale <= precision", fmt.Sprintf("scale %d precision %d", d.Scale, d.Precision))
		}
	}
	return nil
}
