package parquet

import (
	"strings"

	"github.com/columnar-go/parquetwrite/format"
)

// Schema wraps a validated root group node and the derived, pre-order
// leaf column descriptors (spec §3: "the descriptor's ordering is the
// pre-order traversal of leaves").
type Schema struct {
	root    *Node
	columns []*ColumnDescriptor
}

// NewSchema validates root and derives its column descriptors.
func NewSchema(name string, root *Node) (*Schema, error) {
	if !root.isGroup {
		root = NewGroup(name, Required, root)
	} else {
		root.name = name
	}
	if err := root.validate(); err != nil {
		return nil, err
	}
	s := &Schema{root: root}
	s.deriveColumns()
	return s, nil
}

// MustSchema is NewSchema but panics on error, for static schema
// construction at package init time.
func MustSchema(name string, root *Node) *Schema {
	s, err := NewSchema(name, root)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schema) Root() *Node                      { return s.root }
func (s *Schema) Columns() []*ColumnDescriptor      { return s.columns }
func (s *Schema) NumColumns() int                   { return len(s.columns) }
func (s *Schema) Column(i int) *ColumnDescriptor    { return s.columns[i] }

// ColumnDescriptor is the per-leaf derived metadata spec §3 defines:
// dotted path, primitive type, and max repetition/definition level.
type ColumnDescriptor struct {
	Index              int
	Path               []string
	Node               *Node
	MaxRepetitionLevel int
	MaxDefinitionLevel int
}

func (c *ColumnDescriptor) PathString() string { return strings.Join(c.Path, ".") }

func (s *Schema) deriveColumns() {
	var path []string
	var walk func(n *Node, maxRep, maxDef int)
	walk = func(n *Node, maxRep, maxDef int) {
		switch n.repetition {
		case Repeated:
			maxRep++
			maxDef++
		case Optional:
			maxDef++
		}
		if n.isGroup {
			for _, c := range n.children {
				path = append(path, c.name)
				walk(c, maxRep, maxDef)
				path = path[:len(path)-1]
			}
			return
		}
		col := &ColumnDescriptor{
			Index:              len(s.columns),
			Path:               append([]string(nil), path...),
			Node:               n,
			MaxRepetitionLevel: maxRep,
			MaxDefinitionLevel: maxDef,
		}
		s.columns = append(s.columns, col)
	}
	for _, c := range s.root.children {
		path = append(path[:0], c.name)
		walk(c, 0, 0)
	}
}

// schemaElements flattens the tree into the pre-order SchemaElement list
// the footer's FileMetaData.Schema field carries (spec §6).
func (s *Schema) schemaElements() []format.SchemaElement {
	var out []format.SchemaElement
	var walk func(n *Node, root bool)
	walk = func(n *Node, root bool) {
		el := format.SchemaElement{Name: n.name}
		if !root {
			rt := n.repetition.format()
			el.RepetitionType = &rt
		}
		if n.isGroup {
			numChildren := int32(len(n.children))
			el.NumChildren = &numChildren
			if n.logical != nil {
				el.LogicalType = n.logical.format()
				switch {
				case n.logical.Map:
					ct := format.ConvertedMap
					el.ConvertedType = &ct
				case n.logical.List:
					ct := format.ConvertedList
					el.ConvertedType = &ct
				}
			}
		} else {
			typ := n.kind.format()
			el.Type = &typ
			if n.kind == FixedLenByteArray {
				length := int32(n.length)
				el.TypeLength = &length
			}
			if n.logical != nil {
				el.LogicalType = n.logical.format()
				if ct, ok := convertedTypeOf(n.logical); ok {
					el.ConvertedType = &ct
				}
				if n.logical.Decimal != nil {
					scale := int32(n.logical.Decimal.Scale)
					precision := int32(n.logical.Decimal.Precision)
					el.Scale = &scale
					el.Precision = &precision
				}
			}
		}
		out = append(out, el)
		for _, c := range n.children {
			walk(c, false)
		}
	}
	walk(s.root, true)
	return out
}

func convertedTypeOf(lt *LogicalType) (format.ConvertedType, bool) {
	switch {
	case lt.UTF8:
		return format.ConvertedUTF8, true
	case lt.Decimal != nil:
		return format.ConvertedDecimal, true
	case lt.Date:
		return format.ConvertedDate, true
	case lt.Time != nil:
		if lt.Time.Unit == Millis {
			return format.ConvertedTimeMillis, true
		}
		return format.ConvertedTimeMicros, true
	case lt.Timestamp != nil:
		if lt.Timestamp.Unit == Millis {
			return format.ConvertedTimestampMillis, true
		}
		return format.ConvertedTimestampMicros, true
	case lt.Enum:
		return format.ConvertedEnum, true
	case lt.JSON:
		return format.ConvertedJSON, true
	case lt.Interval:
		return format.ConvertedInterval, true
	case lt.Integer != nil:
		return convertedIntType(lt.Integer), true
	default:
		return 0, false
	}
}

func convertedIntType(it *IntLogicalType) format.ConvertedType {
	switch {
	case it.Signed && it.BitWidth == 8:
		return format.ConvertedInt8
	case it.Signed && it.BitWidth == 16:
		return format.ConvertedInt16
	case it.Signed && it.BitWidth == 32:
		return format.ConvertedInt32
	case it.Signed && it.BitWidth == 64:
		return format.ConvertedInt64
	case !it.Signed && it.BitWidth == 8:
		return format.ConvertedUint8
	case !it.Signed && it.BitWidth == 16:
		return format.ConvertedUint16
	case !it.Signed && it.BitWidth == 32:
		return format.ConvertedUint32
	default:
		return format.ConvertedUint64
	}
}
