package parquet

import "github.com/columnar-go/parquetwrite/perrors"

// columnSink receives one ⟨r,d,v⟩ triple for a leaf column, in the order
// the shredder produces them (spec §4.1).
type columnSink interface {
	writeValue(col int, v Value) error
}

// fieldFrame is one entry of the shredder's open-field stack: the field
// currently being visited, between its StartField and EndField calls.
type fieldFrame struct {
	node *Node
	// callCount is the number of StartGroup/AddValue calls seen directly
	// within this field's bracket so far; for a REPEATED field this is
	// also its element count.
	callCount int
	// resolvedDef is the definition level achieved once this field is
	// known to be present: certain immediately for OPTIONAL/REQUIRED,
	// but only a floor (the parent's level) for REPEATED until its first
	// element arrives, at which point it is bumped by one and
	// re-propagated.
	resolvedDef int
	// occurrenceIsFirst says whether the most recent StartGroup/AddValue
	// call on this frame was this field's first element.
	occurrenceIsFirst bool
}

// Shredder implements RecordConsumer, turning a stream of RecordEvents
// for one schema into per-column ⟨r,d,v⟩ triples (spec §4.1: "the classic
// Dremel shredding algorithm, generalized to the library's own Node
// tree"). A Shredder is not safe for concurrent use; one is created per
// writer and reused across records.
type Shredder struct {
	schema    *Schema
	colByNode map[*Node]int
	sink      columnSink

	stack     []*fieldFrame
	written   []bool
	openedDef []int
	inMessage bool
}

// NewShredder builds a Shredder over schema, delivering triples to sink.
func NewShredder(schema *Schema, sink columnSink) *Shredder {
	colByNode := make(map[*Node]int, schema.NumColumns())
	for _, c := range schema.Columns() {
		colByNode[c.Node] = c.Index
	}
	return &Shredder{
		schema:    schema,
		colByNode: colByNode,
		sink:      sink,
		written:   make([]bool, schema.NumColumns()),
		openedDef: make([]int, schema.NumColumns()),
	}
}

// Consume implements RecordConsumer.
func (s *Shredder) Consume(ev RecordEvent) error {
	switch ev.Kind {
	case EvStartMessage:
		return s.startMessage()
	case EvStartField:
		return s.startField(ev.FieldName, ev.FieldIndex)
	case EvEndField:
		return s.endField()
	case EvStartGroup:
		return s.startGroup()
	case EvEndGroup:
		return nil // no frame to pop: the field frame persists until EndField
	case EvAddValue:
		return s.addValue(ev.Value)
	case EvEndMessage:
		return s.endMessage()
	default:
		return perrors.ErrInternal
	}
}

func (s *Shredder) startMessage() error {
	if s.inMessage {
		return perrors.NewStateError("StartMessage", "message already open")
	}
	s.inMessage = true
	s.stack = s.stack[:0]
	for i := range s.written {
		s.written[i] = false
		s.openedDef[i] = 0
	}
	return nil
}

func (s *Shredder) parentNode() *Node {
	if len(s.stack) == 0 {
		return s.schema.Root()
	}
	return s.stack[len(s.stack)-1].node
}

func (s *Shredder) parentDef() int {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1].resolvedDef
}

func (s *Shredder) startField(name string, idx int) error {
	parent := s.parentNode()
	if !parent.isGroup {
		return perrors.NewStateError("StartField", "current field is a leaf")
	}
	children := parent.Children()
	if idx < 0 || idx >= len(children) || children[idx].Name() != name {
		return perrors.NewSchemaError(name, "matching schema field at index", "mismatched name/index")
	}
	child := children[idx]
	base := s.parentDef()
	frame := &fieldFrame{node: child}
	switch child.Repetition() {
	case Optional:
		frame.resolvedDef = base + 1
		s.propagate(child, frame.resolvedDef)
	case Required:
		frame.resolvedDef = base
		s.propagate(child, frame.resolvedDef)
	case Repeated:
		frame.resolvedDef = base // floor; bumped on first element
		s.propagate(child, frame.resolvedDef)
	}
	s.stack = append(s.stack, frame)
	return nil
}

func (s *Shredder) endField() error {
	if len(s.stack) == 0 {
		return perrors.NewStateError("EndField", "no open field")
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// startGroup marks one element of the field on top of the stack (the
// only element, for a non-repeated group field).
func (s *Shredder) startGroup() error {
	if len(s.stack) == 0 {
		return perrors.NewStateError("StartGroup", "no open field")
	}
	top := s.stack[len(s.stack)-1]
	if !top.node.IsGroup() {
		return perrors.NewStateError("StartGroup", "current field is a leaf")
	}
	top.callCount++
	top.occurrenceIsFirst = top.callCount == 1
	if top.node.Repetition() == Repeated && top.occurrenceIsFirst {
		top.resolvedDef++
		s.propagate(top.node, top.resolvedDef)
	}
	return nil
}

// propagate fills in the "if this leaf never gets its own value, here is
// the definition level it should default to" floor for every as-yet
// unwritten leaf reachable from node, given that node itself is entered
// at definition level def (spec §4.1 null-fill rule).
func (s *Shredder) propagate(node *Node, def int) {
	if !node.IsGroup() {
		col, ok := s.colByNode[node]
		if !ok {
			return
		}
		if !s.written[col] && def > s.openedDef[col] {
			s.openedDef[col] = def
		}
		return
	}
	for _, c := range node.Children() {
		cd := def
		if c.Repetition() == Optional {
			cd++
		}
		s.propagate(c, cd)
	}
}

func (s *Shredder) addValue(v Value) error {
	if len(s.stack) == 0 {
		return perrors.NewStateError("AddValue", "no open field")
	}
	top := s.stack[len(s.stack)-1]
	if top.node.IsGroup() {
		return perrors.NewStateError("AddValue", "current field is a group")
	}
	top.callCount++
	top.occurrenceIsFirst = top.callCount == 1
	if top.node.Repetition() == Repeated && top.occurrenceIsFirst {
		top.resolvedDef++
	}
	col := s.colByNode[top.node]

	r := 0
	stoppedR := false
	for _, f := range s.stack {
		if f.node.Repetition() != Repeated {
			continue
		}
		if !stoppedR {
			if f.occurrenceIsFirst {
				stoppedR = true
			} else {
				r++
			}
		}
	}
	d := top.resolvedDef

	s.written[col] = true
	if err := s.sink.writeValue(col, v.withLevels(r, d)); err != nil {
		return err
	}
	return nil
}

func (s *Shredder) endMessage() error {
	if !s.inMessage {
		return perrors.NewStateError("EndMessage", "no open message")
	}
	if len(s.stack) != 0 {
		return perrors.NewStateError("EndMessage", "fields still open")
	}
	for col := 0; col < len(s.written); col++ {
		if !s.written[col] {
			if err := s.sink.writeValue(col, NullValue(0, s.openedDef[col])); err != nil {
				return err
			}
		}
	}
	s.inMessage = false
	return nil
}
