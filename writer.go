package parquet

import "io"

// Writer is the public write-path entry point: it owns one Schema, one
// FileWriter and the Shredder that turns RecordEvent streams into
// column triples, rotating row groups automatically once
// WriterConfig.RowGroupSizeThreshold is crossed (spec §2, §4.9).
type Writer struct {
	fw       *FileWriter
	schema   *Schema
	cfg      *WriterConfig
	shredder *Shredder
}

// NewWriter opens w for writing records against schema, applying opts
// over DefaultWriterConfig.
func NewWriter(w io.Writer, schema *Schema, opts ...Option) (*Writer, error) {
	cfg := Options(opts).Apply()
	fw := NewFileWriter(w, schema, cfg)
	if err := fw.Start(); err != nil {
		return nil, err
	}
	sink, err := fw.StartRowGroup()
	if err != nil {
		return nil, err
	}
	return &Writer{
		fw:       fw,
		schema:   schema,
		cfg:      cfg,
		shredder: NewShredder(schema, sink),
	}, nil
}

// Schema returns the schema the writer was opened with.
func (wr *Writer) Schema() *Schema { return wr.schema }

// Consume implements RecordConsumer: the caller drives one record's
// worth of events (StartMessage ... EndMessage) through this method,
// either directly or via a higher-level adapter (e.g. parquetproto).
func (wr *Writer) Consume(ev RecordEvent) error {
	if err := wr.shredder.Consume(ev); err != nil {
		return err
	}
	if ev.Kind != EvEndMessage {
		return nil
	}
	if err := wr.fw.EndRecord(); err != nil {
		return err
	}
	return wr.rotateIfNeeded()
}

// rotateIfNeeded opens the next row group and rewires the shredder once
// EndRecord has closed the current one.
func (wr *Writer) rotateIfNeeded() error {
	if wr.fw.state != fwStarted {
		return nil
	}
	sink, err := wr.fw.StartRowGroup()
	if err != nil {
		return err
	}
	wr.shredder.sink = sink
	return nil
}

// WriteRecord consumes a whole record in one call, a convenience over
// Consume for callers that already have the full event slice.
func (wr *Writer) WriteRecord(events []RecordEvent) error {
	for _, ev := range events {
		if err := wr.Consume(ev); err != nil {
			return err
		}
	}
	return nil
}

// Flush forces the current row group closed and opens a fresh one, even
// if it has not reached its size threshold.
func (wr *Writer) Flush() error {
	if err := wr.fw.EndRowGroup(); err != nil {
		return err
	}
	return wr.rotateIfNeeded()
}

// Close ends the file, writing the footer with any extra key/value
// metadata, and leaves the writer unusable for further records.
func (wr *Writer) Close(extraKeyValueMetadata map[string]string) error {
	return wr.fw.End(extraKeyValueMetadata)
}
