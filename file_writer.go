package parquet

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/columnar-go/parquetwrite/blockalign"
	"github.com/columnar-go/parquetwrite/format"
	"github.com/columnar-go/parquetwrite/pcrypto"
	"github.com/columnar-go/parquetwrite/perrors"
)

var (
	magicPlain     = [4]byte{'P', 'A', 'R', '1'}
	magicEncrypted = [4]byte{'P', 'A', 'R', 'E'}
)

type fileWriterState int8

const (
	fwCreated fileWriterState = iota
	fwStarted
	fwRowGroupOpen
	fwEnded
)

// FileWriter drives the Created→Started→RowGroupOpen→RowGroupClosed→...
// →Ended life cycle spec §4.9 describes, writing magic bytes, row
// groups and the Thrift-compact footer to an underlying io.Writer.
type FileWriter struct {
	w      io.Writer
	schema *Schema
	cfg    *WriterConfig

	state           fileWriterState
	offset          int64
	rowGroups       []format.RowGroup
	rowGroupOrdinal int
	current         *RowGroupWriter

	// aadFileUnique is recorded into FileCryptoMetaData so a reader can
	// tell this file's key metadata apart from another's; it is not mixed
	// into moduleAAD/ModuleAAD (see DESIGN.md).
	aadFileUnique []byte
	blockSize     int
}

// NewFileWriter constructs a writer over w for the given schema and
// configuration. w need not be seekable: offsets are tracked internally
// and patched into the footer rather than backfilled in the stream.
func NewFileWriter(w io.Writer, schema *Schema, cfg *WriterConfig) *FileWriter {
	fw := &FileWriter{w: w, schema: schema, cfg: cfg}
	if cfg.BlockAlignPadding {
		fw.blockSize = blockalign.Detect(w)
	}
	return fw
}

func (fw *FileWriter) write(p []byte) error {
	n, err := fw.w.Write(p)
	fw.offset += int64(n)
	return err
}

// Start writes the leading magic bytes.
func (fw *FileWriter) Start() error {
	if fw.state != fwCreated {
		return perrors.NewStateError("Start", "file already started")
	}
	if fw.cfg.Encryption != nil {
		fw.aadFileUnique = make([]byte, 8)
		if _, err := rand.Read(fw.aadFileUnique); err != nil {
			return err
		}
	}
	if err := fw.write(magicPlain[:]); err != nil {
		return err
	}
	fw.state = fwStarted
	return nil
}

// StartRowGroup opens a new row group, optionally padding to the next
// filesystem block boundary first (spec §4.9, §C: block alignment).
func (fw *FileWriter) StartRowGroup() (columnSink, error) {
	if fw.state != fwStarted {
		return nil, perrors.NewStateError("StartRowGroup", "no row group may be opened here")
	}
	if fw.cfg.BlockAlignPadding {
		pad := blockalign.Padding(fw.offset, fw.blockSize)
		if pad > 0 {
			if err := fw.write(make([]byte, pad)); err != nil {
				return nil, err
			}
		}
	}
	rg, err := NewRowGroupWriter(fw.schema, fw.cfg, fw.rowGroupOrdinal)
	if err != nil {
		return nil, err
	}
	fw.current = rg
	fw.state = fwRowGroupOpen
	return rg, nil
}

// EndRecord forwards to the open row group's per-record flush check and,
// when it reports the group is full, closes the group.
func (fw *FileWriter) EndRecord() error {
	if fw.state != fwRowGroupOpen {
		return perrors.NewStateError("EndRecord", "no row group is open")
	}
	if fw.current.EndRecord() {
		return fw.EndRowGroup()
	}
	return nil
}

// EndRowGroup closes the currently open row group, whether or not it
// reached its size threshold (always called at least once before End).
func (fw *FileWriter) EndRowGroup() error {
	if fw.state != fwRowGroupOpen {
		return perrors.NewStateError("EndRowGroup", "no row group is open")
	}
	if fw.current.NumRows() == 0 {
		fw.current = nil
		fw.state = fwStarted
		return nil
	}
	group, err := fw.current.Close(fw.offset, fw.w)
	if err != nil {
		return err
	}
	fw.offset += group.TotalByteSize
	fw.rowGroups = append(fw.rowGroups, group)
	fw.rowGroupOrdinal++
	fw.current = nil
	fw.state = fwStarted
	return nil
}

// End closes any still-open row group and writes the footer (Thrift
// FileMetaData, plaintext or encrypted per cfg.Encryption), the 4-byte
// little-endian footer length, and the trailing magic.
func (fw *FileWriter) End(extraKeyValueMetadata map[string]string) error {
	if fw.state == fwRowGroupOpen {
		if err := fw.EndRowGroup(); err != nil {
			return err
		}
	}
	if fw.state != fwStarted {
		return perrors.NewStateError("End", "file not in a state that can be ended")
	}

	fmd := fw.buildFileMetaData(extraKeyValueMetadata)
	footerBytes := format.EncodeFileMetaData(fmd)

	if fw.cfg.Encryption == nil {
		if err := fw.write(footerBytes); err != nil {
			return err
		}
		if err := fw.write(footerLength(len(footerBytes))); err != nil {
			return err
		}
		if err := fw.write(magicPlain[:]); err != nil {
			return err
		}
		fw.state = fwEnded
		return nil
	}
	return fw.endEncrypted(footerBytes)
}

func (fw *FileWriter) endEncrypted(footerBytes []byte) error {
	enc := fw.cfg.Encryption
	aad := pcrypto.ModuleAAD(enc.AADPrefix, pcrypto.ModuleFooter, 0, -1, -1)
	sealed, err := pcrypto.EncryptGCM(enc.FooterKey, aad, footerBytes)
	if err != nil {
		return err
	}

	if enc.PlaintextFooter {
		// The footer stays readable; the nonce and GCM tag of its sealed
		// copy follow it as a signature, covered by the footer length.
		signature := append(append([]byte{}, sealed[:12]...), sealed[len(sealed)-16:]...)
		if err := fw.write(footerBytes); err != nil {
			return err
		}
		if err := fw.write(signature); err != nil {
			return err
		}
		if err := fw.write(footerLength(len(footerBytes) + len(signature))); err != nil {
			return err
		}
		if err := fw.write(magicPlain[:]); err != nil {
			return err
		}
		fw.state = fwEnded
		return nil
	}

	var storedPrefix []byte
	if enc.StoreAADPrefix {
		storedPrefix = enc.AADPrefix
	}
	supplyPrefix := len(enc.AADPrefix) > 0 && !enc.StoreAADPrefix
	algo := format.EncryptionAlgorithm{}
	switch enc.Algorithm {
	case pcrypto.AesGcmV1:
		algo.AesGcmV1 = &format.AesGcmV1{AadPrefix: storedPrefix, AadFileUnique: fw.aadFileUnique, SupplyAadPrefix: supplyPrefix}
	default:
		algo.AesGcmCtrV1 = &format.AesGcmCtrV1{AadPrefix: storedPrefix, AadFileUnique: fw.aadFileUnique, SupplyAadPrefix: supplyPrefix}
	}
	fcmd := &format.FileCryptoMetaData{EncryptionAlgorithm: algo}
	if len(enc.FooterKeyMetadata) > 0 {
		fcmd.KeyMetadata = enc.FooterKeyMetadata
		fcmd.HasKeyMetadata = true
	}
	cryptoBytes := format.EncodeFileCryptoMetaData(fcmd)

	total := len(cryptoBytes) + len(sealed)
	if err := fw.write(cryptoBytes); err != nil {
		return err
	}
	if err := fw.write(sealed); err != nil {
		return err
	}
	if err := fw.write(footerLength(total)); err != nil {
		return err
	}
	if err := fw.write(magicEncrypted[:]); err != nil {
		return err
	}
	fw.state = fwEnded
	return nil
}

func footerLength(n int) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(n))
	return b[:]
}

func (fw *FileWriter) buildFileMetaData(extra map[string]string) *format.FileMetaData {
	var numRows int64
	for _, rg := range fw.rowGroups {
		numRows += rg.NumRows
	}
	kv := make([]format.KeyValue, 0, len(fw.cfg.KeyValueMetadata)+len(extra))
	for k, v := range fw.cfg.KeyValueMetadata {
		kv = append(kv, format.KeyValue{Key: k, Value: v})
	}
	for k, v := range extra {
		kv = append(kv, format.KeyValue{Key: k, Value: v})
	}
	orders := make([]format.ColumnOrder, fw.schema.NumColumns())
	for i := range orders {
		orders[i] = format.ColumnOrder{TypeOrder: &format.TypeDefinedOrder{}}
	}
	fmd := &format.FileMetaData{
		Version:          2,
		Schema:           fw.schema.schemaElements(),
		NumRows:          numRows,
		RowGroups:        fw.rowGroups,
		KeyValueMetadata: kv,
		CreatedBy:        fw.cfg.CreatedBy,
		HasCreatedBy:     true,
		ColumnOrders:     orders,
	}
	return fmd
}
