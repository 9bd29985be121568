package format

import (
	"encoding/binary"
	"fmt"
	"math"
)

// reader is the compact-protocol counterpart to Writer, used only by
// cmd/parquet-dump and tests: this package's writer is
// the one exercised on every write, the reader exists so a file this
// module produces can be read back without depending on an external
// Thrift runtime. It is not a general-purpose parquet reader (spec §1
// explicitly leaves the read path out of scope).
type reader struct {
	buf    []byte
	pos    int
	lastID []int16
}

func newReader(buf []byte) *reader { return &reader{buf: buf} }

func (r *reader) top() int16 {
	if len(r.lastID) == 0 {
		return 0
	}
	return r.lastID[len(r.lastID)-1]
}

// fieldHeader reads one field header, returning the field id, the wire
// type, and ok=false when a STOP byte ended the struct.
func (r *reader) fieldHeader() (id int16, typ byte, ok bool, err error) {
	if r.pos >= len(r.buf) {
		return 0, 0, false, fmt.Errorf("format: truncated struct")
	}
	b := r.buf[r.pos]
	r.pos++
	if b == typeStop {
		return 0, 0, false, nil
	}
	typ = b & 0x0F
	delta := int16(b >> 4)
	if delta == 0 {
		v, n, err := r.varint()
		if err != nil {
			return 0, 0, false, err
		}
		id = int16(v)
		_ = n
	} else {
		id = r.top() + delta
	}
	r.lastID[len(r.lastID)-1] = id
	return id, typ, true, nil
}

func (r *reader) structBegin() { r.lastID = append(r.lastID, 0) }

func (r *reader) structEnd() {
	if len(r.lastID) > 0 {
		r.lastID = r.lastID[:len(r.lastID)-1]
	}
}

func (r *reader) varint() (int64, int, error) {
	u, n := binary.Uvarint(r.buf[r.pos:])
	if n <= 0 {
		return 0, 0, fmt.Errorf("format: bad varint")
	}
	r.pos += n
	v := int64(u>>1) ^ -int64(u&1)
	return v, n, nil
}

func (r *reader) i32() (int32, error) {
	v, _, err := r.varint()
	return int32(v), err
}

func (r *reader) i64() (int64, error) {
	v, _, err := r.varint()
	return v, err
}

func (r *reader) i16() (int16, error) {
	v, _, err := r.varint()
	return int16(v), err
}

func (r *reader) i8() (int8, error) {
	if r.pos >= len(r.buf) {
		return 0, fmt.Errorf("format: truncated i8")
	}
	v := int8(r.buf[r.pos])
	r.pos++
	return v, nil
}

func (r *reader) double() (float64, error) {
	if r.pos+8 > len(r.buf) {
		return 0, fmt.Errorf("format: truncated double")
	}
	bits := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return math.Float64frombits(bits), nil
}

func (r *reader) binary() ([]byte, error) {
	n, _, err := r.varint()
	if err != nil {
		return nil, err
	}
	if n < 0 || r.pos+int(n) > len(r.buf) {
		return nil, fmt.Errorf("format: truncated binary")
	}
	v := make([]byte, n)
	copy(v, r.buf[r.pos:r.pos+int(n)])
	r.pos += int(n)
	return v, nil
}

func (r *reader) str() (string, error) {
	b, err := r.binary()
	return string(b), err
}

// listHeader returns the element wire type and size of a list field.
func (r *reader) listHeader() (elemType byte, size int, err error) {
	if r.pos >= len(r.buf) {
		return 0, 0, fmt.Errorf("format: truncated list header")
	}
	b := r.buf[r.pos]
	r.pos++
	elemType = b & 0x0F
	sz := int(b >> 4)
	if sz == 15 {
		n, _, err := r.varint()
		if err != nil {
			return 0, 0, err
		}
		sz = int(n)
	}
	return elemType, sz, nil
}

func (r *reader) skipValue(typ byte) error {
	switch typ {
	case typeTrue, typeFalse:
		return nil
	case typeI8:
		_, err := r.i8()
		return err
	case typeI16, typeI32, typeI64:
		_, _, err := r.varint()
		return err
	case typeDouble:
		_, err := r.double()
		return err
	case typeBinary:
		_, err := r.binary()
		return err
	case typeStruct:
		r.structBegin()
		for {
			_, ft, ok, err := r.fieldHeader()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			if err := r.skipValue(ft); err != nil {
				return err
			}
		}
		r.structEnd()
		return nil
	case typeList:
		elemType, size, err := r.listHeader()
		if err != nil {
			return err
		}
		for i := 0; i < size; i++ {
			if err := r.skipValue(elemType); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("format: unknown wire type %d", typ)
	}
}

// DecodeFileMetaData is the structural inverse of EncodeFileMetaData,
// used by cmd/parquet-dump and by tests that round-trip a footer this
// package just wrote.
func DecodeFileMetaData(buf []byte) (*FileMetaData, error) {
	r := newReader(buf)
	r.structBegin()
	fmd := &FileMetaData{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			fmd.Version, err = r.i32()
		case 2:
			fmd.Schema, err = readSchemaElementList(r)
		case 3:
			fmd.NumRows, err = r.i64()
		case 4:
			fmd.RowGroups, err = readRowGroupList(r)
		case 5:
			fmd.KeyValueMetadata, err = readKeyValueList(r)
		case 6:
			fmd.CreatedBy, err = r.str()
			fmd.HasCreatedBy = true
		case 7:
			fmd.ColumnOrders, err = readColumnOrderList(r)
		case 8:
			r.structBegin()
			var ea EncryptionAlgorithm
			err = readEncryptionAlgorithmBody(r, &ea)
			fmd.EncryptionAlgorithm = &ea
		case 9:
			fmd.FooterSigningKeyMetadata, err = r.binary()
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, err
		}
	}
	r.structEnd()
	return fmd, nil
}

func readKeyValueList(r *reader) ([]KeyValue, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]KeyValue, size)
	for i := range out {
		r.structBegin()
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				out[i].Key, err = r.str()
			case 2:
				out[i].Value, err = r.str()
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readSortingColumnList(r *reader) ([]SortingColumn, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]SortingColumn, size)
	for i := range out {
		r.structBegin()
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				out[i].ColumnIdx, err = r.i32()
			case 2:
				out[i].Descending = typ == typeTrue
			case 3:
				out[i].NullsFirst = typ == typeTrue
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readPageEncodingStatsList(r *reader) ([]PageEncodingStats, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]PageEncodingStats, size)
	for i := range out {
		r.structBegin()
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				v, e := r.i32()
				out[i].PageType, err = PageType(v), e
			case 2:
				v, e := r.i32()
				out[i].Encoding, err = Encoding(v), e
			case 3:
				out[i].Count, err = r.i32()
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readStatisticsBody(r *reader) (*Statistics, error) {
	s := &Statistics{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			s.Max, err = r.binary()
		case 2:
			s.Min, err = r.binary()
		case 3:
			s.NullCount, err = r.i64()
			s.HasNullCount = true
		case 4:
			s.DistinctCount, err = r.i64()
			s.HasDistinct = true
		case 5:
			s.MaxValue, err = r.binary()
		case 6:
			s.MinValue, err = r.binary()
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, err
		}
	}
	r.structEnd()
	return s, nil
}

func readLogicalTypeBody(r *reader) (*LogicalType, error) {
	lt := &LogicalType{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			r.structBegin()
			err = skipStructBody(r)
			lt.UTF8 = &struct{}{}
		case 2:
			r.structBegin()
			err = skipStructBody(r)
			lt.Map = &struct{}{}
		case 3:
			r.structBegin()
			err = skipStructBody(r)
			lt.List = &struct{}{}
		case 4:
			r.structBegin()
			err = skipStructBody(r)
			lt.Enum = &struct{}{}
		case 5:
			r.structBegin()
			dt := &DecimalType{}
			dt.Scale, dt.Precision, err = readDecimalBody(r)
			lt.Decimal = dt
		case 6:
			r.structBegin()
			err = skipStructBody(r)
			lt.Date = &struct{}{}
		case 7:
			r.structBegin()
			tt := &TimeType{}
			tt.IsAdjustedToUTC, tt.Unit, err = readTimeBody(r)
			lt.Time = tt
		case 8:
			r.structBegin()
			ts := &TimestampType{}
			ts.IsAdjustedToUTC, ts.Unit, err = readTimeBody(r)
			lt.Timestamp = ts
		case 10:
			r.structBegin()
			it := &IntType{}
			it.BitWidth, it.IsSigned, err = readIntTypeBody(r)
			lt.Integer = it
		case 11:
			r.structBegin()
			err = skipStructBody(r)
			lt.Unknown = &struct{}{}
		case 12:
			r.structBegin()
			err = skipStructBody(r)
			lt.JSON = &struct{}{}
		case 13:
			r.structBegin()
			err = skipStructBody(r)
			lt.BSON = &struct{}{}
		case 14:
			r.structBegin()
			err = skipStructBody(r)
			lt.UUID = &struct{}{}
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, err
		}
	}
	r.structEnd()
	return lt, nil
}

func skipStructBody(r *reader) error {
	for {
		_, typ, ok, err := r.fieldHeader()
		if err != nil {
			return err
		}
		if !ok {
			r.structEnd()
			return nil
		}
		if err := r.skipValue(typ); err != nil {
			return err
		}
	}
}

func readDecimalBody(r *reader) (scale, precision int32, err error) {
	for {
		id, typ, ok, e := r.fieldHeader()
		if e != nil {
			return 0, 0, e
		}
		if !ok {
			r.structEnd()
			return scale, precision, nil
		}
		switch id {
		case 1:
			scale, err = r.i32()
		case 2:
			precision, err = r.i32()
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return 0, 0, err
		}
	}
}

func readIntTypeBody(r *reader) (bitWidth int8, isSigned bool, err error) {
	for {
		id, typ, ok, e := r.fieldHeader()
		if e != nil {
			return 0, false, e
		}
		if !ok {
			r.structEnd()
			return bitWidth, isSigned, nil
		}
		switch id {
		case 1:
			bitWidth, err = r.i8()
		case 2:
			isSigned = typ == typeTrue
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return 0, false, err
		}
	}
}

func readTimeBody(r *reader) (isAdjusted bool, unit TimeUnit, err error) {
	for {
		id, typ, ok, e := r.fieldHeader()
		if e != nil {
			return false, unit, e
		}
		if !ok {
			r.structEnd()
			return isAdjusted, unit, nil
		}
		switch id {
		case 1:
			isAdjusted = typ == typeTrue
		case 2:
			r.structBegin()
			unit, err = readTimeUnitBody(r)
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return false, unit, err
		}
	}
}

func readTimeUnitBody(r *reader) (TimeUnit, error) {
	var tu TimeUnit
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return tu, err
		}
		if !ok {
			r.structEnd()
			return tu, nil
		}
		switch id {
		case 1:
			r.structBegin()
			if err := skipStructBody(r); err != nil {
				return tu, err
			}
			tu.Millis = &struct{}{}
		case 2:
			r.structBegin()
			if err := skipStructBody(r); err != nil {
				return tu, err
			}
			tu.Micros = &struct{}{}
		case 3:
			r.structBegin()
			if err := skipStructBody(r); err != nil {
				return tu, err
			}
			tu.Nanos = &struct{}{}
		default:
			if err := r.skipValue(typ); err != nil {
				return tu, err
			}
		}
	}
}

func readSchemaElementList(r *reader) ([]SchemaElement, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]SchemaElement, size)
	for i := range out {
		r.structBegin()
		se := &out[i]
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				v, e := r.i32()
				t := Type(v)
				se.Type, err = &t, e
			case 2:
				v, e := r.i32()
				se.TypeLength, err = &v, e
			case 3:
				v, e := r.i32()
				rt := FieldRepetitionType(v)
				se.RepetitionType, err = &rt, e
			case 4:
				se.Name, err = r.str()
			case 5:
				v, e := r.i32()
				se.NumChildren, err = &v, e
			case 6:
				v, e := r.i32()
				ct := ConvertedType(v)
				se.ConvertedType, err = &ct, e
			case 7:
				v, e := r.i32()
				se.Scale, err = &v, e
			case 8:
				v, e := r.i32()
				se.Precision, err = &v, e
			case 9:
				se.FieldID, err = r.i32()
			case 10:
				r.structBegin()
				se.LogicalType, err = readLogicalTypeBody(r)
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readColumnMetaDataBody(r *reader) (*ColumnMetaData, error) {
	cmd := &ColumnMetaData{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			v, e := r.i32()
			cmd.Type, err = Type(v), e
		case 2:
			_, size, e := r.listHeader()
			err = e
			if err == nil {
				cmd.Encoding = make([]Encoding, size)
				for j := range cmd.Encoding {
					v, _, e2 := r.varint()
					cmd.Encoding[j], err = Encoding(v), e2
					if err != nil {
						break
					}
				}
			}
		case 3:
			_, size, e := r.listHeader()
			err = e
			if err == nil {
				cmd.PathInSchema = make([]string, size)
				for j := range cmd.PathInSchema {
					b, e2 := r.binary()
					cmd.PathInSchema[j], err = string(b), e2
					if err != nil {
						break
					}
				}
			}
		case 4:
			v, e := r.i32()
			cmd.Codec, err = CompressionCodec(v), e
		case 5:
			cmd.NumValues, err = r.i64()
		case 6:
			cmd.TotalUncompressedSize, err = r.i64()
		case 7:
			cmd.TotalCompressedSize, err = r.i64()
		case 8:
			cmd.KeyValueMetadata, err = readKeyValueList(r)
		case 9:
			cmd.DataPageOffset, err = r.i64()
		case 10:
			cmd.IndexPageOffset, err = r.i64()
			cmd.HasIndexPageOffset = true
		case 11:
			cmd.DictionaryPageOffset, err = r.i64()
			cmd.HasDictionaryPageOffset = true
		case 12:
			r.structBegin()
			var s *Statistics
			s, err = readStatisticsBody(r)
			if err == nil {
				cmd.Statistics = *s
				cmd.HasStatistics = true
			}
		case 13:
			cmd.EncodingStats, err = readPageEncodingStatsList(r)
		case 14:
			cmd.BloomFilterOffset, err = r.i64()
			cmd.HasBloomFilterOffset = true
		case 15:
			cmd.BloomFilterLength, err = r.i32()
			cmd.HasBloomFilterLength = true
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, err
		}
	}
	r.structEnd()
	return cmd, nil
}

func readColumnCryptoMetaDataBody(r *reader) (*ColumnCryptoMetaData, error) {
	ccmd := &ColumnCryptoMetaData{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			r.structBegin()
			if err := skipStructBody(r); err != nil {
				return nil, err
			}
			ccmd.EncryptionWithFooterKey = &EncryptionWithFooterKey{}
		case 2:
			r.structBegin()
			ek := &EncryptionWithColumnKey{}
			for {
				fid, ftyp, fok, ferr := r.fieldHeader()
				if ferr != nil {
					return nil, ferr
				}
				if !fok {
					break
				}
				switch fid {
				case 1:
					_, size, e := r.listHeader()
					ferr = e
					if ferr == nil {
						ek.PathInSchema = make([]string, size)
						for j := range ek.PathInSchema {
							b, e2 := r.binary()
							ek.PathInSchema[j], ferr = string(b), e2
							if ferr != nil {
								break
							}
						}
					}
				case 2:
					ek.KeyMetadata, ferr = r.binary()
				default:
					ferr = r.skipValue(ftyp)
				}
				if ferr != nil {
					return nil, ferr
				}
			}
			r.structEnd()
			ccmd.EncryptionWithColumnKey = ek
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, err
		}
	}
	r.structEnd()
	return ccmd, nil
}

func readColumnChunkList(r *reader) ([]ColumnChunk, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]ColumnChunk, size)
	for i := range out {
		r.structBegin()
		cc := &out[i]
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				cc.FilePath, err = r.str()
				cc.HasFilePath = true
			case 2:
				cc.FileOffset, err = r.i64()
			case 3:
				r.structBegin()
				var md *ColumnMetaData
				md, err = readColumnMetaDataBody(r)
				if err == nil {
					cc.MetaData = *md
					cc.HasMetaData = true
				}
			case 4:
				cc.OffsetIndexOffset, err = r.i64()
				cc.HasOffsetIndexOffset = true
			case 5:
				cc.OffsetIndexLength, err = r.i32()
				cc.HasOffsetIndexLength = true
			case 6:
				cc.ColumnIndexOffset, err = r.i64()
				cc.HasColumnIndexOffset = true
			case 7:
				cc.ColumnIndexLength, err = r.i32()
				cc.HasColumnIndexLength = true
			case 8:
				r.structBegin()
				cc.CryptoMetadata, err = readColumnCryptoMetaDataBody(r)
			case 9:
				cc.EncryptedColumnMetadata, err = r.binary()
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readRowGroupList(r *reader) ([]RowGroup, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]RowGroup, size)
	for i := range out {
		r.structBegin()
		rg := &out[i]
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				rg.Columns, err = readColumnChunkList(r)
			case 2:
				rg.TotalByteSize, err = r.i64()
			case 3:
				rg.NumRows, err = r.i64()
			case 4:
				rg.SortingColumns, err = readSortingColumnList(r)
			case 5:
				rg.FileOffset, err = r.i64()
				rg.HasFileOffset = true
			case 6:
				rg.TotalCompressedSize, err = r.i64()
				rg.HasTotalCompressedSize = true
			case 7:
				rg.Ordinal, err = r.i16()
				rg.HasOrdinal = true
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readColumnOrderList(r *reader) ([]ColumnOrder, error) {
	_, size, err := r.listHeader()
	if err != nil {
		return nil, err
	}
	out := make([]ColumnOrder, size)
	for i := range out {
		r.structBegin()
		for {
			id, typ, ok, err := r.fieldHeader()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			switch id {
			case 1:
				r.structBegin()
				if err := skipStructBody(r); err != nil {
					return nil, err
				}
				out[i].TypeOrder = &TypeDefinedOrder{}
			default:
				err = r.skipValue(typ)
			}
			if err != nil {
				return nil, err
			}
		}
		r.structEnd()
	}
	return out, nil
}

func readEncryptionAlgorithmBody(r *reader, ea *EncryptionAlgorithm) error {
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			r.structBegin()
			a := &AesGcmV1{}
			err = readAesGcmBody(r, &a.AadPrefix, &a.AadFileUnique, &a.SupplyAadPrefix)
			ea.AesGcmV1 = a
		case 2:
			r.structBegin()
			a := &AesGcmCtrV1{}
			err = readAesGcmBody(r, &a.AadPrefix, &a.AadFileUnique, &a.SupplyAadPrefix)
			ea.AesGcmCtrV1 = a
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return err
		}
	}
	r.structEnd()
	return nil
}

func readAesGcmBody(r *reader, aadPrefix, aadFileUnique *[]byte, supply *bool) error {
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return err
		}
		if !ok {
			r.structEnd()
			return nil
		}
		switch id {
		case 1:
			*aadPrefix, err = r.binary()
		case 2:
			*aadFileUnique, err = r.binary()
		case 3:
			*supply = typ == typeTrue
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return err
		}
	}
}

// DecodePageHeader is the structural inverse of EncodePageHeader.
func DecodePageHeader(buf []byte) (*PageHeader, int, error) {
	r := newReader(buf)
	r.structBegin()
	h := &PageHeader{}
	for {
		id, typ, ok, err := r.fieldHeader()
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			break
		}
		switch id {
		case 1:
			v, e := r.i32()
			h.Type, err = PageType(v), e
		case 2:
			h.UncompressedPageSize, err = r.i32()
		case 3:
			h.CompressedPageSize, err = r.i32()
		case 4:
			h.CRC, err = r.i32()
			h.HasCRC = true
		case 5:
			r.structBegin()
			dph := &DataPageHeader{}
			for {
				fid, ftyp, fok, ferr := r.fieldHeader()
				if ferr != nil {
					return nil, 0, ferr
				}
				if !fok {
					break
				}
				switch fid {
				case 1:
					dph.NumValues, ferr = r.i32()
				case 2:
					v, e := r.i32()
					dph.Encoding, ferr = Encoding(v), e
				case 3:
					v, e := r.i32()
					dph.DefinitionLevelEncoding, ferr = Encoding(v), e
				case 4:
					v, e := r.i32()
					dph.RepetitionLevelEncoding, ferr = Encoding(v), e
				case 5:
					r.structBegin()
					dph.Statistics, ferr = readStatisticsBody(r)
				default:
					ferr = r.skipValue(ftyp)
				}
				if ferr != nil {
					return nil, 0, ferr
				}
			}
			r.structEnd()
			h.DataPageHeader = dph
		case 7:
			r.structBegin()
			dph := &DictionaryPageHeader{}
			for {
				fid, ftyp, fok, ferr := r.fieldHeader()
				if ferr != nil {
					return nil, 0, ferr
				}
				if !fok {
					break
				}
				switch fid {
				case 1:
					dph.NumValues, ferr = r.i32()
				case 2:
					v, e := r.i32()
					dph.Encoding, ferr = Encoding(v), e
				case 3:
					dph.IsSorted = ftyp == typeTrue
					dph.HasSorted = true
				default:
					ferr = r.skipValue(ftyp)
				}
				if ferr != nil {
					return nil, 0, ferr
				}
			}
			r.structEnd()
			h.DictionaryPageHeader = dph
		case 8:
			r.structBegin()
			dph := &DataPageHeaderV2{}
			for {
				fid, ftyp, fok, ferr := r.fieldHeader()
				if ferr != nil {
					return nil, 0, ferr
				}
				if !fok {
					break
				}
				switch fid {
				case 1:
					dph.NumValues, ferr = r.i32()
				case 2:
					dph.NumNulls, ferr = r.i32()
				case 3:
					dph.NumRows, ferr = r.i32()
				case 4:
					v, e := r.i32()
					dph.Encoding, ferr = Encoding(v), e
				case 5:
					dph.DefinitionLevelsByteLength, ferr = r.i32()
				case 6:
					dph.RepetitionLevelsByteLength, ferr = r.i32()
				case 7:
					dph.IsCompressed = ftyp == typeTrue
					dph.HasIsCompressed = true
				case 8:
					r.structBegin()
					dph.Statistics, ferr = readStatisticsBody(r)
				default:
					ferr = r.skipValue(ftyp)
				}
				if ferr != nil {
					return nil, 0, ferr
				}
			}
			r.structEnd()
			h.DataPageHeaderV2 = dph
		default:
			err = r.skipValue(typ)
		}
		if err != nil {
			return nil, 0, err
		}
	}
	r.structEnd()
	return h, r.pos, nil
}
