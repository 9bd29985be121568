package parquet

import "testing"

func TestUnsignedLexicographicOrdersByByteValue(t *testing.T) {
	a := ByteArrayValue([]byte{0x01}, 0, 0)
	b := ByteArrayValue([]byte{0xff}, 0, 0)
	if unsignedLexicographic(a, b) >= 0 {
		t.Fatal("0x01 should sort before 0xff under unsigned comparison")
	}
}

func TestUnsignedNumericCompareTreatsNegativeAsLarge(t *testing.T) {
	cmp := unsignedNumericCompare(Int32)
	small := Int32Value(1, 0, 0)
	negative := Int32Value(-1, 0, 0) // 0xFFFFFFFF unsigned: the largest uint32
	if cmp(negative, small) <= 0 {
		t.Fatal("-1 reinterpreted as unsigned should compare greater than 1")
	}
}

func TestSignedDecimalCompareOnByteArraySignExtends(t *testing.T) {
	cmp := signedDecimalCompare(ByteArray)
	neg1 := ByteArrayValue([]byte{0xff}, 0, 0)          // -1 as a 1-byte two's complement integer
	pos1Wide := ByteArrayValue([]byte{0x00, 0x01}, 0, 0) // +1 as a 2-byte two's complement integer
	if cmp(neg1, pos1Wide) >= 0 {
		t.Fatal("-1 should compare less than +1 regardless of byte width")
	}
}

func TestComparatorForSelectsUnsignedForUnsignedIntLogicalType(t *testing.T) {
	col := &ColumnDescriptor{
		Node: NewLeaf("v", Required, Int32, &LogicalType{Integer: &IntLogicalType{BitWidth: 32, Signed: false}}),
	}
	cmp := comparatorFor(col)
	if cmp(Int32Value(-1, 0, 0), Int32Value(1, 0, 0)) <= 0 {
		t.Fatal("unsigned-annotated INT32 column should compare -1 as larger than 1")
	}
}

func TestComparatorForSelectsSignedByDefault(t *testing.T) {
	col := &ColumnDescriptor{Node: NewLeaf("v", Required, Int32, nil)}
	cmp := comparatorFor(col)
	if cmp(Int32Value(-1, 0, 0), Int32Value(1, 0, 0)) >= 0 {
		t.Fatal("plain INT32 column should compare -1 as smaller than 1")
	}
}
