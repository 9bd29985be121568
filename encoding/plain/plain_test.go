package plain

import "testing"

func TestBooleanRoundTrip(t *testing.T) {
	values := []bool{true, false, true, true, false, false, false, true, true}
	buf := EncodeBoolean(nil, values)
	if got := DecodeBoolean(buf, len(values)); !boolsEqual(got, values) {
		t.Fatalf("DecodeBoolean(EncodeBoolean(%v)) = %v", values, got)
	}
}

func TestInt32RoundTrip(t *testing.T) {
	values := []int32{0, 1, -1, 1 << 30, -(1 << 30)}
	buf := EncodeInt32(nil, values)
	if len(buf) != 4*len(values) {
		t.Fatalf("len(buf) = %d, want %d", len(buf), 4*len(values))
	}
	got := DecodeInt32(buf, len(values))
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeInt32[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestInt64RoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 1 << 40, -(1 << 40)}
	buf := EncodeInt64(nil, values)
	got := DecodeInt64(buf, len(values))
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeInt64[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestInt96RoundTrip(t *testing.T) {
	values := [][12]byte{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	buf := EncodeInt96(nil, values)
	got := DecodeInt96(buf, len(values))
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeInt96[%d] = %v, want %v", i, got[i], values[i])
		}
	}
}

func TestFloatRoundTrip(t *testing.T) {
	values := []float32{0, 1.5, -1.5, 3.14159}
	buf := EncodeFloat(nil, values)
	got := DecodeFloat(buf, len(values))
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeFloat[%d] = %v, want %v", i, got[i], values[i])
		}
	}
}

func TestDoubleRoundTrip(t *testing.T) {
	values := []float64{0, 1.5, -1.5, 2.718281828}
	buf := EncodeDouble(nil, values)
	got := DecodeDouble(buf, len(values))
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeDouble[%d] = %v, want %v", i, got[i], values[i])
		}
	}
}

func TestByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("hello"), []byte(""), []byte("world!")}
	buf := EncodeByteArray(nil, values)
	got := DecodeByteArray(buf, len(values))
	for i := range values {
		if string(got[i]) != string(values[i]) {
			t.Fatalf("DecodeByteArray[%d] = %q, want %q", i, got[i], values[i])
		}
	}
}

func TestFixedLenByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{{1, 2, 3, 4}, {5, 6, 7, 8}}
	buf := EncodeFixedLenByteArray(nil, values)
	got := DecodeFixedLenByteArray(buf, len(values), 4)
	for i := range values {
		if string(got[i]) != string(values[i]) {
			t.Fatalf("DecodeFixedLenByteArray[%d] = %v, want %v", i, got[i], values[i])
		}
	}
}

func TestEncodeAppendsToExistingBuffer(t *testing.T) {
	dst := []byte{0xAA, 0xBB}
	buf := EncodeInt32(dst, []int32{1})
	if len(buf) != 2+4 {
		t.Fatalf("len(buf) = %d, want 6", len(buf))
	}
	if buf[0] != 0xAA || buf[1] != 0xBB {
		t.Fatal("EncodeInt32 should append to, not overwrite, an existing prefix")
	}
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
