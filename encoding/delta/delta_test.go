package delta

import "testing"

func TestEncodeDecodeInt64RoundTrip(t *testing.T) {
	cases := [][]int64{
		{},
		{42},
		{1, 2, 3, 4, 5},
		{-10, -5, 0, 5, 10},
		sequence(127),                  // 126 deltas: one partial block
		sequence(128),                  // 127 deltas: one delta short of a full block
		sequence(129),                  // 128 deltas: exactly one full block
		sequence(513),                  // 512 deltas: four full blocks
		{1 << 40, 1 << 40, 1 << 40 + 1}, // large values, deltas 0 and 1 (width-1 miniblock)
	}
	for _, values := range cases {
		buf := EncodeInt64(values)
		got := DecodeInt64(buf)
		if !int64sEqual(got, values) {
			t.Fatalf("DecodeInt64(EncodeInt64(%v)) = %v", values, got)
		}
	}
}

func TestEncodeDecodeInt32RoundTrip(t *testing.T) {
	values := []int32{0, -1, 1, 1000, -1000, 7, 7, 7, 7}
	buf := EncodeInt32(values)
	got := DecodeInt32(buf)
	for i := range values {
		if got[i] != values[i] {
			t.Fatalf("DecodeInt32[%d] = %d, want %d", i, got[i], values[i])
		}
	}
}

func TestEncodeDecodeLengthByteArrayRoundTrip(t *testing.T) {
	values := [][]byte{[]byte("a"), []byte("abc"), []byte(""), []byte("hello world")}
	buf := EncodeLengthByteArray(values)
	got := DecodeLengthByteArray(buf, len(values))
	for i := range values {
		if string(got[i]) != string(values[i]) {
			t.Fatalf("DecodeLengthByteArray[%d] = %q, want %q", i, got[i], values[i])
		}
	}
}

func TestEncodeDecodeByteArrayRoundTripSharesPrefixes(t *testing.T) {
	values := [][]byte{
		[]byte("apple"),
		[]byte("application"),
		[]byte("apply"),
		[]byte("banana"),
	}
	buf := EncodeByteArray(values)
	got := DecodeByteArray(buf, len(values))
	for i := range values {
		if string(got[i]) != string(values[i]) {
			t.Fatalf("DecodeByteArray[%d] = %q, want %q", i, got[i], values[i])
		}
	}
}

func sequence(n int) []int64 {
	out := make([]int64, n)
	for i := range out {
		out[i] = int64(i) * 3
	}
	return out
}

func int64sEqual(a, b []int64) bool {
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
