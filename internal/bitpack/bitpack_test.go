package bitpack

import "testing"

func TestWidth(t *testing.T) {
	cases := []struct {
		max  int
		want int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 2}, {4, 3}, {7, 3}, {8, 4}, {255, 8}, {256, 9},
	}
	for _, c := range cases {
		if got := Width(c.max); got != c.want {
			t.Errorf("Width(%d) = %d, want %d", c.max, got, c.want)
		}
	}
}

func TestByteCount(t *testing.T) {
	cases := []struct {
		width, n int
		want     int
	}{
		{3, 8, 3}, {3, 10, 4}, {8, 1, 1}, {0, 100, 0},
	}
	for _, c := range cases {
		if got := ByteCount(c.width, c.n); got != c.want {
			t.Errorf("ByteCount(%d, %d) = %d, want %d", c.width, c.n, got, c.want)
		}
	}
}

func TestPackUnpackRoundTrip(t *testing.T) {
	for width := 1; width <= 17; width++ {
		values := make([]uint64, 37)
		max := uint64(1)<<uint(width) - 1
		for i := range values {
			values[i] = uint64(i*7) & max
		}
		packed := Pack(nil, values, width)
		if len(packed) != ByteCount(width, len(values)) {
			t.Fatalf("width %d: len(packed) = %d, want %d", width, len(packed), ByteCount(width, len(values)))
		}
		got := Unpack(nil, packed, width, len(values))
		for i := range values {
			if got[i] != values[i] {
				t.Fatalf("width %d: Unpack[%d] = %d, want %d", width, i, got[i], values[i])
			}
		}
	}
}

func TestPackWidthZeroProducesNoBytes(t *testing.T) {
	if got := Pack(nil, []uint64{0, 0, 0}, 0); len(got) != 0 {
		t.Fatalf("Pack with width 0 = %v, want empty", got)
	}
}

func TestUnpackWidthZeroProducesZeros(t *testing.T) {
	got := Unpack(nil, nil, 0, 5)
	for i, v := range got {
		if v != 0 {
			t.Fatalf("Unpack[%d] = %d with width 0, want 0", i, v)
		}
	}
}

func TestPack8Unpack8RoundTrip(t *testing.T) {
	values := [8]uint64{0, 1, 2, 3, 4, 5, 6, 7}
	packed := Pack8(nil, values, 3)
	if len(packed) != 3 {
		t.Fatalf("len(packed) = %d, want 3", len(packed))
	}
	got := Unpack8(packed, 3)
	if got != values {
		t.Fatalf("Unpack8(Pack8(%v)) = %v", values, got)
	}
}

func TestPack32Unpack32RoundTrip(t *testing.T) {
	var values [32]uint64
	for i := range values {
		values[i] = uint64(i % 16)
	}
	packed := Pack32(nil, values, 4)
	if len(packed) != 16 {
		t.Fatalf("len(packed) = %d, want 16", len(packed))
	}
	got := Unpack32(packed, 4)
	if got != values {
		t.Fatalf("Unpack32(Pack32(%v)) = %v", values, got)
	}
}

func TestPackAppendsToExistingBuffer(t *testing.T) {
	dst := []byte{0xAA}
	packed := Pack(dst, []uint64{1, 2, 3}, 4)
	if packed[0] != 0xAA {
		t.Fatal("Pack should append to, not overwrite, an existing prefix")
	}
}
