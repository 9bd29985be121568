package blockalign

import (
	"bytes"
	"testing"
)

func TestPaddingAlignsToBlockBoundary(t *testing.T) {
	cases := []struct {
		offset    int64
		blockSize int
		want      int64
	}{
		{0, 4096, 0},
		{1, 4096, 4095},
		{4096, 4096, 0},
		{4097, 4096, 4095},
		{100, 0, 0}, // blockSize<=0 disables padding
	}
	for _, c := range cases {
		if got := Padding(c.offset, c.blockSize); got != c.want {
			t.Errorf("Padding(%d, %d) = %d, want %d", c.offset, c.blockSize, got, c.want)
		}
	}
}

func TestDetectFallsBackForNonFileWriters(t *testing.T) {
	var buf bytes.Buffer
	if got := Detect(&buf); got != DefaultBlockSize {
		t.Fatalf("Detect(bytes.Buffer) = %d, want DefaultBlockSize (%d)", got, DefaultBlockSize)
	}
}
