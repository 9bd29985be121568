// Command parquet-dump prints a footer summary for a file this module
// wrote: schema, row-group counts, and a per-column-chunk table, the way
// parquet-tool does for the reader-side teacher.
package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/columnar-go/parquetwrite/format"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: parquet-dump <file>")
		os.Exit(1)
	}
	if err := dump(os.Args[1], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "parquet-dump:", err)
		os.Exit(1)
	}
}

func dump(path string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size < 12 {
		return fmt.Errorf("%s: too small to be a parquet file (%d bytes)", path, size)
	}

	var trailer [8]byte
	if _, err := f.ReadAt(trailer[:], size-8); err != nil {
		return err
	}
	footerLen := int64(binary.LittleEndian.Uint32(trailer[:4]))
	magic := string(trailer[4:])
	if magic != "PAR1" && magic != "PARE" {
		return fmt.Errorf("%s: unrecognized trailing magic %q", path, magic)
	}
	if magic == "PARE" {
		return fmt.Errorf("%s: footer is encrypted (PARE); decoding an encrypted footer needs the file's footer key, which this tool does not accept", path)
	}
	if footerLen <= 0 || footerLen > size-8 {
		return fmt.Errorf("%s: implausible footer length %d", path, footerLen)
	}

	footerBytes := make([]byte, footerLen)
	if _, err := f.ReadAt(footerBytes, size-8-footerLen); err != nil {
		return err
	}
	fmd, err := format.DecodeFileMetaData(footerBytes)
	if err != nil {
		return fmt.Errorf("%s: decoding footer: %w", path, err)
	}

	printSchema(w, fmd)
	fmt.Fprintf(w, "num rows: %d\n", fmd.NumRows)
	fmt.Fprintf(w, "created by: %s\n", fmd.CreatedBy)
	fmt.Fprintf(w, "row groups: %d\n", len(fmd.RowGroups))

	for i, rg := range fmd.RowGroups {
		fmt.Fprintf(w, "\nrow group %d: %d rows, %s\n", i, rg.NumRows, humanBytes(rg.TotalByteSize))
		printColumns(w, rg)
	}
	return nil
}

func printSchema(w io.Writer, fmd *format.FileMetaData) {
	fmt.Fprintln(w, "schema:")
	depth := 0
	for _, el := range fmd.Schema {
		if el.NumChildren == nil && el.Type == nil {
			continue
		}
		indent := strings.Repeat("  ", depth)
		if el.NumChildren != nil {
			fmt.Fprintf(w, "%s%s (group)\n", indent, el.Name)
		} else {
			fmt.Fprintf(w, "%s%s %s\n", indent, el.Name, el.Type.String())
		}
	}
}

func printColumns(w io.Writer, rg format.RowGroup) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"column", "type", "encoding", "values", "compressed", "uncompressed", "ratio %"})
	for _, cc := range rg.Columns {
		md := cc.MetaData
		encodings := make([]string, len(md.Encoding))
		for i, e := range md.Encoding {
			encodings[i] = e.String()
		}
		ratio := 0.0
		if md.TotalCompressedSize > 0 {
			ratio = float64(md.TotalUncompressedSize) / float64(md.TotalCompressedSize) * 100
		}
		table.Append([]string{
			strings.Join(md.PathInSchema, "."),
			md.Type.String(),
			strings.Join(encodings, ","),
			fmt.Sprintf("%d", md.NumValues),
			humanBytes(md.TotalCompressedSize),
			humanBytes(md.TotalUncompressedSize),
			fmt.Sprintf("%.1f", ratio),
		})
	}
	table.Render()
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
