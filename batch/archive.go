package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/nvr-ai/go-imgshift/images"
	"github.com/pkg/errors"
)

// WriteArchive writes every successful result into a zip archive on w. Entry
// names come from names[Index] when present, else the zero-padded index,
// and carry the extension of the sniffed output format. A name already in
// the archive gets the zero-padded index appended (cover.jpg, cover-0003.jpg).
//
// Arguments:
// - w: The archive destination.
// - results: Batch results. Failed items are skipped.
// - names: Optional base names indexed like the batch input.
//
// Returns:
// - The number of entries written.
// - An error when writing the archive fails.
func WriteArchive(w io.Writer, results []Result, names []string) (int, error) {
	zw := zip.NewWriter(w)
	modified := time.Now()

	used := make(map[string]bool, len(results))
	written := 0
	for _, res := range results {
		if !res.OK() {
			continue
		}

		base := fmt.Sprintf("%04d", res.Index)
		if res.Index < len(names) && names[res.Index] != "" {
			base = names[res.Index]
		}
		format := images.Sniff(res.Data)
		name := entryName(used, base, res.Index, format.Extension())

		// Only uncompressed payloads are deflated.
		method := zip.Store
		if format == images.FormatBMP || format == images.FormatUnknown {
			method = zip.Deflate
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     name,
			Method:   method,
			Modified: modified,
		})
		if err != nil {
			return written, errors.Wrapf(err, "create archive entry %s", name)
		}
		if _, err := fw.Write(res.Data); err != nil {
			return written, errors.Wrapf(err, "write archive entry %s", name)
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return written, errors.Wrap(err, "close archive")
	}
	return written, nil
}

// entryName returns base.ext, or a suffixed variant when that is taken, and
// marks the result as used.
func entryName(used map[string]bool, base string, index int, ext string) string {
	name := base + "." + ext
	for n := 0; used[name]; n++ {
		if n == 0 {
			name = fmt.Sprintf("%s-%04d.%s", base, index, ext)
		} else {
			name = fmt.Sprintf("%s-%04d-%d.%s", base, index, n, ext)
		}
	}
	used[name] = true
	return name
}
