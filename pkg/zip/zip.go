package zip

import (
	"archive/zip"
	"bytes"
)

// Asset is one file to package into a download archive.
type Asset struct {
	Filename string
	Data     []byte
}

// ArchiveAssets packages the assets into an in-memory zip. Entries that fail
// to write are skipped rather than failing the archive.
func ArchiveAssets(assets []Asset) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			continue
		}
		_, _ = w.Write(asset.Data)
	}
	_ = zw.Close()
	return buf.Bytes()
}
