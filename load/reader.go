// Package load provides the external file-loading collaborator for
// model.Library: search-path resolution over github.com/viant/afs and
// UTF-8 BOM stripping.
package load

import (
	"context"
	"fmt"

	"github.com/viant/afs"
)

// bom is the three-byte UTF-8 byte-order mark the loader strips before
// handing source bytes to the parser front-end.
var bom = [3]byte{0xEF, 0xBB, 0xBF}

// AfsReader implements model.Reader over a github.com/viant/afs service.
type AfsReader struct {
	fs afs.Service
}

// NewAfsReader constructs a reader backed by afs.New()'s default service.
func NewAfsReader() *AfsReader {
	return &AfsReader{fs: afs.New()}
}

// NewAfsReaderWithService constructs a reader over a caller-supplied afs
// service, e.g. an in-memory one for tests.
func NewAfsReaderWithService(fs afs.Service) *AfsReader {
	return &AfsReader{fs: fs}
}

// Read locates filename under the first search path where it exists, reads
// it fully, and strips a leading UTF-8 BOM if present.
func (r *AfsReader) Read(ctx context.Context, searchPaths []string, filename string) (string, []byte, error) {
	paths := searchPaths
	if len(paths) == 0 {
		paths = []string{""}
	}
	var lastErr error
	for _, path := range paths {
		fullPath := filename
		if path != "" {
			fullPath = path + "/" + filename
		}
		data, err := r.fs.DownloadWithURL(ctx, fullPath)
		if err != nil {
			lastErr = err
			continue
		}
		return fullPath, stripBOM(data), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no search paths configured")
	}
	return "", nil, lastErr
}

func stripBOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == bom[0] && data[1] == bom[1] && data[2] == bom[2] {
		return data[3:]
	}
	return data
}
