package bytesource

import (
	"context"
	"os"
)

// FileSource reads the file bytes directly from the local filesystem.
type FileSource struct{}

func (FileSource) Name() string { return "file" }

func (FileSource) Applies(uri string) bool { return isLocalURI(uri) }

func (FileSource) Fetch(_ context.Context, uri string) Result {
	data, err := os.ReadFile(localPath(uri))
	if err != nil {
		return failedErr(err)
	}
	if len(data) == 0 {
		return failed("zero bytes read")
	}
	return succeeded(data)
}
