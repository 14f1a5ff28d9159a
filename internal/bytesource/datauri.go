package bytesource

import (
	"context"
	"encoding/base64"
	"strings"
)

// DataURISource decodes base64 data URIs (data:<mime>;base64,<payload>).
// Non-base64 data URIs are rejected rather than guessed at.
type DataURISource struct{}

func (DataURISource) Name() string { return "base64" }

func (DataURISource) Applies(uri string) bool { return strings.HasPrefix(uri, "data:") }

func (DataURISource) Fetch(_ context.Context, uri string) Result {
	comma := strings.Index(uri, ",")
	if comma < 0 {
		return failed("malformed data uri: no comma separator")
	}
	meta := uri[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return failed("data uri is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(uri[comma+1:])
	if err != nil {
		return failedErr(err)
	}
	if len(data) == 0 {
		return failed("zero bytes decoded")
	}
	return succeeded(data)
}
