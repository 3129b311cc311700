// Package apiconnect binds the api messages to connect handlers and clients.
// The bindings are maintained by hand and use a JSON codec, so any connect
// or plain HTTP client that POSTs application/json can call them.
package apiconnect

import (
	"context"
	"encoding/json"
	"net/http"

	"connectrpc.com/connect"
)

// Codec encodes api messages as JSON. It replaces connect's built-in json
// codec, which only accepts protobuf messages.
type Codec struct{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) { return json.Marshal(msg) }

func (Codec) Unmarshal(data []byte, msg any) error { return json.Unmarshal(data, msg) }

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// routes collects the unary handlers of one service and serves them by path.
type routes map[string]http.Handler

func (rs routes) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h, ok := rs[r.URL.Path]; ok {
		h.ServeHTTP(w, r)
		return
	}
	http.NotFound(w, r)
}

func unary[Req, Res any](
	rs routes,
	procedure string,
	fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
	opts []connect.HandlerOption,
) {
	rs[procedure] = connect.NewUnaryHandler(procedure, fn, opts...)
}

func newClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts []connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...)
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, &procedureError{procedure})
}

type procedureError struct{ procedure string }

func (e *procedureError) Error() string { return e.procedure + " is not implemented" }
