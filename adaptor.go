package h2core

import (
	"context"
	"io"
	"strconv"

	"github.com/valyala/fasthttp"
	"golang.org/x/net/http2/hpack"
)

// FastHTTPHandler adapts a fasthttp.RequestHandler to Handler: rebuild
// a *fasthttp.Request from the decoded pseudo-headers and regular
// fields, run the handler against a *fasthttp.RequestCtx, then
// translate the populated *fasthttp.Response back into outbound
// HEADERS/DATA.
type FastHTTPHandler struct {
	Inner fasthttp.RequestHandler
}

func (h *FastHTTPHandler) ServeH2(ctx context.Context, resp *Responder, req *Request) {
	var rctx fasthttp.RequestCtx
	rctx.Request.Header.SetMethod(req.Method)
	rctx.Request.SetRequestURI(req.Path)
	rctx.Request.URI().SetScheme(req.Scheme)
	if req.Authority != "" {
		rctx.Request.URI().SetHost(req.Authority)
		rctx.Request.Header.SetHost(req.Authority)
	}
	for _, f := range req.Headers {
		switch f.Name {
		case HeaderUserAgent:
			rctx.Request.Header.SetUserAgent(f.Value)
		case HeaderContentType:
			rctx.Request.Header.SetContentType(f.Value)
		default:
			rctx.Request.Header.Add(f.Name, f.Value)
		}
	}

	if body, err := io.ReadAll(req.Body()); err == nil {
		rctx.Request.SetBody(body)
	}

	h.Inner(&rctx)

	headers := make([]hpack.HeaderField, 0, 4)
	headers = append(headers, hpack.HeaderField{
		Name: HeaderContentLength, Value: strconv.Itoa(len(rctx.Response.Body())),
	})
	rctx.Response.Header.VisitAll(func(k, v []byte) {
		name := string(k)
		value := string(v)
		if isConnectionSpecific(name, value) {
			return
		}
		headers = append(headers, hpack.HeaderField{Name: toLowerASCII(name), Value: value})
	})

	_ = resp.WriteHeader(ctx, rctx.Response.StatusCode(), headers)
	if body := rctx.Response.Body(); len(body) > 0 {
		_, _ = resp.Write(ctx, body)
	}
	_ = resp.End(ctx)
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
