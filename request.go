package avaserial

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// Request is the request contract consumed by Serialize. It mirrors the
// shape of a framework request object without depending on one: App is an
// opaque application handle, Get is a header accessor, and Query holds the
// parsed query parameters read for only/except criteria.
//
// App and Get are existence-checked only; Serialize never invokes Get.
type Request struct {
	App   interface{}
	Get   func(name string) string
	Query url.Values
}

// valid reports whether the request satisfies the structural contract.
func (r *Request) valid() bool {
	return r != nil && r.App != nil && r.Get != nil
}

// FromHTTP builds a Request from a net/http request. The app handle is
// caller-supplied; typically the server, mux, or application container.
func FromHTTP(app interface{}, r *http.Request) *Request {
	return &Request{
		App:   app,
		Get:   r.Header.Get,
		Query: r.URL.Query(),
	}
}

// FromGin builds a Request from a gin context. The context itself serves as
// the app handle.
func FromGin(c *gin.Context) *Request {
	return &Request{
		App:   c,
		Get:   c.GetHeader,
		Query: c.Request.URL.Query(),
	}
}
