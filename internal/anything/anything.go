// Package anything binds the httpbin.org "anything" echo endpoint.
//
// The service echoes the request back, so the response contract mirrors
// what was sent: the URL, selected headers, the method and the JSON body.
package anything

import (
	"github.com/port402/anything-cli/internal/jsonapi"
)

const (
	// Host is the remote echo service.
	Host = "httpbin.org"
	// Path is the fixed echo path.
	Path = "/anything/users"
)

// Security carries the bearer token.
type Security struct {
	Token string
}

// Parameters is empty; the path takes no routing values.
type Parameters struct{}

// RequestBody is the JSON document sent to the endpoint.
type RequestBody struct {
	MailAddress string `json:"mailAddress" jsonschema:"title=mail address,minLength=1"`
}

// ResponseBody is the echoed document.
type ResponseBody struct {
	URL     string          `json:"url" jsonschema:"title=echoed request URL"`
	Headers ResponseHeaders `json:"headers"`
	Method  string          `json:"method" jsonschema:"enum=GET,enum=POST,enum=PUT,enum=DELETE,enum=PATCH"`
	JSON    EchoedBody      `json:"json"`
}

// ResponseHeaders holds the echoed request headers this client relies on.
type ResponseHeaders struct {
	Authorization string `json:"Authorization"`
	Host          string `json:"Host"`
}

// EchoedBody is the request body as parsed by the service.
type EchoedBody struct {
	MailAddress string `json:"mailAddress"`
}

// Target selects where the endpoint lives. The zero Port uses the scheme default.
type Target struct {
	Host   string
	Port   int
	Secure bool
}

// DefaultTarget is the public service over TLS.
var DefaultTarget = Target{Host: Host, Secure: true}

// Caller is the bound endpoint function.
type Caller = jsonapi.Caller[Security, Parameters, RequestBody, ResponseBody]

// Definition returns the endpoint definition for target.
func Definition(target Target) jsonapi.Definition[Security, Parameters] {
	return jsonapi.Definition[Security, Parameters]{
		Host:   target.Host,
		Port:   target.Port,
		Path:   func(Parameters) string { return Path },
		Method: jsonapi.MethodPost,
		Authorization: func(s Security) string {
			return "Bearer " + s.Token
		},
		Secure: target.Secure,
	}
}

// New binds the endpoint at target.
func New(target Target, opts ...jsonapi.Option) Caller {
	return jsonapi.Define[Security, Parameters, RequestBody, ResponseBody](Definition(target), opts...)
}
