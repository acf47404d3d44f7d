// Package jsonapi turns a declarative endpoint description into a typed
// function that performs one JSON request/response cycle.
//
// A Caller serializes the request body, performs the exchange, and
// classifies the outcome:
//
//   - status 400 and above: *ResponseError
//   - body that is not valid JSON: *ParseError
//   - valid JSON that does not fit the response type: *DecodeError
//   - transport failure: the underlying error, unwrapped
package jsonapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/port402/anything-cli/internal/client"
)

// Method is an HTTP request method supported by Definition.
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

func (m Method) valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	}
	return false
}

// Definition describes one remote JSON API operation.
// S is the security (credentials) type and P the routing parameters type.
type Definition[S, P any] struct {
	Host string
	// Path builds the request path. It receives the zero P when the
	// request carries no parameters.
	Path func(P) string
	// Port of 0 uses the scheme default.
	Port   int
	Method Method
	// Authorization, when set, builds the Authorization header value.
	// It is only consulted when the request also carries security.
	Authorization func(S) string
	Secure        bool
}

// Validate reports a malformed definition.
func (d Definition[S, P]) Validate() error {
	if d.Host == "" {
		return errors.New("jsonapi: definition has no host")
	}
	if d.Path == nil {
		return errors.New("jsonapi: definition has no path builder")
	}
	if !d.Method.valid() {
		return fmt.Errorf("jsonapi: unsupported method %q", d.Method)
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("jsonapi: port %d out of range", d.Port)
	}
	return nil
}

// Request holds the per-call inputs. A nil field is absent.
type Request[S, P, B any] struct {
	Security    *S
	Parameters  *P
	RequestBody *B
}

// Response is the outcome of a successful call.
type Response[R any] struct {
	StatusCode   int
	Headers      http.Header
	ResponseBody R
}

// Caller performs one request/response cycle against a defined endpoint.
type Caller[S, P, B, R any] func(ctx context.Context, req Request[S, P, B]) (*Response[R], error)

type options struct {
	client *client.Client
	log    logrus.FieldLogger
}

// Option configures a Caller.
type Option func(*options)

// WithClient sets the transport client.
func WithClient(c *client.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithLogger sets the logger for classification debug lines.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// Define binds def into a Caller. No I/O happens here.
func Define[S, P, B, R any](def Definition[S, P], opts ...Option) Caller[S, P, B, R] {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		o.log = discard
	}
	if o.client == nil {
		o.client = client.New(client.WithLogger(o.log))
	}

	scheme := "http"
	if def.Secure {
		scheme = "https"
	}
	defErr := def.Validate()

	return func(ctx context.Context, req Request[S, P, B]) (*Response[R], error) {
		if defErr != nil {
			return nil, defErr
		}

		var params P
		if req.Parameters != nil {
			params = *req.Parameters
		}

		var authorization string
		if def.Authorization != nil && req.Security != nil {
			authorization = def.Authorization(*req.Security)
		}

		var body []byte
		if req.RequestBody != nil {
			var err error
			body, err = json.Marshal(req.RequestBody)
			if err != nil {
				return nil, fmt.Errorf("encoding request body: %w", err)
			}
		}

		result, err := o.client.Do(ctx, client.Request{
			Scheme:        scheme,
			Host:          def.Host,
			Port:          def.Port,
			Path:          def.Path(params),
			Method:        string(def.Method),
			Authorization: authorization,
			Body:          body,
		})
		if err != nil {
			return nil, err
		}

		return classify[R](result, o.log)
	}
}

// classify turns a raw transport result into a typed response or domain error.
func classify[R any](result *client.Result, log logrus.FieldLogger) (*Response[R], error) {
	if result.StatusCode > 399 {
		log.WithField("status", result.StatusCode).Debug("error response")
		return nil, newResponseError(result.StatusCode, result.Header, result.Body)
	}

	if !IsJSONString(result.Body) {
		log.WithField("status", result.StatusCode).Debug("response body is not JSON")
		return nil, newParseError(result.Header, result.Body)
	}

	var responseBody R
	if err := json.Unmarshal([]byte(result.Body), &responseBody); err != nil {
		log.WithError(err).Debug("response body does not fit response type")
		return nil, newDecodeError(result.StatusCode, result.Header, result.Body, err)
	}

	return &Response[R]{
		StatusCode:   result.StatusCode,
		Headers:      result.Header,
		ResponseBody: responseBody,
	}, nil
}
