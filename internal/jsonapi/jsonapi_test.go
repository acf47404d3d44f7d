package jsonapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/port402/anything-cli/internal/apierr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type token struct {
	Value string
}

type itemParams struct {
	ID int
}

type itemBody struct {
	Name string `json:"name"`
}

type itemResponse struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// definitionFor returns a plain-HTTP definition aimed at server.
func definitionFor(t *testing.T, server *httptest.Server, method Method) Definition[token, itemParams] {
	t.Helper()
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	return Definition[token, itemParams]{
		Host: host,
		Port: port,
		Path: func(p itemParams) string {
			return fmt.Sprintf("/items/%d", p.ID)
		},
		Method: method,
		Authorization: func(s token) string {
			return "Bearer " + s.Value
		},
		Secure: false,
	}
}

func TestDefine_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/items/7", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var body itemBody
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "widget", body.Name)

		w.Header().Set("X-Request-Id", "abc")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"id":7,"name":"widget"}`))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodPut))
	resp, err := call(context.Background(), Request[token, itemParams, itemBody]{
		Security:    &token{Value: "secret"},
		Parameters:  &itemParams{ID: 7},
		RequestBody: &itemBody{Name: "widget"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc", resp.Headers.Get("X-Request-Id"))
	assert.Equal(t, itemResponse{ID: 7, Name: "widget"}, resp.ResponseBody)
}

func TestDefine_OpaqueResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"list":[1,"two",null],"nested":{"ok":true}}`))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, map[string]any](definitionFor(t, server, MethodGet))
	resp, err := call(context.Background(), Request[token, itemParams, itemBody]{})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"list":   []any{float64(1), "two", nil},
		"nested": map[string]any{"ok": true},
	}, resp.ResponseBody)
}

func TestDefine_MissingParametersUsesZeroValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/0", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodGet))
	_, err := call(context.Background(), Request[token, itemParams, itemBody]{})
	require.NoError(t, err)
}

func TestDefine_AuthorizationRequiresBothParts(t *testing.T) {
	var (
		mu      sync.Mutex
		sawAuth []bool
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["Authorization"]
		mu.Lock()
		sawAuth = append(sawAuth, present)
		mu.Unlock()
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	withAuth := definitionFor(t, server, MethodGet)
	withoutAuth := definitionFor(t, server, MethodGet)
	withoutAuth.Authorization = nil

	sec := &token{Value: "secret"}
	ctx := context.Background()

	_, err := Define[token, itemParams, itemBody, itemResponse](withAuth)(ctx, Request[token, itemParams, itemBody]{Security: sec})
	require.NoError(t, err)
	_, err = Define[token, itemParams, itemBody, itemResponse](withAuth)(ctx, Request[token, itemParams, itemBody]{})
	require.NoError(t, err)
	_, err = Define[token, itemParams, itemBody, itemResponse](withoutAuth)(ctx, Request[token, itemParams, itemBody]{Security: sec})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false, false}, sawAuth)
}

func TestDefine_NoRequestBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Empty(t, body)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodDelete))
	_, err := call(context.Background(), Request[token, itemParams, itemBody]{})
	require.NoError(t, err)
}

func TestDefine_ResponseError(t *testing.T) {
	for _, status := range []int{400, 401, 404, 422, 500, 503, 599} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("X-Trace", "t-1")
				w.WriteHeader(status)
				w.Write([]byte(`{"error": "nope"} raw`))
			}))
			defer server.Close()

			call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodGet))
			resp, err := call(context.Background(), Request[token, itemParams, itemBody]{})
			require.Error(t, err)
			assert.Nil(t, resp)

			var respErr *ResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, status, respErr.StatusCode)
			assert.Equal(t, "t-1", respErr.Headers.Get("X-Trace"))
			assert.Equal(t, `{"error": "nope"} raw`, respErr.Body)
			assert.Equal(t, apierr.UnexpectedError, respErr.Type)
			assert.Equal(t, "JSONAPIResponseError", respErr.Name)
			assert.NotEmpty(t, respErr.Stack)
			assert.NotContains(t, respErr.Stack, "newResponseError")
		})
	}
}

func TestDefine_BelowThresholdIsNotResponseError(t *testing.T) {
	for _, status := range []int{200, 201, 204, 302, 399} {
		t.Run(strconv.Itoa(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			def := definitionFor(t, server, MethodGet)
			call := Define[token, itemParams, itemBody, itemResponse](def)
			_, err := call(context.Background(), Request[token, itemParams, itemBody]{})

			// An empty body is never JSON, so every case lands on ParseError.
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestDefine_ParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodGet))
	resp, err := call(context.Background(), Request[token, itemParams, itemBody]{})
	require.Error(t, err)
	assert.Nil(t, resp)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "<html>not json</html>", parseErr.Body)
	assert.Equal(t, "text/html", parseErr.Headers.Get("Content-Type"))
	assert.Equal(t, "JSONAPIParseError", parseErr.ErrorName())
	assert.Equal(t, apierr.UnexpectedError, parseErr.ErrorType())

	e, ok := apierr.As(err)
	require.True(t, ok)
	assert.Equal(t, parseErrorMessage, e.ErrorMessage())
}

func TestDefine_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`[1,2,3]`))
	}))
	defer server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](definitionFor(t, server, MethodGet))
	_, err := call(context.Background(), Request[token, itemParams, itemBody]{})

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, http.StatusAccepted, decodeErr.StatusCode)
	assert.Equal(t, `[1,2,3]`, decodeErr.Body)
	assert.NotEmpty(t, decodeErr.Cause)

	var typeErr *json.UnmarshalTypeError
	assert.ErrorAs(t, err, &typeErr)
}

func TestDefine_TransportErrorIsNotWrapped(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	def := definitionFor(t, server, MethodGet)
	server.Close()

	call := Define[token, itemParams, itemBody, itemResponse](def)
	_, err := call(context.Background(), Request[token, itemParams, itemBody]{})
	require.Error(t, err)

	_, isDomain := apierr.As(err)
	assert.False(t, isDomain)
	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
}

func TestDefine_InvalidDefinition(t *testing.T) {
	tests := []struct {
		name string
		def  Definition[token, itemParams]
	}{
		{"no host", Definition[token, itemParams]{Path: func(itemParams) string { return "/" }, Method: MethodGet}},
		{"no path", Definition[token, itemParams]{Host: "example.com", Method: MethodGet}},
		{"bad method", Definition[token, itemParams]{Host: "example.com", Path: func(itemParams) string { return "/" }, Method: "TRACE"}},
		{"bad port", Definition[token, itemParams]{Host: "example.com", Path: func(itemParams) string { return "/" }, Method: MethodGet, Port: 70000}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call := Define[token, itemParams, itemBody, itemResponse](tt.def)
			_, err := call(context.Background(), Request[token, itemParams, itemBody]{})
			require.Error(t, err)
			_, isDomain := apierr.As(err)
			assert.False(t, isDomain)
		})
	}
}

func TestResponseError_MarshalJSON(t *testing.T) {
	err := newResponseError(404, http.Header{"X-A": {"1"}}, "missing")

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "UnexpectedError", got["type"])
	assert.Equal(t, "JSONAPIResponseError", got["name"])
	assert.Equal(t, float64(404), got["statusCode"])
	assert.Equal(t, "missing", got["body"])
	assert.NotEmpty(t, got["stack"])
}
