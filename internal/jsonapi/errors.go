package jsonapi

import (
	"fmt"
	"net/http"

	"github.com/port402/anything-cli/internal/apierr"
)

const (
	responseErrorName    = "JSONAPIResponseError"
	responseErrorMessage = "the JSON API returned an error response"

	parseErrorName    = "JSONAPIParseError"
	parseErrorMessage = "the JSON API returned a response body that is not a JSON string"

	decodeErrorName    = "JSONAPIDecodeError"
	decodeErrorMessage = "the JSON API response body does not match the declared response type"
)

// ResponseError is returned when the remote answers with a status of 400 or above.
type ResponseError struct {
	apierr.Base
	StatusCode int         `json:"statusCode"`
	Headers    http.Header `json:"headers"`
	Body       string      `json:"body"`
}

func newResponseError(statusCode int, headers http.Header, body string) *ResponseError {
	return &ResponseError{
		Base:       apierr.New(apierr.UnexpectedError, responseErrorName, responseErrorMessage, newResponseError),
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
	}
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.Name, e.Message, e.StatusCode)
}

// ParseError is returned when a non-error response body is not valid JSON.
type ParseError struct {
	apierr.Base
	Headers http.Header `json:"headers"`
	Body    string      `json:"body"`
}

func newParseError(headers http.Header, body string) *ParseError {
	return &ParseError{
		Base:    apierr.New(apierr.UnexpectedError, parseErrorName, parseErrorMessage, newParseError),
		Headers: headers,
		Body:    body,
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// DecodeError is returned when the body is valid JSON but cannot be decoded
// into the endpoint's response type.
type DecodeError struct {
	apierr.Base
	StatusCode int         `json:"statusCode"`
	Headers    http.Header `json:"headers"`
	Body       string      `json:"body"`
	Cause      string      `json:"cause"`

	err error
}

func newDecodeError(statusCode int, headers http.Header, body string, cause error) *DecodeError {
	return &DecodeError{
		Base:       apierr.New(apierr.UnexpectedError, decodeErrorName, decodeErrorMessage, newDecodeError),
		StatusCode: statusCode,
		Headers:    headers,
		Body:       body,
		Cause:      cause.Error(),
		err:        cause,
	}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Name, e.Message, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.err }
