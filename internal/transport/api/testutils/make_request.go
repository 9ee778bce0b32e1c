package testutils

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/goccy/go-json"
)

type RequestOptions struct {
	headers map[string]string
	body    io.Reader
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

// Envelope общий формат ответа api.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) (*http.Response, error) {
	options := RequestOptions{
		headers: make(map[string]string),
		body:    args.Body,
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, options.body)
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()

	args.Router.ServeHTTP(recorder, request)

	return recorder.Result(), nil
}

// ReadEnvelope читает тело ответа и, если передан data, раскладывает в него поле data.
func ReadEnvelope(resp *http.Response, data any) (*Envelope, error) {
	defer resp.Body.Close()

	raw, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, fmt.Errorf("failed to read response body: %s", readErr.Error())
	}

	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response %q: %s", raw, err.Error())
	}
	if data != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, data); err != nil {
			return nil, fmt.Errorf("failed to decode response data: %s", err.Error())
		}
	}
	return &envelope, nil
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

func WithBearer(token string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		if token != "" {
			fn.headers["Authorization"] = "Bearer " + token
		}
	}
}

// WithJSON сериализует payload в тело запроса. Строки и []byte отправляются как есть.
func WithJSON(payload any) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers["Content-Type"] = "application/json"
		switch p := payload.(type) {
		case string:
			fn.body = bytes.NewBufferString(p)
		case []byte:
			fn.body = bytes.NewBuffer(p)
		default:
			data, err := json.Marshal(p)
			if err != nil {
				panic(fmt.Sprintf("testutils: marshal payload: %s", err.Error()))
			}
			fn.body = bytes.NewBuffer(data)
		}
	}
}
