// Package lambdaapi serves API Gateway proxy events through the gin engine.
package lambdaapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
)

const requestIDHeader = "X-Request-Id"

type Adapter struct {
	proxy *ginadapter.GinLambda
}

func New(engine *gin.Engine) *Adapter {
	return &Adapter{proxy: ginadapter.New(engine)}
}

// Handle runs one invocation: event to request, dispatch, response to envelope.
// It never returns an error to the runtime; faults become a 500 envelope so API
// Gateway does not answer with its own 502.
func (a *Adapter) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (resp events.APIGatewayProxyResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Default().ErrorContext(ctx, "lambda handler panic", "panic", r, "path", event.Path)
			resp, err = internalError(), nil
		}
	}()

	event = withRequestID(event)

	slog.Default().DebugContext(ctx, "lambda event",
		"method", event.HTTPMethod,
		"path", event.Path,
		"request_id", event.RequestContext.RequestID,
	)

	resp, err = a.proxy.ProxyWithContext(ctx, event)
	if err != nil {
		slog.Default().ErrorContext(ctx, "lambda proxy failed", "err", err, "path", event.Path)
		return internalError(), nil
	}

	return flattenHeaders(resp), nil
}

// withRequestID seeds X-Request-Id from the API Gateway request id when the
// client did not send one.
func withRequestID(event events.APIGatewayProxyRequest) events.APIGatewayProxyRequest {
	id := event.RequestContext.RequestID
	if id == "" {
		return event
	}

	if hasHeader(event, requestIDHeader) {
		return event
	}

	headers := make(map[string]string, len(event.Headers)+1)
	for k, v := range event.Headers {
		headers[k] = v
	}
	headers[requestIDHeader] = id
	event.Headers = headers

	if event.MultiValueHeaders != nil {
		mv := make(map[string][]string, len(event.MultiValueHeaders)+1)
		for k, v := range event.MultiValueHeaders {
			mv[k] = v
		}
		mv[requestIDHeader] = []string{id}
		event.MultiValueHeaders = mv
	}

	return event
}

func hasHeader(event events.APIGatewayProxyRequest, name string) bool {
	canonical := http.CanonicalHeaderKey(name)

	for k := range event.Headers {
		if http.CanonicalHeaderKey(k) == canonical {
			return true
		}
	}
	for k := range event.MultiValueHeaders {
		if http.CanonicalHeaderKey(k) == canonical {
			return true
		}
	}
	return false
}

// flattenHeaders mirrors the multi-value headers into the single-value map.
func flattenHeaders(resp events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if len(resp.MultiValueHeaders) == 0 {
		return resp
	}

	if resp.Headers == nil {
		resp.Headers = make(map[string]string, len(resp.MultiValueHeaders))
	}

	for k, vals := range resp.MultiValueHeaders {
		if _, ok := resp.Headers[k]; ok || len(vals) == 0 {
			continue
		}
		resp.Headers[k] = vals[0]
	}

	return resp
}

func internalError() events.APIGatewayProxyResponse {
	body, _ := json.Marshal(map[string]string{"error": "Internal server error"})

	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}
