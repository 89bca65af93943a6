package transport

import (
	"context"
	"fmt"

	"chatgate/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to internal errors. The server continues to accept new
// requests after a panic is recovered.
func Recovery() Middleware {
	return func(next ChatHandler) ChatHandler {
		return ChatHandlerFunc(func(ctx context.Context, req *api.ChatRequest, w StreamWriter) (retErr error) {
			defer func() {
				if r := recover(); r != nil {
					retErr = api.NewInternalError(fmt.Sprintf("panic: %v", r))
				}
			}()
			return next.HandleChat(ctx, req, w)
		})
	}
}
