package server

import (
	"context"
	"crypto/subtle"
	"strings"

	v1 "github.com/moviediary/backend/api/movie/v1"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/middleware"
	"github.com/go-kratos/kratos/v2/transport"
)

// AuthMiddleware validates Bearer token for admin operations
func AuthMiddleware(token string) middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			// Get transport info
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return nil, errors.Unauthorized("UNAUTHORIZED", "missing transport info")
			}

			if strings.HasPrefix(tr.Operation(), v1.AdminOperationPrefix) {
				// Extract Authorization header
				authHeader := tr.RequestHeader().Get("Authorization")
				if authHeader == "" {
					return nil, errors.Unauthorized("UNAUTHORIZED", "missing Authorization header")
				}

				// Check Bearer token format
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					return nil, errors.Unauthorized("UNAUTHORIZED", "invalid Authorization header format")
				}

				// Validate token
				if token == "" || subtle.ConstantTimeCompare([]byte(parts[1]), []byte(token)) != 1 {
					return nil, errors.Unauthorized("UNAUTHORIZED", "invalid token")
				}
			}

			return handler(ctx, req)
		}
	}
}

// UserIdMiddleware rejects view events that do not name the viewer
func UserIdMiddleware() middleware.Middleware {
	return func(handler middleware.Handler) middleware.Handler {
		return func(ctx context.Context, req interface{}) (interface{}, error) {
			// Get transport info
			tr, ok := transport.FromServerContext(ctx)
			if !ok {
				return handler(ctx, req)
			}

			if tr.Operation() == v1.OperationMovieServiceRecordView {
				if strings.TrimSpace(tr.RequestHeader().Get(v1.UserIdHeader)) == "" {
					return nil, errors.Unauthorized("UNAUTHORIZED", "missing X-User-Id header")
				}
			}

			return handler(ctx, req)
		}
	}
}
