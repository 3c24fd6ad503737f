package constants

import "time"

// ContentTypeHeader is the HTTP Content-Type header name.
const ContentTypeHeader = "Content-Type"

// RefererHeader is the HTTP Referer header name.
const RefererHeader = "Referer"

// RequestIDHeader is the HTTP header carrying the request ID.
const RequestIDHeader = "X-Request-ID"

// ALB OIDC headers injected by the load balancer after a successful login.
const (
	OIDCAccessTokenHeader = "x-amzn-oidc-accesstoken"
	OIDCDataHeader        = "x-amzn-oidc-data"
)

// ServerReadTimeout is the HTTP server read timeout
const ServerReadTimeout = 15 * time.Second

// ServerWriteTimeout is the HTTP server write timeout
const ServerWriteTimeout = 15 * time.Second

// ServerIdleTimeout is the HTTP server idle timeout
const ServerIdleTimeout = 60 * time.Second

// ServerShutdownTimeout is the timeout for graceful server shutdown
const ServerShutdownTimeout = 5 * time.Second

// ALBPublicKeyFetchTimeout bounds the request for an ALB signing key.
const ALBPublicKeyFetchTimeout = 60 * time.Second
