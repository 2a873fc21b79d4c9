package synology

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout            time.Duration
	httpClient         *http.Client
	userAgent          string
	sessionName        string
	insecureSkipVerify bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:     defaultTimeout,
		userAgent:   defaultUserAgent,
		sessionName: DefaultSessionName,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the HTTP client. Timeout and TLS options are then ignored.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithSessionName sets the session parameter sent on login and logout.
func WithSessionName(name string) Option {
	return func(o *clientOptions) {
		if name != "" {
			o.sessionName = name
		}
	}
}

// WithInsecureSkipVerify disables certificate verification.
// DSM ships with a self-signed certificate, so this is often needed over HTTPS.
func WithInsecureSkipVerify(skip bool) Option {
	return func(o *clientOptions) {
		o.insecureSkipVerify = skip
	}
}
