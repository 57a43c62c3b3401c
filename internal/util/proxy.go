package util

import (
	"net/http"
	"net/url"
)

// NewProxyFunc builds the transport proxy selector for the EDGAR client.
// Explicit config wins; with neither proxy set it defers to the standard
// HTTP_PROXY/HTTPS_PROXY environment handling.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
