package httpclient

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// TLSOptions selects how a client verifies servers.
type TLSOptions struct {
	// TrustAll accepts any certificate and skips hostname verification.
	TrustAll bool
	// CAFile optionally adds a PEM bundle to the system roots.
	CAFile string
}

// Options configure a client.
type Options struct {
	Timeout time.Duration // 0 means no client timeout
	TLS     TLSOptions
}

// NewClient builds an *http.Client with its own transport and connection
// pool. Each worker calls this once so no transport state is shared.
func NewClient(opts Options) (*http.Client, error) {
	if opts.Timeout < 0 {
		return nil, errors.New("timeout must be >= 0")
	}

	tlsConfig, err := newTLSConfig(opts.TLS)
	if err != nil {
		return nil, err
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          16,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		TLSClientConfig:       tlsConfig,
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
	}, nil
}

func newTLSConfig(opts TLSOptions) (*tls.Config, error) {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if opts.TrustAll {
		cfg.InsecureSkipVerify = true
	}
	if opts.CAFile != "" {
		pem, err := os.ReadFile(opts.CAFile)
		if err != nil {
			return nil, fmt.Errorf("tls ca file: %w", err)
		}
		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("tls ca file %q: no certificates found", opts.CAFile)
		}
		cfg.RootCAs = pool
	}
	return cfg, nil
}

// Close releases the idle connections held by client's transport.
func Close(client *http.Client) {
	if client == nil {
		return
	}
	client.CloseIdleConnections()
}
