package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"os"
)

// APITLS builds a *tls.Config for the API connection from the API_TLS_*
// fields. Returns nil, nil when nothing is configured.
func (c *Config) APITLS() (*tls.Config, error) {
	if c.APITLSCert == "" && c.APITLSKey == "" && c.APITLSCACert == "" && c.APITLSServerName == "" {
		return nil, nil
	}

	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.APITLSCert != "" || c.APITLSKey != "" {
		cert, err := tls.LoadX509KeyPair(c.APITLSCert, c.APITLSKey)
		if err != nil {
			return nil, fmt.Errorf("load api client cert: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if c.APITLSCACert != "" {
		caPEM, err := os.ReadFile(c.APITLSCACert)
		if err != nil {
			return nil, fmt.Errorf("read api CA cert: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(caPEM) {
			return nil, fmt.Errorf("failed to parse api CA cert")
		}
		tlsConfig.RootCAs = pool
	}

	if c.APITLSServerName != "" {
		tlsConfig.ServerName = c.APITLSServerName
	}

	return tlsConfig, nil
}

// HTTPClient returns the http.Client API calls should use, applying
// APITimeout and APITLS.
func (c *Config) HTTPClient() (*http.Client, error) {
	tlsConfig, err := c.APITLS()
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: c.APITimeout}
	if tlsConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = tlsConfig
		client.Transport = transport
	}
	return client, nil
}
