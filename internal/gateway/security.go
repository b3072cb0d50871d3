package gateway

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// TLSCredentials secures the gateway connection, trusting caFile in
// addition to the system pool when it is set.
type TLSCredentials struct {
	caFile string
}

// NewTLSCredentials creates a new TLSCredentials instance.
func NewTLSCredentials(caFile string) *TLSCredentials {
	return &TLSCredentials{caFile: caFile}
}

// TransportCredentials loads the CA and builds the TLS configuration.
func (c *TLSCredentials) TransportCredentials() (credentials.TransportCredentials, error) {
	tlsConfig := &tls.Config{MinVersion: tls.VersionTLS12}

	if c.caFile != "" {
		pem, err := os.ReadFile(c.caFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA file: %w", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", c.caFile)
		}
		tlsConfig.RootCAs = pool
	}

	return credentials.NewTLS(tlsConfig), nil
}

// PlainCredentials leaves the gateway connection unencrypted.
type PlainCredentials struct{}

// NewPlainCredentials creates a new PlainCredentials instance.
func NewPlainCredentials() *PlainCredentials {
	return &PlainCredentials{}
}

// TransportCredentials returns insecure credentials.
func (PlainCredentials) TransportCredentials() (credentials.TransportCredentials, error) {
	return insecure.NewCredentials(), nil
}
