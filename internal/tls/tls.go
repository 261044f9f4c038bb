// Package tls provides TLS certificate loading and self-signed generation
// for the HTTP intake server.
package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

// Setup returns the tls.Config for the intake server, or nil when TLS is
// disabled. With cert and key files it loads them; otherwise it falls
// back to an in-memory self-signed certificate covering the listen
// address, which is only suitable for development.
func Setup(enabled bool, certFile, keyFile, listenAddr string) (*tls.Config, error) {
	if !enabled {
		return nil, nil
	}

	if certFile != "" && keyFile != "" {
		return Load(certFile, keyFile)
	}
	return SelfSigned(listenHost(listenAddr))
}

// listenHost extracts the host part of a listen address. Addresses like
// ":8080" have no host and fall back to localhost.
func listenHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return "localhost"
	}
	return host
}

// Load builds a tls.Config from a certificate and key file pair.
func Load(certFile, keyFile string) (*tls.Config, error) {
	// Validate that files exist before attempting to load
	if _, err := os.Stat(certFile); err != nil {
		return nil, fmt.Errorf("certificate file not found: %w", err)
	}
	if _, err := os.Stat(keyFile); err != nil {
		return nil, fmt.Errorf("key file not found: %w", err)
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}

	return configFor(cert), nil
}

// SelfSigned builds a tls.Config around a freshly generated self-signed
// certificate covering the given hosts. No files are written to disk;
// localhost and 127.0.0.1 are always included.
func SelfSigned(hosts ...string) (*tls.Config, error) {
	cert, err := generateSelfSignedCert(hosts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate self-signed cert: %w", err)
	}
	return configFor(*cert), nil
}

func configFor(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}
}

// generateSelfSignedCert generates an in-memory ECDSA P-256 self-signed
// certificate valid for 1 year. SANs cover the given hosts plus
// localhost and 127.0.0.1.
func generateSelfSignedCert(hosts []string) (*tls.Certificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ECDSA key: %w", err)
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	dnsNames := []string{"localhost"}
	ipAddresses := []net.IP{net.ParseIP("127.0.0.1")}
	for _, h := range hosts {
		if h == "" || h == "localhost" {
			continue
		}
		if ip := net.ParseIP(h); ip != nil {
			if !ip.Equal(ipAddresses[0]) {
				ipAddresses = append(ipAddresses, ip)
			}
			continue
		}
		dnsNames = append(dnsNames, h)
	}

	template := &x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			CommonName: dnsNames[0],
		},
		NotBefore: time.Now(),
		NotAfter:  time.Now().Add(365 * 24 * time.Hour),

		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,

		DNSNames:    dnsNames,
		IPAddresses: ipAddresses,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to create X509 key pair: %w", err)
	}

	return &cert, nil
}
