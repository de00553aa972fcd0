// Command certgen issues a self-signed certificate for running the site over
// https on a development machine. Point server.cert_file and server.key_file
// at its output.
package main

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"flag"
	"fmt"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	certFile = "cert.pem"
	keyFile  = "key.pem"
	keyBits  = 2048
	validFor = 2 * 365 * 24 * time.Hour
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

type options struct {
	dir   string
	org   string
	ips   []net.IP
	hosts []string
}

func run() error {
	var (
		out   string
		org   string
		ips   string
		hosts string
	)
	flag.StringVar(&out, "out", ".", "directory for cert.pem and key.pem")
	flag.StringVar(&org, "org", "Club", "certificate organization")
	flag.StringVar(&ips, "ip", "127.0.0.1,::1", "comma separated ip addresses")
	flag.StringVar(&hosts, "host", "localhost", "comma separated dns names")
	flag.Parse()

	opts := options{dir: out, org: org, hosts: splitList(hosts)}
	for _, s := range splitList(ips) {
		ip := net.ParseIP(s)
		if ip == nil {
			return fmt.Errorf("bad ip %q", s)
		}
		opts.ips = append(opts.ips, ip)
	}
	if !missing(filepath.Join(out, certFile)) || !missing(filepath.Join(out, keyFile)) {
		return errors.New("cert exists")
	}
	return generate(opts, time.Now())
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func generate(opts options, now time.Time) error {
	ca := &x509.Certificate{
		SerialNumber:          serial(),
		Subject:               pkix.Name{Organization: []string{opts.org}, CommonName: opts.org + " dev CA"},
		NotBefore:             now,
		NotAfter:              now.Add(validFor),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	caKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return err
	}

	leaf := &x509.Certificate{
		SerialNumber: serial(),
		Subject:      pkix.Name{Organization: []string{opts.org}},
		IPAddresses:  opts.ips,
		DNSNames:     opts.hosts,
		NotBefore:    now,
		NotAfter:     now.Add(validFor),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
	}
	leafKey, err := rsa.GenerateKey(rand.Reader, keyBits)
	if err != nil {
		return err
	}
	der, err := x509.CreateCertificate(rand.Reader, leaf, ca, &leafKey.PublicKey, caKey)
	if err != nil {
		return err
	}

	if err := writePEM(filepath.Join(opts.dir, certFile), "CERTIFICATE", der); err != nil {
		return err
	}
	return writePEM(filepath.Join(opts.dir, keyFile), "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(leafKey))
}

func writePEM(path, blockType string, der []byte) error {
	return os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der}), 0o600)
}

func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

func serial() *big.Int {
	i, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		panic(err)
	}
	return i
}
