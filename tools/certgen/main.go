// Package main writes a self-signed development certificate for serving
// the registry over HTTPS (see TLS_CERT and TLS_KEY).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/WargaKeeper/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fset := flag.NewFlagSet("certgen", flag.ContinueOnError)
	dir := fset.String("dir", "certs", "output directory")
	hosts := fset.String("hosts", "localhost,127.0.0.1", "comma-separated DNS names and IPs")
	days := fset.Int("days", 365, "validity in days")
	if err := fset.Parse(args); err != nil {
		return err
	}
	if *days <= 0 {
		return fmt.Errorf("days must be positive, got %d", *days)
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", *dir, err)
	}
	certPEM, keyPEM, err := certgen.GenerateSelfSigned(names, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}

	certPath := filepath.Join(*dir, "server.crt")
	keyPath := filepath.Join(*dir, "server.key")
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %s and %s\n", certPath, keyPath)
	return nil
}
