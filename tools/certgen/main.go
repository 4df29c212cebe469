// Package main generates a self-signed server certificate and key for
// running the API over HTTPS locally, writing them under the "certs"
// directory by default.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atinyakov/UserNotepad/internal/certgen"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("certgen", flag.ContinueOnError)
	fs.SetOutput(out)
	dir := fs.String("out", "certs", "output directory")
	hosts := fs.String("hosts", "localhost,127.0.0.1", "comma separated DNS names and IPs")
	days := fs.Int("days", 365, "validity in days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var names []string
	for _, h := range strings.Split(*hosts, ",") {
		if h = strings.TrimSpace(h); h != "" {
			names = append(names, h)
		}
	}

	certPEM, keyPEM, err := certgen.SelfSigned(names, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}

	certPath := filepath.Join(*dir, "server.crt")
	keyPath := filepath.Join(*dir, "server.key")
	if err := certgen.WriteFiles(certPath, keyPath, certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates generated into %s\n", *dir)
	fmt.Fprintf(out, "TLS_CERT_FILE=%s TLS_KEY_FILE=%s\n", certPath, keyPath)
	return nil
}
