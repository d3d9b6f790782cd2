package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atinyakov/WargaKeeper/internal/certgen"
)

func TestRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "certs")
	var out bytes.Buffer

	if err := run([]string{"-dir", dir, "-hosts", "registry.local, 10.0.0.5", "-days", "30"}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "server.crt") {
		t.Errorf("output = %q; want mention of server.crt", out.String())
	}

	cfg, err := certgen.ServerTLSConfig(filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key"))
	if err != nil {
		t.Fatalf("generated files do not load: %v", err)
	}
	leaf := cfg.Certificates[0].Leaf
	if leaf == nil {
		t.Fatal("expected parsed leaf certificate")
	}
	if err := leaf.VerifyHostname("registry.local"); err != nil {
		t.Errorf("VerifyHostname(registry.local): %v", err)
	}
	if err := leaf.VerifyHostname("10.0.0.5"); err != nil {
		t.Errorf("VerifyHostname(10.0.0.5): %v", err)
	}
}

func TestRun_BadArgs(t *testing.T) {
	tests := [][]string{
		{"-days", "0"},
		{"-hosts", " , "},
		{"-unknown"},
	}
	for _, args := range tests {
		args = append([]string{"-dir", t.TempDir()}, args...)
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%v) expected error", args)
		}
	}
}
