package qr

import (
	"bytes"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func TestPaymentURI(t *testing.T) {
	uri := PaymentURI("alice@mockupi", "Alice Kumar")
	if !strings.HasPrefix(uri, "upi://pay?") {
		t.Fatalf("unexpected scheme: %s", uri)
	}

	parsed, err := url.Parse(uri)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	query := parsed.Query()
	if query.Get("pa") != "alice@mockupi" {
		t.Fatalf("expected pa=alice@mockupi, got %s", query.Get("pa"))
	}
	if query.Get("pn") != "Alice Kumar" {
		t.Fatalf("expected pn=Alice Kumar, got %s", query.Get("pn"))
	}
	if query.Get("cu") != "INR" {
		t.Fatalf("expected cu=INR, got %s", query.Get("cu"))
	}
}

func TestRenderProducesPNG(t *testing.T) {
	renderer := NewRenderer("")
	png, err := renderer.Render("alice@mockupi", "Alice")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Fatalf("expected PNG magic bytes, got %x", png[:4])
	}
}

func TestRenderCachesToDisk(t *testing.T) {
	dir := t.TempDir()
	renderer := NewRenderer(dir)

	first, err := renderer.Render("alice@mockupi", "Alice")
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	cached, err := os.ReadFile(filepath.Join(dir, url.PathEscape("alice@mockupi")+".png"))
	if err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	if !bytes.Equal(first, cached) {
		t.Fatal("cache file differs from rendered bytes")
	}

	second, err := renderer.Render("alice@mockupi", "Alice")
	if err != nil {
		t.Fatalf("render cached: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatal("cached render differs from original")
	}
}

func TestRenderSurvivesUnwritableCache(t *testing.T) {
	renderer := NewRenderer(filepath.Join(t.TempDir(), "does-not-exist"))
	png, err := renderer.Render("alice@mockupi", "Alice")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(png, pngHeader) {
		t.Fatal("expected PNG output despite missing cache dir")
	}
}
