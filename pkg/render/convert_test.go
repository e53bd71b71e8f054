package render

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"testing"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`

func TestConvertWithoutRsvg(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := ToPDF(context.Background(), []byte(square)); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPDF error = %v, want ErrNoConverter", err)
	}
	if _, err := ToPNG(context.Background(), []byte(square), 2); !errors.Is(err, ErrNoConverter) {
		t.Errorf("ToPNG error = %v, want ErrNoConverter", err)
	}
}

func TestConvert(t *testing.T) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		t.Skip("rsvg-convert not installed")
	}
	ctx := context.Background()

	pdf, err := ToPDF(ctx, []byte(square))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("not a PDF: %q", pdf[:min(len(pdf), 8)])
	}

	png, err := ToPNG(ctx, []byte(square), 0)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("not a PNG: %q", png[:min(len(png), 8)])
	}
}
