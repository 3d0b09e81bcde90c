package desktop

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-grab", "after-grab"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		if got := sanitizeLabel(tt.in); got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUnpremultiply(t *testing.T) {
	pixels := []byte{
		100, 50, 0, 200, // half-ish alpha
		10, 20, 30, 255, // opaque: unchanged
		0, 0, 0, 0, // transparent: unchanged
	}
	img := unpremultiply(pixels, 3, 1)
	if got := img.Pix[0:4]; got[0] != 127 || got[1] != 63 || got[2] != 0 || got[3] != 200 {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.Pix[4:8]; got[0] != 10 || got[1] != 20 || got[2] != 30 || got[3] != 255 {
		t.Errorf("pixel 1 = %v", got)
	}
	if got := img.Pix[8:12]; got[3] != 0 {
		t.Errorf("pixel 2 = %v", got)
	}
}

func TestScreenshotterSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := &screenshotter{dir: dir}
	s.request("before grab")
	s.request("")

	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	if err := s.save(img, now); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(s.queue) != 0 {
		t.Errorf("queue = %v, want empty", s.queue)
	}
	want := []string{
		filepath.Join(dir, "20260304_050607_before_grab.png"),
		filepath.Join(dir, "20260304_050607_unlabeled.png"),
	}
	if strings.Join(s.written, ",") != strings.Join(want, ",") {
		t.Fatalf("written = %v, want %v", s.written, want)
	}

	f, err := os.Open(want[0])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 4 || b.Dy() != 2 {
		t.Errorf("bounds = %v", b)
	}
}

func TestScreenshotterSaveError(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	s := &screenshotter{dir: filepath.Join(file, "sub")}
	s.request("x")
	err := s.save(image.NewNRGBA(image.Rect(0, 0, 1, 1)), time.Now())
	if err == nil || !strings.Contains(err.Error(), "mkdir") {
		t.Errorf("err = %v, want mkdir error", err)
	}
	if len(s.queue) != 0 {
		t.Error("queue should be cleared on error")
	}
}
