package asset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Federal Cafe", "Federal_Cafe"},
		{"Albert's Schloss", "Alberts_Schloss"},
		{"Jack’s Bar", "Jacks_Bar"},
		{"The `Quoted` Room", "The_Quoted_Room"},
		{"Ezra & Gil", "Ezra_&_Gil"},
	}
	for _, tt := range tests {
		if got := SanitizeName(tt.in); got != tt.want {
			t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestImages(t *testing.T) {
	r := NewResolver("images")
	imgs := r.Images("Albert's Schloss", "@schloss")

	if len(imgs) != 2 {
		t.Fatalf("images = %d, want 2", len(imgs))
	}
	if imgs[0].File != "Alberts_Schloss_001.jpg" || imgs[1].File != "Alberts_Schloss_002.jpg" {
		t.Errorf("files = %q, %q", imgs[0].File, imgs[1].File)
	}
	if imgs[0].Caption != "" {
		t.Errorf("first caption = %q, want empty", imgs[0].Caption)
	}
	if imgs[1].Caption != "Source: @schloss" {
		t.Errorf("second caption = %q", imgs[1].Caption)
	}
}

func TestAvailableDropsMissing(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Federal_Cafe_001.jpg"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewResolver(dir)
	ok, errs := r.Available(r.Images("Federal Cafe", ""))

	if len(ok) != 1 || ok[0].File != "Federal_Cafe_001.jpg" {
		t.Errorf("available = %v", ok)
	}
	if len(errs) != 1 || !IsMissing(errs[0]) {
		t.Errorf("errors = %v", errs)
	}
}

func TestOpenMissing(t *testing.T) {
	r := NewResolver(t.TempDir())
	_, err := r.Open("nothing_001.jpg")

	var missing *AssetMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected AssetMissingError, got %v", err)
	}
	if !IsMissing(err) {
		t.Error("expected IsMissing")
	}
}

func TestPathStaysInDir(t *testing.T) {
	r := NewResolver("/srv/images")
	if got := r.Path("../../etc/passwd"); got != filepath.Join("/srv/images", "passwd") {
		t.Errorf("path = %q", got)
	}
}
