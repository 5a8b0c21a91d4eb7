package storage

import "testing"

func TestNewReturnsNilWithoutCredentials(t *testing.T) {
	c, err := New("", "eu-central", "", "", "media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when storage is unconfigured")
	}
}

func TestFileURL(t *testing.T) {
	c, err := New("https://s3.example.com/", "eu-central", "key", "secret", "media", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := c.FileURL("uploads/photo.jpg")
	want := "https://s3.example.com/media/uploads/photo.jpg"
	if got != want {
		t.Errorf("FileURL: got %q, want %q", got, want)
	}

	cdn, err := New("https://s3.example.com", "eu-central", "key", "secret", "media", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got = cdn.FileURL("uploads/photo.jpg")
	want = "https://cdn.example.com/uploads/photo.jpg"
	if got != want {
		t.Errorf("FileURL with CDN: got %q, want %q", got, want)
	}
}

func TestExtractS3Key(t *testing.T) {
	c, _ := New("https://s3.example.com", "eu-central", "key", "secret", "media", "https://cdn.example.com")

	key, ok := c.ExtractS3Key("https://cdn.example.com/uploads/a.png")
	if !ok || key != "uploads/a.png" {
		t.Errorf("CDN URL: got (%q, %v)", key, ok)
	}

	key, ok = c.ExtractS3Key("https://s3.example.com/media/uploads/b.png")
	if !ok || key != "uploads/b.png" {
		t.Errorf("path-style URL: got (%q, %v)", key, ok)
	}

	_, ok = c.ExtractS3Key("https://elsewhere.example.com/c.png")
	if ok {
		t.Error("foreign URL should not match")
	}
}
