package browser

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://apod.nasa.gov/apod/image/a.jpg", "https://apod.nasa.gov/apod/image/a.jpg", false},
		{"http://example.com", "http://example.com", false},
		{"//www.youtube.com/watch?v=abc", "https://www.youtube.com/watch?v=abc", false},
		{"  https://example.com/x  ", "https://example.com/x", false},
		{"file:///etc/passwd", "", true},
		{"javascript:alert(1)", "", true},
		{"ftp://example.com", "", true},
		{"https://", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := Normalize(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Normalize(%q): expected error, got %q", tt.url, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Normalize(%q): unexpected error: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestCommandCarriesURL(t *testing.T) {
	cmd, err := Command("//apod.nasa.gov/x.jpg")
	if err != nil {
		t.Fatal(err)
	}
	last := cmd.Args[len(cmd.Args)-1]
	if last != "https://apod.nasa.gov/x.jpg" {
		t.Errorf("command opens %q", last)
	}
}

func TestOpenRejectsNonHTTP(t *testing.T) {
	if err := Open("file:///etc/passwd"); err == nil {
		t.Error("expected error")
	}
}
