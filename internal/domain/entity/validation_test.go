package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://feeds.example.com/rss", wantErr: false},
		{name: "valid http URL", url: "http://example.com/feed", wantErr: false},
		{name: "valid URL with port", url: "https://example.com:8080/feed", wantErr: false},
		{name: "localhost is syntactically valid", url: "http://localhost/feed", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/feed", wantErr: true},
		{name: "invalid scheme - file", url: "file:///etc/passwd", wantErr: true},
		{name: "no host", url: "https://", wantErr: true},
		{name: "malformed URL", url: "ht!tp://example.com", wantErr: true},
		{name: "relative URL", url: "/news/rss.xml", wantErr: true},
		{name: "no scheme", url: "example.com", wantErr: true},
		{name: "URL exceeding maximum length", url: "https://example.com/" + strings.Repeat("a", 2050), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ValidateURL(%q) error = %v, want ErrInvalidArgument", tt.url, err)
			}
		})
	}
}
