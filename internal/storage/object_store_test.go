package storage

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		base   string
		secure bool
		key    string
		want   string
	}{
		{name: "cdn base", base: "https://cdn.example.com/img/", key: "ann/01.jpg", want: "https://cdn.example.com/img/ann/01.jpg"},
		{name: "path style", secure: true, key: "ann/01.jpg", want: "https://s3.local:9000/photos/ann/01.jpg"},
		{name: "plain http", key: "bea/a b.png", want: "http://s3.local:9000/photos/bea/a%20b.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PublicURL(tt.base, tt.secure, "s3.local:9000", "photos", tt.key)
			if got != tt.want {
				t.Fatalf("PublicURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		endpoint   string
		useSSL     bool
		wantHost   string
		wantSecure bool
	}{
		{"s3.local:9000", false, "s3.local:9000", false},
		{"s3.local:9000", true, "s3.local:9000", true},
		{"https://s3.amazonaws.com", false, "s3.amazonaws.com", true},
		{"http://minio:9000", true, "minio:9000", false},
	}
	for _, tt := range tests {
		host, secure, err := splitEndpoint(tt.endpoint, tt.useSSL)
		if err != nil {
			t.Fatalf("splitEndpoint(%q): %v", tt.endpoint, err)
		}
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Errorf("splitEndpoint(%q) = %q, %v; want %q, %v", tt.endpoint, host, secure, tt.wantHost, tt.wantSecure)
		}
	}
}
