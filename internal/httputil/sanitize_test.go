package httputil

import (
	"net/url"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"valid HTTP", "http://seasonvar.ru/serial-1.html", false},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"empty string", "", true},
		{"relative path", "/img/x.jpg", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	base, err := url.Parse("https://seasonvar.ru")
	if err != nil {
		t.Fatal(err)
	}
	page, err := url.Parse("https://seasonvar.ru/serial-123-Name.html")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		base    *url.URL
		ref     string
		want    string
		wantErr bool
	}{
		{"root relative poster", base, "/img/x.jpg", "https://seasonvar.ru/img/x.jpg", false},
		{"absolute passes through", base, "https://cdn.example.com/p.jpg", "https://cdn.example.com/p.jpg", false},
		{"protocol relative", base, "//player.example.com/embed/1", "https://player.example.com/embed/1", false},
		{"page relative", page, "ep2.html", "https://seasonvar.ru/ep2.html", false},
		{"surrounding whitespace", base, "  /a.html ", "https://seasonvar.ru/a.html", false},
		{"empty", base, "", "", true},
		{"javascript", base, "javascript:void(0)", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.base, tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.ref, got, tt.want)
			}
		})
	}
}

func TestSearchURL(t *testing.T) {
	base, _ := url.Parse("https://seasonvar.ru")
	got := SearchURL(base, " Доктор Хаус ")
	want := "https://seasonvar.ru/search?query=%D0%94%D0%BE%D0%BA%D1%82%D0%BE%D1%80+%D0%A5%D0%B0%D1%83%D1%81"
	if got != want {
		t.Errorf("SearchURL = %q, want %q", got, want)
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base     string
		segments []string
		want     string
	}{
		{"https://seasonvar.ru", []string{"new"}, "https://seasonvar.ru/new"},
		{"https://seasonvar.ru/", []string{"top"}, "https://seasonvar.ru/top"},
		{"https://seasonvar.ru", []string{"a b"}, "https://seasonvar.ru/a%20b"},
	}
	for _, tt := range tests {
		if got := BuildURL(tt.base, tt.segments...); got != tt.want {
			t.Errorf("BuildURL(%q, %v) = %q, want %q", tt.base, tt.segments, got, tt.want)
		}
	}
}
