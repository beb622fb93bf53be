package provider

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"seasonvar/internal/media"
)

const testBase = "https://seasonvar.ru"

func TestParseCatalogSerialsList(t *testing.T) {
	items, err := ParseCatalog(loadFixture(t, "catalog_serials.html"), mustURL(t, testBase))
	if err != nil {
		t.Fatalf("ParseCatalog() error: %v", err)
	}

	want := []media.ContentItem{
		{
			Name:   "Доктор Хаус",
			Link:   "https://seasonvar.ru/serial-1234-Doktor_Haus.html",
			Poster: "https://seasonvar.ru/img/x.jpg",
			Kind:   media.KindMovie,
		},
		{
			Name:   "Шерлок",
			Link:   "https://seasonvar.ru/serial-5678-Sherlok.html",
			Poster: "https://cdn.seasonvar.ru/oblojka/5678.jpg",
			Kind:   media.KindMovie,
		},
		{
			Name: "Lost",
			Link: "https://seasonvar.ru/serial-42-Lost.html",
			Kind: media.KindMovie,
		},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("ParseCatalog() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatalogFallsBackToShortStory(t *testing.T) {
	items, err := ParseCatalog(loadFixture(t, "catalog_short_story.html"), mustURL(t, testBase))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Poster != "https://seasonvar.ru/poster/a.jpg" {
		t.Errorf("relative poster = %q, want joined to base", items[0].Poster)
	}
	if items[1].Name != "Serial B" || items[1].Link != "https://seasonvar.ru/serial-12-B.html" {
		t.Errorf("items[1] = %+v", items[1])
	}
}

func TestParseCatalogFilmList(t *testing.T) {
	items, err := ParseCatalog(loadFixture(t, "catalog_film_list.html"), mustURL(t, testBase))
	if err != nil {
		t.Fatal(err)
	}

	want := []media.ContentItem{
		{Name: "Dark", Link: "https://seasonvar.ru/serial-21-Dark.html", Poster: "https://cdn.seasonvar.ru/21.jpg", Kind: media.KindMovie},
		{Name: "Fargo", Link: "https://seasonvar.ru/serial-22-Fargo.html", Kind: media.KindMovie},
	}
	if diff := cmp.Diff(want, items); diff != "" {
		t.Errorf("ParseCatalog() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCatalogMalicious(t *testing.T) {
	items, err := ParseCatalog(loadFixture(t, "catalog_malicious.html"), mustURL(t, testBase))
	if err != nil {
		t.Fatal(err)
	}

	// Titles are plain text, and a javascript: link is not resolvable.
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Name != "'; rm -rf / #" {
		t.Errorf("shell injection title = %q, want literal string", items[0].Name)
	}
	if items[1].Name != "$(whoami)" {
		t.Errorf("command substitution title = %q, want literal string", items[1].Name)
	}
}

func TestParseCatalogNoMatch(t *testing.T) {
	items, err := ParseCatalog("<html><body><p>maintenance</p></body></html>", mustURL(t, testBase))
	if err != nil {
		t.Fatalf("no match must not be an error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}

func TestCatalogStrategyIsolation(t *testing.T) {
	doc, err := parseDocument(loadFixture(t, "catalog_serials.html"))
	if err != nil {
		t.Fatal(err)
	}
	base := mustURL(t, testBase)

	tests := []struct {
		strategy CatalogStrategy
		want     int
	}{
		{DefaultCatalogStrategies[0], 3},
		{DefaultCatalogStrategies[1], 1},
		{DefaultCatalogStrategies[2], 0},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.Name, func(t *testing.T) {
			if got := len(tt.strategy.Extract(doc, base)); got != tt.want {
				t.Errorf("%s extracted %d items, want %d", tt.strategy.Name, got, tt.want)
			}
		})
	}
}
