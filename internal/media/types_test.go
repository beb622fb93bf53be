package media

import (
	"encoding/json"
	"testing"
)

func TestSentinels(t *testing.T) {
	eps := NoEpisodes()
	if len(eps) != 1 || !eps[0].IsSentinel() || eps[0].Kind != KindInfo {
		t.Errorf("NoEpisodes() = %+v", eps)
	}
	links := NoVideo()
	if len(links) != 1 || !links[0].IsSentinel() || links[0].Format != FormatError {
		t.Errorf("NoVideo() = %+v", links)
	}

	if (Episode{Name: "Серия 1", Link: "https://x/1", Kind: KindEpisode}).IsSentinel() {
		t.Error("a real episode is not a sentinel")
	}
	if (VideoLink{File: "https://x/video.mp4", Format: FormatMP4}).IsSentinel() {
		t.Error("a real link is not a sentinel")
	}
}

func TestWireShape(t *testing.T) {
	season := 2
	tests := []struct {
		name string
		v    any
		want string
	}{
		{"item", ContentItem{Name: "Lost", Link: "https://x/lost", Kind: KindMovie},
			`{"name":"Lost","link":"https://x/lost","type":"movie"}`},
		{"episode", Episode{Name: "Season - 1", Link: "https://x/e1", Season: &season, Kind: KindEpisode},
			`{"name":"Season - 1","link":"https://x/e1","season":2,"type":"episode"}`},
		{"video sentinel", NoVideo()[0],
			`{"file":"#","type":"error","error":"video not found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.v)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("json = %s, want %s", got, tt.want)
			}
		})
	}
}
