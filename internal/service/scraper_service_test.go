package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const trackListFixture = `
<html><body>
<table class="list">
<tbody>
<tr>
  <td><p class="title"><a href="/track/31992904">어디에도</a></p></td>
  <td><a class="album">Ceremony</a></td>
</tr>
<tr>
  <td><p class="title"><a href="#" onclick="play(31992905)">사랑은 아프려고 하는 거죠</a></p></td>
  <td><a class="album">Circle</a></td>
</tr>
<tr>
  <td><p class="title"><span>no anchor, skipped</span></p></td>
</tr>
<tr>
  <td><p class="title"><a href="/nowhere">no track id, skipped</a></p></td>
</tr>
</tbody>
</table>
</body></html>`

func TestParseTrackList(t *testing.T) {
	tracks, err := parseTrackList(strings.NewReader(trackListFixture))
	if err != nil {
		t.Fatalf("parseTrackList: %v", err)
	}
	if len(tracks) != 2 {
		t.Fatalf("len(tracks) = %d, want 2", len(tracks))
	}

	if tracks[0].TrackID != 31992904 || tracks[0].Title != "어디에도" || tracks[0].Album != "Ceremony" {
		t.Errorf("track[0] = %+v", tracks[0])
	}
	// Track id recovered from the onclick attribute when the href has none.
	if tracks[1].TrackID != 31992905 || tracks[1].Title != "사랑은 아프려고 하는 거죠" {
		t.Errorf("track[1] = %+v", tracks[1])
	}
}

func TestParseTrackListEmptyPage(t *testing.T) {
	tracks, err := parseTrackList(strings.NewReader("<html><body></body></html>"))
	if err != nil {
		t.Fatalf("parseTrackList: %v", err)
	}
	if len(tracks) != 0 {
		t.Errorf("len(tracks) = %d, want 0", len(tracks))
	}
}

func TestCleanLyrics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"markup stripped",
			"<br>바람이 분다<br/>\n서러운 마음에",
			"바람이 분다\n서러운 마음에",
		},
		{
			"sync stamps stripped",
			"[00:12.34]바람이 분다\n[01:02.345]서러운 마음에",
			"바람이 분다\n서러운 마음에",
		},
		{
			"crlf and blank lines normalized",
			"바람이 분다\r\n\r\n  서러운 마음에  \r",
			"바람이 분다\n서러운 마음에",
		},
		{
			"markup only collapses to empty",
			"<div><span></span></div>",
			"",
		},
	}
	for _, tt := range tests {
		if got := cleanLyrics(tt.in); got != tt.want {
			t.Errorf("%s: cleanLyrics(%q) = %q, want %q", tt.name, tt.in, got, tt.want)
		}
	}
}

func newTestScraper(baseURL string) *ScraperService {
	return NewScraperService(nil, nil, config.ScraperConfig{
		BaseURL:      baseURL,
		ArtistID:     "80091134",
		DelaySeconds: 0.001,
		UserAgent:    "test-agent",
	})
}

func TestFetchLyricsJSONEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/player/lyrics/N/31992904" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("User-Agent = %q", got)
		}
		fmt.Fprint(w, `{"lyrics": "바람이 분다<br>서러운 마음에"}`)
	}))
	defer srv.Close()

	text, err := newTestScraper(srv.URL).fetchLyrics(context.Background(), 31992904)
	if err != nil {
		t.Fatalf("fetchLyrics: %v", err)
	}
	if text != "바람이 분다\n서러운 마음에" {
		t.Errorf("text = %q", text)
	}
}

func TestFetchLyricsFallsBackToSynced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/player/lyrics/N/31992904":
			http.NotFound(w, r)
		case "/player/lyrics/T/31992904":
			fmt.Fprint(w, `{"lyrics": "[00:10.00]바람이 분다"}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	text, err := newTestScraper(srv.URL).fetchLyrics(context.Background(), 31992904)
	if err != nil {
		t.Fatalf("fetchLyrics: %v", err)
	}
	if text != "바람이 분다" {
		t.Errorf("text = %q", text)
	}
}

func TestFetchLyricsRawTextResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "바람이 분다\n서러운 마음에")
	}))
	defer srv.Close()

	text, err := newTestScraper(srv.URL).fetchLyrics(context.Background(), 31992904)
	if err != nil {
		t.Fatalf("fetchLyrics: %v", err)
	}
	if text != "바람이 분다\n서러운 마음에" {
		t.Errorf("text = %q", text)
	}
}

func TestFetchLyricsNoneFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := newTestScraper(srv.URL).fetchLyrics(context.Background(), 31992904)
	if !errors.Is(err, util.ErrNoLyricsFound) {
		t.Errorf("err = %v, want ErrNoLyricsFound", err)
	}
}
