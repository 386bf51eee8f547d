package service

import (
	"chosung_quiz_backend/internal/config"
	"chosung_quiz_backend/internal/model"
	"chosung_quiz_backend/internal/repository"
	"chosung_quiz_backend/internal/util"
	"chosung_quiz_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const minHangulPerLine = 2

var (
	trackHrefRe    = regexp.MustCompile(`/track/(\d+)`)
	onclickIDRe    = regexp.MustCompile(`(\d{5,})`)
	markupTagRe    = regexp.MustCompile(`<[^>]+>`)
	syncStampRe    = regexp.MustCompile(`\[\d{2}:\d{2}\.\d{2,3}\]`)
	lyricsPrefixes = []string{"N", "T"}
)

// ScraperService pulls the artist's track catalog and lyrics from the
// music site. It is an out-of-band admin job: it paces itself with a rate
// limiter and skips failures instead of aborting the run.
type ScraperService struct {
	songs   *repository.SongRepository
	lyrics  *repository.LyricRepository
	cfg     config.ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
}

func NewScraperService(songs *repository.SongRepository, lyrics *repository.LyricRepository, cfg config.ScraperConfig) *ScraperService {
	delay := time.Duration(cfg.DelaySeconds * float64(time.Second))
	return &ScraperService{
		songs:   songs,
		lyrics:  lyrics,
		cfg:     cfg,
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(delay), 1),
	}
}

type scrapedTrack struct {
	TrackID uint
	Title   string
	Album   string
}

// ScrapeReport is what the admin endpoint returns after a full run.
type ScrapeReport struct {
	Songs int64 `json:"songs"`
	Lines int64 `json:"lines"`
}

// ScrapeAll fetches every track list page, then lyrics for each track that
// has none yet, and persists lines with their chosung rendering.
func (s *ScraperService) ScrapeAll(ctx context.Context) (*ScrapeReport, error) {
	tracks, err := s.fetchAllTracks(ctx)
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Track list fetched", zap.Int("tracks", len(tracks)))

	now := time.Now().UTC()
	for i, t := range tracks {
		if err := s.songs.Upsert(&model.Song{
			TrackID:   t.TrackID,
			Title:     t.Title,
			Album:     t.Album,
			ScrapedAt: now,
		}); err != nil {
			logger.Log.Error("Failed to upsert song", zap.Uint("trackId", t.TrackID), zap.Error(err))
			continue
		}

		has, err := s.lyrics.HasLines(t.TrackID)
		if err != nil {
			return nil, err
		}
		if has {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		text, err := s.fetchLyrics(ctx, t.TrackID)
		if err != nil {
			logger.Log.Warn("No lyrics for track",
				zap.Uint("trackId", t.TrackID),
				zap.String("title", t.Title),
				zap.Error(err))
			continue
		}

		s.storeLines(t.TrackID, text)
		logger.Log.Info("Lyrics stored",
			zap.Int("progress", i+1),
			zap.Int("total", len(tracks)),
			zap.String("title", t.Title))
	}

	songCount, err := s.songs.Count()
	if err != nil {
		return nil, err
	}
	lineCount, err := s.lyrics.Count()
	if err != nil {
		return nil, err
	}
	return &ScrapeReport{Songs: songCount, Lines: lineCount}, nil
}

func (s *ScraperService) storeLines(trackID uint, text string) {
	for lineNo, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || util.CountHangul(line) < minHangulPerLine {
			continue
		}
		err := s.lyrics.InsertLine(&model.LyricLine{
			TrackID:   trackID,
			LineNo:    lineNo + 1,
			LineText:  line,
			Chosung:   util.ExtractChosung(line),
			CharCount: util.CountHangul(line),
		})
		if err != nil {
			logger.Log.Error("Failed to insert lyric line", zap.Uint("trackId", trackID), zap.Error(err))
		}
	}
}

// ListSongs returns the scraped catalog ordered by title, for the admin
// inspection page.
func (s *ScraperService) ListSongs() ([]model.Song, error) {
	return s.songs.ListAll()
}

// SongDetail returns one song with its stored lyric lines.
func (s *ScraperService) SongDetail(trackID uint) (*model.Song, []model.LyricLine, error) {
	song, err := s.songs.FindByTrackID(trackID)
	if err != nil {
		return nil, nil, err
	}
	lines, err := s.lyrics.ListForSong(trackID)
	if err != nil {
		return nil, nil, err
	}
	return song, lines, nil
}

// fetchAllTracks walks the paged track list until an empty page, deduping
// by track id (compilations repeat tracks across pages).
func (s *ScraperService) fetchAllTracks(ctx context.Context) ([]scrapedTrack, error) {
	var all []scrapedTrack
	for page := 1; ; page++ {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		tracks, err := s.fetchTrackPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(tracks) == 0 {
			break
		}
		all = append(all, tracks...)
	}

	seen := make(map[uint]bool, len(all))
	unique := all[:0]
	for _, t := range all {
		if seen[t.TrackID] {
			continue
		}
		seen[t.TrackID] = true
		unique = append(unique, t)
	}
	return unique, nil
}

func (s *ScraperService) fetchTrackPage(ctx context.Context, page int) ([]scrapedTrack, error) {
	url := fmt.Sprintf("%s/artist/%s/tracks?page=%d", s.cfg.BaseURL, s.cfg.ArtistID, page)
	resp, err := s.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("track list page %d: status %d", page, resp.StatusCode)
	}
	return parseTrackList(resp.Body)
}

// parseTrackList extracts (track id, title, album) rows from the artist
// track table. The track id comes from the title anchor's href, with the
// onclick attribute as fallback.
func parseTrackList(r io.Reader) ([]scrapedTrack, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	var tracks []scrapedTrack
	doc.Find("table.list tbody tr").Each(func(_ int, row *goquery.Selection) {
		titleEl := row.Find("p.title a").First()
		if titleEl.Length() == 0 {
			return
		}

		var trackID uint64
		if href, ok := titleEl.Attr("href"); ok {
			if m := trackHrefRe.FindStringSubmatch(href); m != nil {
				trackID, _ = strconv.ParseUint(m[1], 10, 64)
			}
		}
		if trackID == 0 {
			if onclick, ok := titleEl.Attr("onclick"); ok {
				if m := onclickIDRe.FindStringSubmatch(onclick); m != nil {
					trackID, _ = strconv.ParseUint(m[1], 10, 64)
				}
			}
		}
		if trackID == 0 {
			return
		}

		tracks = append(tracks, scrapedTrack{
			TrackID: uint(trackID),
			Title:   strings.TrimSpace(titleEl.Text()),
			Album:   strings.TrimSpace(row.Find("a.album").First().Text()),
		})
	})
	return tracks, nil
}

// fetchLyrics tries the plain lyrics endpoint first, then the time-synced
// one. The API answers JSON {"lyrics": "..."} but occasionally raw text.
func (s *ScraperService) fetchLyrics(ctx context.Context, trackID uint) (string, error) {
	for _, prefix := range lyricsPrefixes {
		url := fmt.Sprintf("%s/player/lyrics/%s/%d", s.cfg.BaseURL, prefix, trackID)
		resp, err := s.get(ctx, url)
		if err != nil {
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil || resp.StatusCode != http.StatusOK {
			continue
		}

		raw := strings.TrimSpace(string(body))
		if raw == "" {
			continue
		}

		var payload struct {
			Lyrics string `json:"lyrics"`
		}
		text := raw
		if err := json.Unmarshal(body, &payload); err == nil && payload.Lyrics != "" {
			text = payload.Lyrics
		}

		if cleaned := cleanLyrics(text); cleaned != "" {
			return cleaned, nil
		}
	}
	return "", util.ErrNoLyricsFound
}

// cleanLyrics strips markup and time-sync stamps and normalizes the text
// to trimmed, non-empty lines.
func cleanLyrics(text string) string {
	text = markupTagRe.ReplaceAllString(text, "")
	text = syncStampRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (s *ScraperService) get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Referer", s.cfg.BaseURL+"/")
	return s.client.Do(req)
}
