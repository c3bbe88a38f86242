// Package media defines shared types for the ytresolve application.
package media

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// VideoParameters describes the output dimensions a caller wants.
// Only Width and Height influence stream selection.
type VideoParameters struct {
	Width     int
	Height    int
	FrameRate int
}

// Resolution returns the shorter side, which is what the resolver sorts on.
func (p VideoParameters) Resolution() int {
	return min(p.Width, p.Height)
}

func (p VideoParameters) String() string {
	return fmt.Sprintf("%dx%d@%d", p.Width, p.Height, p.FrameRate)
}

// qualities maps a quality label to its landscape dimensions.
var qualities = map[string]VideoParameters{
	"360":  {Width: 640, Height: 360, FrameRate: 30},
	"480":  {Width: 854, Height: 480, FrameRate: 30},
	"720":  {Width: 1280, Height: 720, FrameRate: 30},
	"1080": {Width: 1920, Height: 1080, FrameRate: 30},
	"1440": {Width: 2560, Height: 1440, FrameRate: 30},
	"2160": {Width: 3840, Height: 2160, FrameRate: 30},
}

// ParseQuality returns the parameters for a quality label such as "720" or "1080p".
func ParseQuality(q string) (VideoParameters, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(q)), "p")
	if key == "4k" {
		key = "2160"
	}
	p, ok := qualities[key]
	if !ok {
		return VideoParameters{}, fmt.Errorf("unsupported quality %q (valid: %s)", q, strings.Join(Qualities(), ", "))
	}
	return p, nil
}

// Qualities lists the known quality labels, lowest first.
func Qualities() []string {
	labels := make([]string, 0, len(qualities))
	for k := range qualities {
		labels = append(labels, k)
	}
	sort.Slice(labels, func(i, j int) bool {
		return qualities[labels[i]].Height < qualities[labels[j]].Height
	})
	return labels
}

// Streams holds resolved stream URLs ready for a player or downloader.
type Streams struct {
	Title    string // Display title, may be empty
	VideoURL string // Video stream, or the combined stream
	AudioURL string // Audio stream; equals VideoURL for combined streams
}

// Split reports whether video and audio come from separate URLs.
func (s *Streams) Split() bool {
	return s.AudioURL != "" && s.AudioURL != s.VideoURL
}

// HistoryEntry records a link that was resolved. Stream URLs are never stored.
type HistoryEntry struct {
	Link       string
	Title      string
	Quality    string // e.g. "1080", or "WxH" for explicit dimensions
	Split      bool   // Resolver returned separate video and audio streams
	ResolvedAt time.Time
}
