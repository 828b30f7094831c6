package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rateconverter/internal/rates"
)

// TimestampLayout is how capture times are written: local wall clock, no zone.
const TimestampLayout = "2006-01-02T15:04:05.999999"

// DefaultTTL is how long a cached table stays usable.
const DefaultTTL = 24 * time.Hour

// Record is a rate table together with the moment it was captured.
type Record struct {
	Timestamp time.Time
	Base      string
	Rates     rates.Table
}

// Fresh reports whether the record is younger than ttl at now.
func (r Record) Fresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.Timestamp) < ttl
}

// fileRecord is the on-disk shape.
type fileRecord struct {
	Timestamp string      `json:"timestamp"`
	Base      string      `json:"base,omitempty"`
	Rates     rates.Table `json:"rates"`
}

// Store reads and writes a single JSON cache file.
type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load returns the cached record if the file exists and holds a usable table.
// A missing file and a malformed one are both reported as a plain miss.
func (s *Store) Load() (Record, bool) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Record{}, false
	}
	var fr fileRecord
	if err := json.Unmarshal(b, &fr); err != nil {
		return Record{}, false
	}
	ts, err := ParseTimestamp(fr.Timestamp)
	if err != nil {
		return Record{}, false
	}
	if err := fr.Rates.Validate(); err != nil {
		return Record{}, false
	}
	return Record{Timestamp: ts, Base: rates.NormalizeCode(fr.Base), Rates: fr.Rates}, true
}

// Save overwrites the cache file with rec.
func (s *Store) Save(rec Record) error {
	fr := fileRecord{
		Timestamp: rec.Timestamp.Local().Format(TimestampLayout),
		Base:      rec.Base,
		Rates:     rec.Rates,
	}
	b, err := json.Marshal(fr)
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache dir: %w", err)
		}
	}
	if err := os.WriteFile(s.Path, b, 0o644); err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// ParseTimestamp accepts the local ISO-8601 form written by Save (with or
// without fractional seconds) as well as RFC 3339 with an explicit zone.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
