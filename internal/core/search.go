// ABOUTME: Search over extracted notes using date phrases and index criteria
// ABOUTME: Repairs a drifted index before querying and remembers the last search
package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/snessa7/god-cli/internal/dates"
	"github.com/snessa7/god-cli/internal/models"
	"github.com/snessa7/god-cli/internal/query"
	"github.com/snessa7/god-cli/internal/storage/sqlite"
)

// ErrUnrecognizedDate is returned when a date phrase resolves to nothing.
// The search is aborted rather than run without the date filter.
var ErrUnrecognizedDate = errors.New("unrecognized date")

// ErrNoLastSearch is returned when no previous search has been saved.
var ErrNoLastSearch = errors.New("no previous search saved")

// Request is a search as the user phrased it.
type Request struct {
	DatePhrase    string   `json:"date,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	MinImportance int      `json:"min_importance,omitempty"`
	Limit         int      `json:"limit,omitempty"`
}

// Searcher runs searches against the extracted store.
type Searcher struct {
	storage *sqlite.Storage
	now     func() time.Time
}

// NewSearcher creates a searcher using the wall clock for date phrases.
func NewSearcher(storage *sqlite.Storage) *Searcher {
	return &Searcher{storage: storage, now: time.Now}
}

// SetClock replaces the clock used to resolve relative date phrases.
func (s *Searcher) SetClock(now func() time.Time) {
	s.now = now
}

// Criteria resolves the date phrase and returns the query criteria for r.
func (s *Searcher) Criteria(r Request) (query.Criteria, error) {
	c := query.Criteria{
		Topic:         r.Topic,
		Category:      r.Category,
		Tags:          r.Tags,
		MinImportance: r.MinImportance,
		Limit:         r.Limit,
	}
	if phrase := strings.TrimSpace(r.DatePhrase); phrase != "" {
		key, ok := dates.Resolve(phrase, s.now())
		if !ok {
			return c, fmt.Errorf("%w: %q (try today, yesterday, this week, last monday, or YYYY-MM-DD)", ErrUnrecognizedDate, phrase)
		}
		c.Date = key
	}
	return c, nil
}

// EnsureIndex rebuilds the metadata index when its row count differs from
// extracted_info. It reports whether a rebuild ran.
func (s *Searcher) EnsureIndex(ctx context.Context) (bool, error) {
	indexed, extracted, err := s.storage.Index().Counts(ctx)
	if err != nil {
		return false, err
	}
	if indexed == extracted {
		return false, nil
	}
	log.Warn("metadata index out of sync, rebuilding", "indexed", indexed, "extracted", extracted)
	if _, err := s.storage.Index().Rebuild(ctx, nil); err != nil {
		return false, err
	}
	return true, nil
}

// Search runs r and saves it as the last search.
func (s *Searcher) Search(ctx context.Context, r Request) ([]models.ExtractedInfo, error) {
	c, err := s.Criteria(r)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, query.ErrNoCriteria
	}
	if _, err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	results, err := s.storage.Extracted().Search(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := s.saveLast(ctx, r); err != nil {
		log.Warn("could not save last search", "err", err)
	}
	return results, nil
}

func (s *Searcher) saveLast(ctx context.Context, r Request) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return s.storage.Preferences().Set(ctx, models.PrefLastSearch, string(data))
}

// LastRequest returns the most recently saved search.
func (s *Searcher) LastRequest(ctx context.Context) (Request, error) {
	var r Request
	raw, err := s.storage.Preferences().Get(ctx, models.PrefLastSearch)
	if err != nil {
		if sqlite.IsNotFound(err) {
			return r, ErrNoLastSearch
		}
		return r, err
	}
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return r, fmt.Errorf("failed to decode last search: %w", err)
	}
	return r, nil
}
