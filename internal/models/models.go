package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Model defines the base interface for persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines append/list data access for a model type.
type Repository[T Model] interface {
	Create(model T) error        // Create inserts a new model into the database
	List(limit int) ([]T, error) // List returns the newest models first, at most limit of them
}

// Kind is a searchable Spotify resource kind.
type Kind string

const (
	KindTrack    Kind = "track"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
)

// Kinds lists every searchable kind in display order.
var Kinds = []Kind{KindTrack, KindAlbum, KindPlaylist}

// ParseKind accepts a kind name in any case, singular or plural.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !k.Valid() {
		return "", fmt.Errorf("unknown search type %q (want track, album or playlist)", s)
	}
	return k, nil
}

// Valid reports whether k is one of [Kinds].
func (k Kind) Valid() bool {
	switch k {
	case KindTrack, KindAlbum, KindPlaylist:
		return true
	}
	return false
}

func (k Kind) String() string { return string(k) }

// Plural returns "tracks", "albums" or "playlists".
func (k Kind) Plural() string { return string(k) + "s" }

// Label returns the capitalized kind, e.g. "Track".
func (k Kind) Label() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// Item is a normalized search result.
//
// Raw holds the original resource JSON; it is retained for cover extraction and is never modified.
type Item struct {
	ID       string          `json:"id"`
	Kind     Kind            `json:"type"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
	Extra    string          `json:"extra,omitempty"`
	CoverURL string          `json:"cover_url"`
	Raw      json.RawMessage `json:"raw,omitempty"`
}

// Line returns the subtitle with extra appended after a bullet when extra is set.
func (i Item) Line() string {
	if i.Extra == "" {
		return i.Subtitle
	}
	return i.Subtitle + " • " + i.Extra
}

// SearchRecord is one executed search persisted to history.
type SearchRecord struct {
	id          string
	sequence    int
	kind        Kind
	query       string
	resultCount int
	createdAt   time.Time
}

// NewSearchRecord creates an unsaved record stamped with the current time.
func NewSearchRecord(kind Kind, query string, resultCount int) *SearchRecord {
	return &SearchRecord{kind: kind, query: query, resultCount: resultCount, createdAt: time.Now().UTC()}
}

func (r *SearchRecord) ID() string           { return r.id }
func (r *SearchRecord) Sequence() int        { return r.sequence }
func (r *SearchRecord) Kind() Kind           { return r.kind }
func (r *SearchRecord) Query() string        { return r.query }
func (r *SearchRecord) ResultCount() int     { return r.resultCount }
func (r *SearchRecord) CreatedAt() time.Time { return r.createdAt }

func (r *SearchRecord) SetID(id string)          { r.id = id }
func (r *SearchRecord) SetSequence(seq int)      { r.sequence = seq }
func (r *SearchRecord) SetCreatedAt(t time.Time) { r.createdAt = t }

// Validate checks the record before persistence.
func (r *SearchRecord) Validate() error {
	if !r.kind.Valid() {
		return fmt.Errorf("invalid kind %q", r.kind)
	}
	if strings.TrimSpace(r.query) == "" {
		return fmt.Errorf("query is required")
	}
	if r.resultCount < 0 {
		return fmt.Errorf("result count cannot be negative")
	}
	return nil
}
