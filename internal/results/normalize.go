package results

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/desertthunder/spotsearch/internal/models"
	"github.com/tidwall/gjson"
)

// DefaultFallbackImage is used when an item has no cover art.
const DefaultFallbackImage = "images/defaultImage.jpg"

const (
	unknownArtist = "Unknown artist"
	unknownDate   = "Unknown date"
	unknownOwner  = "Unknown owner"
)

// Normalize extracts the items of a search response for kind, in response order.
// Invalid JSON, a missing collection or a non-array collection yield an empty slice.
func Normalize(kind models.Kind, raw []byte, fallback string) []models.Item {
	items := []models.Item{}
	if !kind.Valid() || !gjson.ValidBytes(raw) {
		return items
	}

	collection := gjson.GetBytes(raw, kind.Plural()+".items")
	if !collection.IsArray() {
		return items
	}

	collection.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}

		item := models.Item{
			ID:    orDefault(entry.Get("id"), ""),
			Kind:  kind,
			Title: orDefault(entry.Get("name"), fmt.Sprintf("(Untitled %s)", kind)),
			Raw:   json.RawMessage(entry.Raw),
		}

		switch kind {
		case models.KindTrack:
			item.Subtitle = artistNames(entry.Get("artists"))
			item.Extra = truthyString(entry.Get("album.name"), "")
		case models.KindAlbum:
			item.Subtitle = artistNames(entry.Get("artists"))
			item.Extra = fmt.Sprintf("%s tracks • %s",
				orDefault(entry.Get("total_tracks"), "0"),
				orDefault(entry.Get("release_date"), unknownDate))
		case models.KindPlaylist:
			item.Subtitle = truthyString(entry.Get("owner.display_name"), unknownOwner)
			item.Extra = fmt.Sprintf("%s tracks", orDefault(entry.Get("tracks.total"), "0"))
		}

		item.CoverURL = CoverURL(item, fallback)
		items = append(items, item)
		return true
	})

	return items
}

// CoverURL re-derives the best cover image for item from its raw payload.
// Tracks take their art from the containing album.
func CoverURL(item models.Item, fallback string) string {
	if fallback == "" {
		fallback = DefaultFallbackImage
	}
	if len(item.Raw) == 0 {
		return fallback
	}

	path := "images.0.url"
	if item.Kind == models.KindTrack {
		path = "album.images.0.url"
	}
	return truthyString(gjson.GetBytes(item.Raw, path), fallback)
}

// artistNames joins the truthy artist names, or reports an unknown artist when there are none.
func artistNames(artists gjson.Result) string {
	if !artists.IsArray() {
		return unknownArtist
	}

	var names []string
	for _, a := range artists.Array() {
		if name := a.Get("name"); truthy(name) {
			names = append(names, name.String())
		}
	}
	if len(names) == 0 {
		return unknownArtist
	}
	return strings.Join(names, ", ")
}

// orDefault substitutes def only when r is missing or null.
func orDefault(r gjson.Result, def string) string {
	if !r.Exists() || r.Type == gjson.Null {
		return def
	}
	return r.String()
}

// truthyString substitutes def for any falsy value, including "" and 0.
func truthyString(r gjson.Result, def string) string {
	if !truthy(r) {
		return def
	}
	return r.String()
}

func truthy(r gjson.Result) bool {
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.True, gjson.JSON:
		return true
	}
	return false
}
