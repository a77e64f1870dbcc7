package models

import "testing"

func TestKind(t *testing.T) {
	t.Run("ParseKind", func(t *testing.T) {
		tc := []struct {
			in   string
			want Kind
		}{
			{"track", KindTrack},
			{"Tracks", KindTrack},
			{" album ", KindAlbum},
			{"playlists", KindPlaylist},
		}
		for _, tt := range tc {
			got, err := ParseKind(tt.in)
			if err != nil {
				t.Errorf("ParseKind(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}

		if _, err := ParseKind("artist"); err == nil {
			t.Error("expected error for unsupported kind")
		}
	})

	t.Run("Plural and Label", func(t *testing.T) {
		if KindTrack.Plural() != "tracks" {
			t.Errorf("unexpected plural %q", KindTrack.Plural())
		}
		if KindPlaylist.Label() != "Playlist" {
			t.Errorf("unexpected label %q", KindPlaylist.Label())
		}
	})
}

func TestItemLine(t *testing.T) {
	withExtra := Item{Subtitle: "Artist", Extra: "Album"}
	if withExtra.Line() != "Artist • Album" {
		t.Errorf("unexpected line %q", withExtra.Line())
	}

	noExtra := Item{Subtitle: "Owner"}
	if noExtra.Line() != "Owner" {
		t.Errorf("unexpected line %q", noExtra.Line())
	}
}

func TestSearchRecordValidate(t *testing.T) {
	if err := NewSearchRecord(KindTrack, "love", 3).Validate(); err != nil {
		t.Errorf("expected valid record, got %v", err)
	}
	if err := NewSearchRecord(Kind("artist"), "love", 3).Validate(); err == nil {
		t.Error("expected invalid kind error")
	}
	if err := NewSearchRecord(KindAlbum, "  ", 0).Validate(); err == nil {
		t.Error("expected empty query error")
	}
}
