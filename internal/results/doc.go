// Package results turns raw search responses into [models.Item] rows and holds the current result set.
//
// [Normalize] never fails. Spotify responses are read with gjson so that a missing collection, a null entry or a
// missing field degrades to a placeholder instead of an error:
//
//	track    title=name          subtitle=artists[].name       extra=album.name
//	album    title=name          subtitle=artists[].name       extra="{total_tracks} tracks • {release_date}"
//	playlist title=name          subtitle=owner.display_name   extra="{tracks.total} tracks"
//
// [Set] is replaced wholesale by each search. Callers take a [Ticket] before issuing a request and the
// response is only applied if no later ticket has been issued since.
package results
