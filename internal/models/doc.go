// Package models defines the resource types exchanged with the tapelist backend.
//
// All types mirror the backend's JSON serializers and are treated as immutable
// snapshots: a refetch replaces a value wholesale. The only fields the client
// patches locally are the optimistic like pair on [Playlist] (IsLiked and
// LikeCount), which the reconcile package owns.
//
// The package also carries the client-side validation rules ([ValidatePlaylist],
// [ValidateVideo]) that reject bad form input before any request is issued.
package models
