// Package reconcile applies optimistic mutations to local playlist
// snapshots and settles them against the server's response.
//
// Only the like pair (is_liked, like_count) is mutated optimistically:
// the local guess is applied before the request and either confirmed by
// the server's answer or reverted to the exact prior values on failure.
// Every other mutation waits for the server and lands through
// [UpsertByID] or [RemoveByID].
package reconcile

import (
	"context"

	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/models"
)

// LikeState tracks one optimistic like mutation from guess to
// settlement.
type LikeState struct {
	prevLiked bool
	prevCount int
	pending   bool
}

// Pending applies the local guess to p and records the prior values.
func (s *LikeState) Pending(p *models.Playlist) {
	s.prevLiked = p.IsLiked
	s.prevCount = p.LikeCount
	s.pending = true

	p.IsLiked = !p.IsLiked
	if p.IsLiked {
		p.LikeCount++
	} else if p.LikeCount > 0 {
		p.LikeCount--
	}
}

// Confirm settles p with the server's answer. status is the backend's
// "liked"/"unliked" verdict; an empty status keeps the local guess.
func (s *LikeState) Confirm(p *models.Playlist, status string) {
	defer func() { s.pending = false }()

	switch status {
	case "liked":
		if !p.IsLiked {
			p.IsLiked = true
			p.LikeCount++
		}
	case "unliked":
		if p.IsLiked {
			p.IsLiked = false
			if p.LikeCount > 0 {
				p.LikeCount--
			}
		}
	}
}

// Revert restores the exact prior values. Repeated toggle/fail cycles
// therefore never drift the count.
func (s *LikeState) Revert(p *models.Playlist) {
	if !s.pending {
		return
	}
	p.IsLiked = s.prevLiked
	p.LikeCount = s.prevCount
	s.pending = false
}

// InFlight reports whether the mutation is awaiting settlement.
func (s *LikeState) InFlight() bool { return s.pending }

// ToggleLike flips the like pair on p optimistically, posts the toggle,
// and settles. On any failure p is restored exactly and the error is
// returned for the caller's 401 handling.
func ToggleLike(ctx context.Context, client *api.Client, p *models.Playlist) error {
	var state LikeState
	state.Pending(p)

	result, err := client.LikePlaylist(ctx, p.ID)
	if err != nil {
		state.Revert(p)
		return err
	}

	state.Confirm(p, result.Status)
	return nil
}

// UpsertByID replaces the element of list carrying item's ID, or
// prepends item when absent. Used after create/update responses.
func UpsertByID(list []models.Playlist, item models.Playlist) []models.Playlist {
	for i := range list {
		if list[i].ID == item.ID {
			list[i] = item
			return list
		}
	}
	return append([]models.Playlist{item}, list...)
}

// RemoveByID drops the element carrying id, preserving order. Callers
// invoke it only after the server confirmed the deletion.
func RemoveByID(list []models.Playlist, id int) []models.Playlist {
	out := list[:0]
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}
