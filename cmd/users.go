package main

import (
	"context"
	"fmt"

	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// UsersShow prints a user's profile and first page of public playlists.
func (r *Runner) UsersShow(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	user, err := r.client.UserByUsername(ctx, username)
	if err != nil {
		return r.apiErr(err)
	}

	playlists, err := r.client.UserPlaylists(ctx, username, 1, r.pageSize())
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"user":      user,
			"playlists": playlists,
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("@" + user.Username)
	r.writePlain("Name: %s\n", user.DisplayName())
	return r.renderPlaylists(playlists, "Playlists")
}

// UsersFollow follows a user by username.
func (r *Runner) UsersFollow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	user, err := r.client.UserByUsername(ctx, username)
	if err != nil {
		return r.apiErr(err)
	}

	if _, err := r.client.Follow(ctx, user.ID); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Following @%s\n", user.Username)
}

// UsersUnfollow unfollows a user. The follow relationship ID comes from
// the follow status endpoint; the server only accepts deletes by it.
func (r *Runner) UsersUnfollow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	username := cmd.StringArg("username")
	if username == "" {
		return fmt.Errorf("%w: username", shared.ErrMissingArgument)
	}

	user, err := r.client.UserByUsername(ctx, username)
	if err != nil {
		return r.apiErr(err)
	}

	status, err := r.client.Following(ctx, user.ID)
	if err != nil {
		return r.apiErr(err)
	}
	if !status.IsFollowing {
		return r.writePlain("Not following @%s\n", user.Username)
	}

	if err := r.client.Unfollow(ctx, status.FollowID); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Unfollowed @%s\n", user.Username)
}
