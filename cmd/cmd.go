// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// configFlag is shared by commands that read the TOML configuration.
func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// outputFlags are shared by commands that print API payloads.
func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
		},
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize local database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles account and session operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage your tapelist account and session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in with username or email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "login"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username"},
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Password"},
					&cli.StringFlag{Name: "confirm", Usage: "Password confirmation (defaults to --password)"},
					&cli.StringFlag{Name: "avatar", Usage: "Path to a profile picture to upload"},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "activate",
				Usage: "Activate an account from the emailed uid and token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uid"},
					&cli.StringArg{Name: "token"},
				},
				Action: r.AuthActivate,
			},
			{
				Name:  "reset-password",
				Usage: "Request a password reset email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "email"},
				},
				Action: r.AuthResetPassword,
			},
			{
				Name:  "confirm-reset",
				Usage: "Complete a password reset with the emailed uid and token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "uid"},
					&cli.StringArg{Name: "token"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "New password (prompted when omitted)",
					},
				},
				Action: r.AuthConfirmReset,
			},
			{
				Name:  "import-curl",
				Usage: "Bootstrap a session from a browser request (Copy as cURL)",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command string instead of a file",
					},
				},
				Action: r.AuthImportCurl,
			},
			{
				Name:  "update-profile",
				Usage: "Edit the logged-in account's profile",
				Flags: append(outputFlags(),
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Email address"},
					&cli.StringFlag{Name: "first-name", Usage: "First name"},
					&cli.StringFlag{Name: "last-name", Usage: "Last name"},
					&cli.StringFlag{Name: "avatar", Usage: "Path to a profile picture to upload"},
				),
				Action: r.AuthUpdateProfile,
			},
			{
				Name:    "whoami",
				Usage:   "Show the logged-in account",
				Flags:   outputFlags(),
				Action:  r.AuthWhoami,
				Aliases: []string{"me"},
			},
			{
				Name:   "logout",
				Usage:  "End the current session",
				Action: r.AuthLogout,
			},
		},
	}
}

// playlistsCommand handles playlist browsing and curation
func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Browse and manage playlists",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List your playlists (mine, liked, recent, or popular)",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:    "feed",
						Aliases: []string{"f"},
						Usage:   "Feed to list: mine, liked, recent, popular",
						Value:   "mine",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read the last local snapshot instead of calling the API",
					},
				),
				Action: r.PlaylistsList,
			},
			{
				Name:  "explore",
				Usage: "Browse public playlists",
				Flags: append(outputFlags(),
					&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
					&cli.IntFlag{Name: "limit", Usage: "Playlists per page"},
				),
				Action: r.PlaylistsExplore,
			},
			{
				Name:  "search",
				Usage: "Search public playlists by title, description, or tag",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags: append(outputFlags(),
					&cli.IntFlag{Name: "page", Usage: "Page number", Value: 1},
					&cli.IntFlag{Name: "limit", Usage: "Playlists per page"},
				),
				Action: r.PlaylistsSearch,
			},
			{
				Name:  "tags",
				Usage: "Suggest existing tags matching a prefix",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "prefix"},
				},
				Flags:  outputFlags(),
				Action: r.PlaylistsTags,
			},
			{
				Name:  "show",
				Usage: "Show a playlist with its videos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  outputFlags(),
				Action: r.PlaylistsShow,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: append(outputFlags(),
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Playlist title", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public", Value: true},
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag to attach (repeatable)"},
					&cli.StringFlag{Name: "cover", Usage: "Path to a cover image to upload"},
				),
				Action: r.PlaylistsCreate,
			},
			{
				Name:  "update",
				Usage: "Update a playlist you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: append(outputFlags(),
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Playlist title"},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
					&cli.StringSliceFlag{Name: "tag", Usage: "Tag to attach (repeatable, replaces existing)"},
					&cli.StringFlag{Name: "cover", Usage: "Path to a cover image to upload"},
				),
				Action: r.PlaylistsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.PlaylistsDelete,
			},
			{
				Name:  "like",
				Usage: "Toggle your like on a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistsLike,
			},
			{
				Name:  "share",
				Usage: "Record a share and print the shareable link",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "open", Usage: "Open the link in the default browser"},
				},
				Action: r.PlaylistsShare,
			},
		},
	}
}

// videosCommand handles video operations within playlists
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"vid"},
		Usage:   "Add and remove playlist videos",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a TikTok video to a playlist you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "url"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "title",
						Aliases: []string{"t"},
						Usage:   "Video title (resolved from TikTok when omitted)",
					},
				},
				Action: r.VideosAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a video from a playlist you own",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.VideosRemove,
			},
		},
	}
}

// usersCommand handles profile and follow operations
func usersCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Look up profiles and manage follows",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show a user's profile and public playlists",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Flags:  outputFlags(),
				Action: r.UsersShow,
			},
			{
				Name:  "follow",
				Usage: "Follow a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Action: r.UsersFollow,
			},
			{
				Name:  "unfollow",
				Usage: "Unfollow a user",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "username"},
				},
				Action: r.UsersUnfollow,
			},
		},
	}
}

// historyCommand handles the local search history
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage the local search history",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recent searches, newest first",
				Flags:  outputFlags(),
				Action: r.HistoryList,
			},
			{
				Name:  "remove",
				Usage: "Remove one search from the history",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Action: r.HistoryRemove,
			},
			{
				Name:   "clear",
				Usage:  "Clear the search history",
				Action: r.HistoryClear,
			},
		},
	}
}

// exportCommand handles bulk playlist exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export playlists to local files",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Export playlists concurrently to json, csv, markdown, or txt",
				Flags: append(outputFlags(),
					&cli.StringFlag{
						Name:  "ids",
						Usage: "Comma-separated playlist IDs to export",
					},
					&cli.StringFlag{
						Name:    "feed",
						Aliases: []string{"f"},
						Usage:   "Export every playlist in a feed: mine, liked, recent",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: json, csv, markdown, txt",
						Value: "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers (max 10)",
					},
					&cli.Float64Flag{
						Name:  "rate",
						Usage: "API requests per second",
					},
				),
				Action: r.ExportRun,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive playlist browser",
		Action:  r.TUI,
	}
}
