// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing playlists:
//  1. [ExploreView] : Infinite-scrolling feed of public playlists
//  2. [SearchView] : Query input with history autocomplete
//  3. [DetailView] : Videos of the selected playlist
//  4. [ConfirmView] : Confirm removal of an owned video
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Scrolling near the bottom of the explore list triggers the next page
// fetch through the pager; likes are applied optimistically and revert
// when the backend rejects them.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, l, /, d, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
