// Package file provides a TOML-file-backed implementation of
// driven.PreferenceStore.
//
// The container is a single TOML file (layout_preferences.toml by default
// under ~/.lister). Edits are serialized by a mutex and persisted by writing
// a temp file in the same directory and renaming it over the container, so a
// reader observes either the previous or the new state, never a partial one.
//
// Change notification uses fsnotify on the containing directory: edits made
// by this process and writes from external tools both surface on watch
// subscriptions. Failed reloads are emitted as error updates rather than
// terminating the subscription; classifying them (recoverable I/O versus
// corrupt data) is left to consumers.
package file
