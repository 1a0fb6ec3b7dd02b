// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for exporting tasks:
//  1. [TaskListView] : Browse tasks fetched from Notion
//  2. [ConfirmView] : Confirm the export operation
//  3. [SyncView] : Monitor real-time progress updates
//  4. [ResultView] : Display created/updated/skipped counts and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the ReconcileEngine, providing non-blocking status reporting during exports.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
