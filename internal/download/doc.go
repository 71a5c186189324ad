// Package download fetches archive files for a selection. It resolves the
// file set through the datalink resolver, then downloads each file in turn,
// tracking one task per file and reporting overall progress to the UI.
package download
