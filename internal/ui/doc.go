// Package ui contains the Fyne desktop interface: the search window with its
// result table and details panel, the preferences and download dialogs, and
// the log and downloads windows. Long operations run on worker.Runner and
// hand their results back on the UI goroutine through fyne.Do.
package ui
