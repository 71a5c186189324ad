// Package model defines domain data structures used across the app: archive
// rows, observation groups, query modes and download tasks. Structures are
// designed for direct binding in the UI and explicit state transitions.
package model
