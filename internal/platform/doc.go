// Package platform contains OS/platform integration: filesystem helpers,
// file name sanitizing and revealing the data directory in the file manager.
package platform
