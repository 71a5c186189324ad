// Package datalink reads ESO datalink documents and resolves the set of
// files to download for a selection: the science products alone, or the
// science frames together with their calibration cascade.
package datalink
