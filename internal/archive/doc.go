// Package archive talks to the services behind an ESO archive search: the
// CDS Sesame name resolver, the ESO token endpoint and the ESO TAP service.
// Service.Query ties them together and hands the rows to the grouper.
package archive
