/*
   Copyright 2025 The typedsql Authors
	 See https://github.com/typedsql/typedsql/blob/master/LICENSE
*/

package mysql

import (
	version "github.com/hashicorp/go-version"
)

// MinimumSupportedVersion is the oldest server this layer talks to. Older
// servers lack parts of the prepared-statement binary protocol behavior the
// binding engine relies on.
const MinimumSupportedVersion = "5.6"

// ServerInfo represents the online config of a MySQL server, read once at
// connect time.
type ServerInfo struct {
	Version        string
	VersionComment string
	TimeZone       string
}

// SupportsBinaryProtocol checks the server version against the minimum this
// layer supports. An unparseable version is accepted; the server gets the
// benefit of the doubt.
func (this *ServerInfo) SupportsBinaryProtocol() bool {
	serverVersion, err := version.NewVersion(this.Version)
	if err != nil {
		return true
	}
	cutoff, _ := version.NewVersion(MinimumSupportedVersion)
	return serverVersion.GreaterThanOrEqual(cutoff)
}
