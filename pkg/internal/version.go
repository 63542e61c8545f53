// Package internal holds build details shared by the public packages.
package internal

import "runtime/debug"

const (
	_modulePath     = "github.com/luizaranda/go-apiwrapper"
	_unknownVersion = "v0.0.0-unknown"
)

// Version is the module version found in the build info. It covers both
// binaries that depend on the module and the module's own commands.
var Version = moduleVersion()

func moduleVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return _unknownVersion
	}

	if bi.Main.Path == _modulePath && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}

	for _, dep := range bi.Deps {
		if dep.Path == _modulePath {
			return dep.Version
		}
	}

	return _unknownVersion
}
