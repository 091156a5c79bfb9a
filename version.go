package lrc

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var versionFile string

// Version is the current version of the LRC scheme tooling.
var Version = strings.TrimSpace(versionFile)
