// Package buildinfo reports build metadata injected with -ldflags:
//
//	go build -ldflags "-X github.com/dmitrijs2005/mindbalance/internal/buildinfo.Version=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Date    = "N/A"
	Commit  = "N/A"
)

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes version, date and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(Commit))
}
