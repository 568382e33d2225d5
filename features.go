package main

import (
	"fmt"
	"runtime"
	"sort"
)

// compiledFeatures tracks build-time feature flags via init() registration,
// the same pattern as the teacher's features.go; the display backend files
// each register their own name instead of main.go guessing from build tags.
var compiledFeatures []string

func init() {
	compiledFeatures = append(compiledFeatures,
		"nt-dispatcher-objects",
		"nt-scheduler",
		"nt-handle-table",
		"gdi-handle-table",
		"gdi-raster",
		"win32k-syscalls",
		"pseudo-syscalls",
	)
}

func printFeatures() {
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Println()
	fmt.Println("Compiled features:")

	sort.Strings(compiledFeatures)
	for _, f := range compiledFeatures {
		fmt.Printf("  %s\n", f)
	}
	if len(compiledFeatures) == 0 {
		fmt.Println("  (none)")
	}
}
