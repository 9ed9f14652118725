package version

import (
	"fmt"
	"runtime"
)

const (
	Major      = 1
	Minor      = 0
	Patch      = 0
	PreRelease = ""

	ProductName = "TokenLens"
)

// BuildInfo describes the running binary
type BuildInfo struct {
	ProductName string `json:"product_name"`
	Version     string `json:"version"`
	Major       int    `json:"major"`
	Minor       int    `json:"minor"`
	Patch       int    `json:"patch"`
	GoVersion   string `json:"go_version"`
	Platform    string `json:"platform"`
}

// Version returns the bare semantic version, e.g. "1.0.0"
func Version() string {
	v := fmt.Sprintf("%d.%d.%d", Major, Minor, Patch)
	if PreRelease != "" {
		v += "-" + PreRelease
	}
	return v
}

// GetVersionString returns "v" + Version()
func GetVersionString() string {
	return "v" + Version()
}

// GetFullVersionString returns the product name and version
func GetFullVersionString() string {
	return fmt.Sprintf("%s %s", ProductName, GetVersionString())
}

// GetBanner returns the startup banner
func GetBanner() string {
	return fmt.Sprintf("%s (%s %s/%s) - educational token promotion annotator, not financial advice",
		GetFullVersionString(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// GetBuildInfo returns the build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		ProductName: ProductName,
		Version:     Version(),
		Major:       Major,
		Minor:       Minor,
		Patch:       Patch,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
	}
}
