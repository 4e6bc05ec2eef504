package browser

import (
	"os"
	"os/exec"
)

// browserNames are looked up on PATH, in order.
var browserNames = []string{
	"chromium-browser",
	"chromium",
	"google-chrome",
	"google-chrome-stable",
}

// commonPaths are checked when nothing is found on PATH.
var commonPaths = []string{
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/snap/bin/chromium",
	"/usr/bin/google-chrome",
}

// LocateBrowser finds a Chromium-family binary on PATH, then in the common
// install locations. It returns "" when none is found, leaving the choice
// to chromedp's built-in lookup.
func LocateBrowser(lookPath func(string) (string, error), isExec func(string) bool) string {
	for _, name := range browserNames {
		if path, err := lookPath(name); err == nil && path != "" {
			return path
		}
	}
	for _, path := range commonPaths {
		if isExec(path) {
			return path
		}
	}
	return ""
}

func locateSystemBrowser() string {
	return LocateBrowser(exec.LookPath, isExecutable)
}

func isExecutable(path string) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return false
	}
	return fi.Mode()&0o111 != 0
}
