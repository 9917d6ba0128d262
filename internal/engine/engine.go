// Package engine describes the known LaTeX build engines at the level the
// runner cares about: what artifact they produce and how they are told not
// to stop for interactive input.
package engine

import (
	"fmt"
	"path/filepath"
)

// NonstopFlag forces the engine to run without prompting on errors.
// Common to every TeX-family engine.
const NonstopFlag = "-interaction=nonstopmode"

// OutputDirFlagPrefix is the flag prefix for redirecting build output.
const OutputDirFlagPrefix = "-output-directory="

// artifactExts maps engine executables to the extension of their primary
// build artifact.
var artifactExts = map[string]string{
	"pdflatex": ".pdf",
	"pdftex":   ".pdf",
	"lualatex": ".pdf",
	"luatex":   ".pdf",
	"xelatex":  ".pdf",
	"latex":    ".dvi",
	"tex":      ".dvi",
}

// ArtifactExt returns the primary artifact extension for the named engine,
// or an error for an unrecognized engine. The name may be a bare
// executable name or a full path.
func ArtifactExt(name string) (string, error) {
	ext, ok := artifactExts[filepath.Base(name)]
	if !ok {
		return "", fmt.Errorf("unrecognized LaTeX engine: %s", name)
	}
	return ext, nil
}

// Known reports whether name is a recognized engine executable.
// The name may be a bare executable name or a full path.
func Known(name string) bool {
	_, ok := artifactExts[filepath.Base(name)]
	return ok
}

// Names returns the recognized engine names, unordered.
func Names() []string {
	names := make([]string, 0, len(artifactExts))
	for name := range artifactExts {
		names = append(names, name)
	}
	return names
}
