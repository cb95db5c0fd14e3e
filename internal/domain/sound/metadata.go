package sound

import (
	"path/filepath"
	"strings"
)

// Metadata is what an audio file says about itself.
// Zero values mean the file carried no such tag.
type Metadata struct {
	Title  string
	Genres []string
	BPM    int
	Key    string
}

// NameFromFilename strips directories and the extension: "loops/Bass Loop.wav" -> "Bass Loop".
func NameFromFilename(filename string) string {
	base := filepath.Base(filename)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
}
