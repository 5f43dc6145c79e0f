package storage

import (
	"os"
	"time"

	"github.com/ncruces/go-strftime"
)

// DefaultStampFormat matches the timestamps diff -u puts in file headers.
const DefaultStampFormat = "%Y-%m-%d %H:%M:%S %z"

// Stamp formats the modification time of path with a strftime layout. A
// missing file gets the Unix epoch, the same placeholder diff uses for
// added and deleted files.
func Stamp(path, layout string) string {
	if layout == "" {
		layout = DefaultStampFormat
	}
	t := time.Unix(0, 0)
	if info, err := os.Stat(path); err == nil {
		t = info.ModTime()
	}
	return strftime.Format(layout, t)
}

// Header returns the name used in a unified diff header, with its stamp.
func Header(path, layout string) string {
	return path + "\t" + Stamp(path, layout)
}
