package psarc

import "log"

// warnf writes a diagnostic message to the standard logger, matching the
// teacher's ambient use of log.Printf throughout super.go/tablereader.go/
// inode.go rather than a structured logging library.
func warnf(format string, args ...any) {
	log.Printf("psarc: "+format, args...)
}
