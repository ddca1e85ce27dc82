package zeebasic

import "os"

// openFile is a thin wrapper over os.Open used by NewFileSourceReader. Tests that need no file on disk build a
// SourceReader over their own io.Reader with NewSourceReader instead.
func openFile(path string) (*os.File, error) {
	return os.Open(path)
}
