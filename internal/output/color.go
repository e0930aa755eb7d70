package output

import (
	"io"
	"os"
)

// ResolveColorMode maps the --color flag onto an effective color
// decision. "never" and "always" force the answer; anything else
// (including "auto") falls back to the detected TTY state.
func ResolveColorMode(colorMode string, isTTY bool) bool {
	switch colorMode {
	case "never":
		return false
	case "always":
		return true
	}
	return isTTY
}

// IsTTY reports whether the writer is a character device. Buffers and
// pipes report false, so piped output stays plain.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
