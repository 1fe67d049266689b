package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.GreenString("[INFO]"), fmt.Sprintf(format, args...))
}

func printWarn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", color.YellowString("[WARN]"), fmt.Sprintf(format, args...))
}
