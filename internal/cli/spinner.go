package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RunWithSpinner runs fn while showing a spinner with message on stderr.
// Quiet mode runs fn without any output.
func RunWithSpinner(quiet bool, message string, fn func() error) error {
	return runWithSpinner(os.Stderr, quiet, message, fn)
}

func runWithSpinner(w io.Writer, quiet bool, message string, fn func() error) error {
	if quiet {
		return fn()
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	s.Start()

	err := fn()
	if err != nil {
		s.FinalMSG = text.FgRed.Sprint("❌ "+message+" failed") + "\n"
	}
	s.Stop()
	return err
}
