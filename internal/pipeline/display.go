package pipeline

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
)

// Display handles terminal progress output for a build.
type Display struct {
	w       io.Writer
	title   string
	verbose bool
	stop    chan struct{}
	done    chan struct{}
}

// NewDisplay creates a display that writes to stdout.
func NewDisplay(title string, verbose bool) *Display {
	return &Display{w: os.Stdout, title: title, verbose: verbose}
}

// nameColumnWidth fits the longest built-in step name.
const nameColumnWidth = 28

// Header prints the build header.
func (d *Display) Header() {
	fmt.Fprintf(d.w, "\n%s %s\n", color.Bold.Sprint("nfbuild"), d.title)
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
}

// StepStart prints a step-in-progress line and starts an elapsed time ticker.
// In non-verbose mode, the line is updated in place every second with elapsed time.
// In verbose mode, a plain line is printed and tool output follows on subsequent lines.
func (d *Display) StepStart(name, description string) {
	if d.verbose {
		fmt.Fprintf(d.w, "%s %-*s %s\n", color.Info.Sprint("▶"), nameColumnWidth, name, description)
		return
	}
	// Print without trailing newline so the ticker can overwrite in place.
	fmt.Fprintf(d.w, "⏳ %-*s %s", nameColumnWidth, name, description)

	stop := make(chan struct{})
	done := make(chan struct{})
	d.stop = stop
	d.done = done
	start := time.Now()

	go func() {
		defer close(done)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				fmt.Fprintf(d.w, "\r⏳ %-*s %s %.0fs",
					nameColumnWidth, name, description, time.Since(start).Seconds())
			}
		}
	}()
}

// stopTicker stops the elapsed time goroutine and waits for it to finish.
func (d *Display) stopTicker() {
	if d.stop != nil {
		close(d.stop)
		<-d.done
		d.stop = nil
		d.done = nil
	}
}

func (d *Display) linePrefix() string {
	if d.verbose {
		return ""
	}
	// Clear the running line before overwriting it.
	return "\r\x1b[K"
}

// StepDone prints a completed step line.
func (d *Display) StepDone(name string, duration time.Duration) {
	d.stopTicker()
	fmt.Fprintf(d.w, "%s%s %-*s %.1fs\n",
		d.linePrefix(), color.Success.Sprint("✔"), nameColumnWidth, name, duration.Seconds())
}

// StepFailed prints a failed step line.
func (d *Display) StepFailed(name string, err error) {
	d.stopTicker()
	fmt.Fprintf(d.w, "%s%s %-*s %s\n",
		d.linePrefix(), color.Danger.Sprint("✘"), nameColumnWidth, name, firstLine(err.Error()))
}

// Summary prints the final run summary.
func (d *Display) Summary(steps int, totalDuration time.Duration) {
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
	fmt.Fprintf(d.w, "%s %d steps  %.0fs\n\n", color.Success.Sprint("Done"), steps, totalDuration.Seconds())
}

// Failed prints a failure summary.
func (d *Display) Failed(err error) {
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
	fmt.Fprintf(d.w, "%s %s\n\n", color.Danger.Sprint("Failed:"), err.Error())
}

// Cancelled prints the interruption notice.
func (d *Display) Cancelled() {
	d.stopTicker()
	fmt.Fprintln(d.w, strings.Repeat("─", 76))
	fmt.Fprintf(d.w, "%s\n\n", color.Warn.Sprint("Cancelled"))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
