package formatter

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StartSpinner animates message on w until the returned function is called.
// The stop function clears the line and is safe to call more than once.
func StartSpinner(w io.Writer, message string) func() {
	return startSpinner(w, message, spinner.MiniDot)
}

func startSpinner(w io.Writer, message string, s spinner.Spinner) func() {
	quit := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		tick := time.NewTicker(s.FPS)
		defer tick.Stop()
		for frame := 0; ; frame++ {
			fmt.Fprintf(w, "\r  %s %s", StylePurple.Render(s.Frames[frame%len(s.Frames)]), Dim(message))
			select {
			case <-quit:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-tick.C:
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(quit) })
		<-finished
	}
}
