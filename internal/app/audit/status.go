package audit

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MOYARU/quantops/internal/app/ui"
)

// startStatusDots animates base with trailing dots until the returned stop
// func is called or ctx ends.
func startStatusDots(ctx context.Context, w io.Writer, base string) func() {
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(400 * time.Millisecond)
		defer ticker.Stop()

		dots := 0
		for {
			select {
			case <-ctx.Done():
				fmt.Fprint(w, "\r\033[K")
				return
			case <-stopCh:
				fmt.Fprint(w, "\r\033[K")
				return
			case <-ticker.C:
				dots = (dots + 1) % 4
				fmt.Fprintf(w, "\r%s%s%s%s\033[K", ui.ColorGray, base, strings.Repeat(".", dots), ui.ColorReset)
			}
		}
	}()

	return func() {
		close(stopCh)
		<-doneCh
	}
}
