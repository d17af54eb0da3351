// Package progressbar implements functionality of printing a progress
// bar to the terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// ProgressBar implements a progress bar that must be manually managed.
// That is, the Display() function must be called whenever an updated
// progress bar should be printed.
//
// ProgressBar is not safe for concurrent use.
type ProgressBar struct {
	// width determines the number of characters wide that the progress
	// bar should be
	width float64

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress     float64
	currentProgress float64

	out       io.Writer
	bar       strings.Builder
	startTime time.Time
}

// New returns a new progress bar printing to out that is width
// characters wide and reaches 100% capacity after max Increment()
// calls
func New(out io.Writer, width, max int) *ProgressBar {
	return &ProgressBar{
		width:       float64(width),
		maxProgress: float64(max),
		out:         out,
		startTime:   time.Now(),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Fraction returns the fraction of the progress bar that is complete
func (p *ProgressBar) Fraction() float64 {
	if p.maxProgress <= 0 {
		return 1.0
	}
	return p.currentProgress / p.maxProgress
}

// String returns the progress bar without the elapsed time
func (p *ProgressBar) String() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.Fraction() * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%%]", p.Fraction()*100))

	return p.bar.String()
}

// Display prints the progress bar over the previously displayed one
func (p *ProgressBar) Display() {
	elapsed := time.Since(p.startTime).Truncate(time.Second)
	fmt.Fprintf(p.out, "\r\033[K%v elapsed: %v", p.String(), elapsed)
}

// Close prints the final progress bar and moves to the next line
func (p *ProgressBar) Close() {
	p.Display()
	fmt.Fprintln(p.out)
}
