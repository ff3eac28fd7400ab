package app

import (
	"fmt"
	"io"
	"sync"

	"github.com/7azmi/hr-finder/internal/pipeline"
	"github.com/fatih/color"
)

// progressPrinter emits one line per resolved domain. Informational only;
// the CSV is the data contract.
type progressPrinter struct {
	mu    sync.Mutex
	w     io.Writer
	total int
	done  int

	green  *color.Color
	red    *color.Color
	yellow *color.Color
}

func newProgressPrinter(w io.Writer, total int) *progressPrinter {
	if w == nil {
		w = io.Discard
	}
	return &progressPrinter{
		w:      w,
		total:  total,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
	}
}

func (p *progressPrinter) row(r pipeline.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++

	prefix := fmt.Sprintf("[%d/%d] %s: ", p.done, p.total, r.Domain)
	if r.SearchSuccess == "True" {
		_, _ = fmt.Fprint(p.w, prefix)
		_, _ = p.green.Fprintf(p.w, "found %s (%s)\n", r.FoundName, r.FoundEmail)
		return
	}
	_, _ = fmt.Fprint(p.w, prefix)
	_, _ = p.red.Fprintf(p.w, "failed: %s - %s\n", r.APIErrorType, r.APIErrorExplanation)
}

func (p *progressPrinter) reusedRow(r pipeline.Row) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.done++

	_, _ = fmt.Fprintf(p.w, "[%d/%d] %s: ", p.done, p.total, r.Domain)
	_, _ = p.yellow.Fprintf(p.w, "reused prior result (%s)\n", r.FoundEmail)
}
