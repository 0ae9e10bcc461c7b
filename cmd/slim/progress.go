package slim

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const progressSteps = 100

// progressReporter turns engine progress fractions into a pterm bar. It is
// inert when stderr is not a terminal or output is structured.
type progressReporter struct {
	bar  *pterm.ProgressbarPrinter
	last int
}

func startProgress(cmd *cobra.Command, opts *rootOptions, title string) *progressReporter {
	if opts.output != outputText || !isTerminal(cmd.ErrOrStderr()) {
		return &progressReporter{}
	}

	bar, err := pterm.DefaultProgressbar.
		WithTotal(progressSteps).
		WithTitle(title).
		WithWriter(cmd.ErrOrStderr()).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return &progressReporter{}
	}
	return &progressReporter{bar: bar}
}

// Report implements types.ProgressFunc
func (p *progressReporter) Report(fraction float64) {
	if p.bar == nil {
		return
	}
	step := int(fraction * progressSteps)
	if step > progressSteps {
		step = progressSteps
	}
	if step > p.last {
		p.bar.Add(step - p.last)
		p.last = step
	}
}

func (p *progressReporter) Stop() {
	if p.bar != nil {
		_, _ = p.bar.Stop()
		p.bar = nil
	}
}
