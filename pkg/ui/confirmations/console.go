// Package confirmations provides console prompts used before destructive
// relocation steps.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/slim/pkg/types"
	"github.com/dustin/go-humanize"
)

// ConsoleDialog asks y/N questions on a line-oriented console
type ConsoleDialog struct {
	in  *bufio.Reader
	out io.Writer
}

// NewConsoleDialog creates a dialog reading answers from in and writing
// questions to out
func NewConsoleDialog(in io.Reader, out io.Writer) *ConsoleDialog {
	return &ConsoleDialog{in: bufio.NewReader(in), out: out}
}

// ConfirmMerge asks whether entry may be merged into its existing target.
// An empty answer or end of input declines.
func (d *ConsoleDialog) ConfirmMerge(entry types.FolderEntry) (bool, error) {
	_, _ = fmt.Fprintf(d.out, "\n%s already exists.\n", entry.TargetPath)
	_, _ = fmt.Fprintf(d.out, "Merge %s (%s) into it? [y/N]: ",
		entry.SourcePath, humanize.IBytes(uint64(max(entry.SizeBytes, 0))))

	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user input: %w", err)
	}

	response := strings.ToLower(strings.TrimSpace(line))
	return response == "y" || response == "yes", nil
}

// Always returns a decider that answers every merge question with answer
func Always(answer bool) types.MergeDecider {
	return func(types.FolderEntry) (bool, error) {
		return answer, nil
	}
}
