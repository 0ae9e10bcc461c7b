package slim

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/arthur-debert/slim/pkg/errors"
	"github.com/arthur-debert/slim/pkg/types"
	"github.com/dustin/go-humanize"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

func validateOutput(format string) error {
	switch format {
	case outputText, outputJSON, outputYAML:
		return nil
	}
	return errors.Newf(errors.ErrInvalidInput, MsgErrOutputFormat, format)
}

// render writes v in the structured format, or calls text for text output
func render(w io.Writer, format string, v interface{}, text func(io.Writer) error) error {
	switch format {
	case outputJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case outputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return text(w)
	}
}

func bytesLabel(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

func renderScanText(w io.Writer, res *types.ScanResult) error {
	_, _ = fmt.Fprintf(w, MsgScanHeader, res.ProfileRoot, bytesLabel(res.Threshold))

	if len(res.Entries) == 0 {
		_, _ = fmt.Fprintln(w, MsgNoCandidates)
	} else {
		data := pterm.TableData{{MsgColumnSize, MsgColumnMove, MsgColumnSource, MsgColumnTarget}}
		for _, e := range res.Entries {
			move := MsgMoveNo
			if e.ShouldMove {
				move = styled(w, "Suggested", MsgMoveYes)
			}
			data = append(data, []string{bytesLabel(e.SizeBytes), move, e.SourcePath, e.TargetPath})
		}

		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w, table)
	}

	_, _ = fmt.Fprintf(w, MsgScanTotal, bytesLabel(res.TotalBytes), len(res.Entries), len(res.Suggested()))
	renderWarnings(w, res.Warnings)
	return nil
}

func renderWarnings(w io.Writer, warnings []types.Failure) {
	if len(warnings) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, styled(w, "Warning", MsgWarningsHeader))
	for _, f := range warnings {
		_, _ = fmt.Fprintf(w, MsgFailureItem, f.Path, f.Reason())
	}
}

// renderFailures lists failures with dangling sources first and styled so
// they stand out from recoverable problems
// renderFailures lists failures worst first, keeping the engine's order
// within a kind
func renderFailures(w io.Writer, failures []types.Failure) {
	if len(failures) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w, styled(w, "Error", MsgSectionFailures))

	ordered := make([]types.Failure, len(failures))
	copy(ordered, failures)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Kind.Severity() > ordered[j].Kind.Severity()
	})

	dangling := false
	for _, f := range ordered {
		if f.Kind == types.DanglingSourceFailure {
			dangling = true
			_, _ = fmt.Fprint(w, styled(w, "Dangling", fmt.Sprintf(MsgDanglingItem, f.Path, f.Reason())))
			continue
		}
		_, _ = fmt.Fprintf(w, MsgFailureItem, f.Path, f.Reason())
	}
	if dangling {
		_, _ = fmt.Fprintln(w, styled(w, "Error", MsgDanglingHint))
	}
}

func renderRelocationText(w io.Writer, res *types.RelocationResult, relocRoot string) error {
	if len(res.Records) > 0 {
		_, _ = fmt.Fprintln(w, styled(w, "Header", MsgSectionRelocated))
		for _, rec := range res.Records {
			_, _ = fmt.Fprintf(w, MsgRelocatedItem, rec.OriginalPath, rec.RelocatedPath)
		}
	}
	for _, rec := range res.Unlogged {
		_, _ = fmt.Fprint(w, styled(w, "Warning", fmt.Sprintf(MsgUnloggedItem, rec.String())))
	}

	if len(res.Skipped) > 0 {
		_, _ = fmt.Fprintln(w, styled(w, "Muted", MsgSectionSkipped))
		for _, s := range res.Skipped {
			_, _ = fmt.Fprintf(w, MsgSkippedItem, s.Path, s.Reason)
		}
	}

	renderFailures(w, res.Failures)

	_, _ = fmt.Fprint(w, styled(w, "Success",
		fmt.Sprintf(MsgRelocateSummary, res.Moved, bytesLabel(res.BytesSaved), relocRoot)))
	return nil
}

func renderUndoText(w io.Writer, res *types.UndoResult) error {
	_, _ = fmt.Fprint(w, styled(w, "Success", fmt.Sprintf(MsgUndoSummary, res.Restored)))

	if len(res.Failures) > 0 {
		_, _ = fmt.Fprintln(w, styled(w, "Error", MsgSectionUndoFailed))
		for _, f := range res.Failures {
			line := fmt.Sprintf(MsgFailureItem, f.Path, f.Reason())
			if f.Kind == types.DanglingSourceFailure {
				line = styled(w, "Dangling", fmt.Sprintf(MsgDanglingItem, f.Path, f.Reason()))
			}
			_, _ = fmt.Fprint(w, line)
		}
	}
	if res.ResidualPath != "" {
		_, _ = fmt.Fprintf(w, MsgResidualNotice, res.ResidualPath)
	}
	return nil
}

func renderFlattenText(w io.Writer, res *types.FlattenResult, destination string) error {
	if len(res.Items) > 0 {
		_, _ = fmt.Fprintln(w, styled(w, "Header", MsgSectionFlattened))
		for _, item := range res.Items {
			_, _ = fmt.Fprintf(w, MsgFlattenItem, item.From, item.To)
		}
	}

	renderFailures(w, res.Failures)

	_, _ = fmt.Fprint(w, styled(w, "Success",
		fmt.Sprintf(MsgFlattenSummary, res.Moved, bytesLabel(res.BytesMoved), destination)))
	return nil
}
