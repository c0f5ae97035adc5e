// Package report renders run outcomes for the user.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vk/schematic/internal/run"
	"github.com/vk/schematic/internal/schematic"
)

// Formats supported by Write.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders outcomes to w in the given format.
func Write(w io.Writer, format string, outcomes []*run.Outcome) error {
	switch format {
	case FormatText, "":
		return writeText(w, outcomes)
	case FormatJSON:
		return writeJSON(w, outcomes)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// writeText prints one line per computed value. Lines are prefixed with the
// run name as soon as there is more than one run.
func writeText(w io.Writer, outcomes []*run.Outcome) error {
	for _, o := range outcomes {
		prefix := ""
		if len(outcomes) > 1 {
			prefix = fmt.Sprintf("[%s] ", o.Name)
		}
		if o.Result.Has(schematic.ComputePartSum) {
			if _, err := fmt.Fprintf(w, "%sSum: %d\n", prefix, o.Result.PartSum); err != nil {
				return err
			}
		}
		if o.Result.Has(schematic.ComputeGearRatioSum) {
			if _, err := fmt.Fprintf(w, "%sGear Ratios: %d\n", prefix, o.Result.GearRatioSum); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, outcomes []*run.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Runs []*run.Outcome `json:"runs"`
	}{Runs: outcomes})
}
