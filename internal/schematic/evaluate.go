package schematic

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Computation names one of the aggregate values the engine can produce.
type Computation string

const (
	ComputePartSum      Computation = "part_sum"
	ComputeGearRatioSum Computation = "gear_ratio_sum"
)

// AllComputations is the default selection, in report order.
var AllComputations = []Computation{ComputePartSum, ComputeGearRatioSum}

// ParseComputation accepts a computation name or its puzzle-part alias
// ("part1", "part2").
func ParseComputation(s string) (Computation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ComputePartSum), "part1":
		return ComputePartSum, nil
	case string(ComputeGearRatioSum), "part2":
		return ComputeGearRatioSum, nil
	default:
		return "", fmt.Errorf("unknown computation %q: must be one of part_sum, gear_ratio_sum, part1, part2", s)
	}
}

// ParseComputations parses a selection. "all" or an empty list selects every
// computation; duplicates collapse and the result follows report order.
func ParseComputations(names []string) ([]Computation, error) {
	var out []Computation
	for _, name := range names {
		if strings.EqualFold(strings.TrimSpace(name), "all") {
			return AllComputations, nil
		}
		c, err := ParseComputation(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return normalize(out)
}

// Result carries the outputs of one evaluation. Only the fields of the
// computations listed in Computed are meaningful.
type Result struct {
	Computed     []Computation `json:"computed"`
	Numbers      int           `json:"numbers"`
	PartSum      uint64        `json:"part_sum"`
	GearRatioSum uint64        `json:"gear_ratio_sum"`
	Gears        []Gear        `json:"gears,omitempty"`
}

// Has reports whether c was computed.
func (r *Result) Has(c Computation) bool {
	return slices.Contains(r.Computed, c)
}

// normalize validates comps and collapses them into report order. An empty
// selection means every computation.
func normalize(comps []Computation) ([]Computation, error) {
	if len(comps) == 0 {
		return AllComputations, nil
	}
	selected := make(map[Computation]bool, len(comps))
	for _, c := range comps {
		if !slices.Contains(AllComputations, c) {
			return nil, fmt.Errorf("unknown computation %q", c)
		}
		selected[c] = true
	}
	out := make([]Computation, 0, len(selected))
	for _, c := range AllComputations {
		if selected[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

// Evaluate extracts and indexes g once, then runs the selected calculators
// concurrently against the shared index. Each computation runs at most once
// however often it is listed; an empty selection runs all of them.
func Evaluate(ctx context.Context, g *Grid, comps []Computation) (*Result, error) {
	comps, err := normalize(comps)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	x := Build(g)
	res := &Result{Computed: comps, Numbers: len(x.Numbers())}

	eg, egCtx := errgroup.WithContext(ctx)
	for _, c := range comps {
		switch c {
		case ComputePartSum:
			eg.Go(func() error {
				res.PartSum = PartSum(x)
				return egCtx.Err()
			})
		case ComputeGearRatioSum:
			eg.Go(func() error {
				gears := Gears(x)
				var sum uint64
				for _, gear := range gears {
					sum += gear.Ratio
				}
				res.Gears, res.GearRatioSum = gears, sum
				return egCtx.Err()
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
