package hclconfig

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/schematic"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "ledger"},
		{Type: "run", LabelNames: []string{"name"}},
		{Type: "publish", LabelNames: []string{"name"}},
	},
}

type runBody struct {
	Input        string         `hcl:"input"`
	Computations hcl.Expression `hcl:"computations,optional"`
}

type publishBody struct {
	URL                string `hcl:"url"`
	Namespace          string `hcl:"namespace,optional"`
	Event              string `hcl:"event"`
	AckEvent           string `hcl:"ack_event,optional"`
	Timeout            string `hcl:"timeout,optional"`
	InsecureSkipVerify bool   `hcl:"insecure_skip_verify,optional"`
}

type ledgerBody struct {
	Path string `hcl:"path"`
}

// resolvePath anchors a relative path at the declaring file's directory.
func resolvePath(baseDir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(baseDir, p)
}

func decodeRun(block *hcl.Block, evalCtx *hcl.EvalContext, baseDir string) (*config.Run, hcl.Diagnostics) {
	name := block.Labels[0]
	if strings.TrimSpace(name) == "" {
		return nil, errorDiag("Invalid run name", "A run block needs a non-empty name label.", block.LabelRanges[0].Ptr())
	}

	var body runBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return nil, diags
	}
	if strings.TrimSpace(body.Input) == "" {
		return nil, errorDiag("Missing input", fmt.Sprintf("Run %q has an empty input path.", name), block.DefRange.Ptr())
	}

	comps, diags := decodeComputations(body.Computations, evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}

	return &config.Run{
		Name:         name,
		Input:        resolvePath(baseDir, body.Input),
		Computations: comps,
	}, nil
}

// decodeComputations reads an optional list of computation names. A missing
// attribute selects every computation.
func decodeComputations(expr hcl.Expression, evalCtx *hcl.EvalContext) ([]schematic.Computation, hcl.Diagnostics) {
	val, diags := expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, diags
	}
	if val.IsNull() {
		return schematic.AllComputations, nil
	}

	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, errorDiag("Invalid computations", fmt.Sprintf("Expected a list of computation names: %s.", err), expr.Range().Ptr())
	}
	var names []string
	if err := gocty.FromCtyValue(listVal, &names); err != nil {
		return nil, errorDiag("Invalid computations", fmt.Sprintf("Expected a list of computation names: %s.", err), expr.Range().Ptr())
	}

	comps, err := schematic.ParseComputations(names)
	if err != nil {
		return nil, errorDiag("Unsupported computation", err.Error()+".", expr.Range().Ptr())
	}
	return comps, nil
}

func decodePublisher(block *hcl.Block, evalCtx *hcl.EvalContext) (*config.Publisher, hcl.Diagnostics) {
	name := block.Labels[0]

	var body publishBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return nil, diags
	}

	u, err := url.Parse(body.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, errorDiag("Invalid publisher URL", fmt.Sprintf("Publisher %q needs an absolute URL, got %q.", name, body.URL), block.DefRange.Ptr())
	}
	if strings.TrimSpace(body.Event) == "" {
		return nil, errorDiag("Missing event", fmt.Sprintf("Publisher %q has an empty event name.", name), block.DefRange.Ptr())
	}

	timeout := config.DefaultPublishTimeout
	if body.Timeout != "" {
		timeout, err = time.ParseDuration(body.Timeout)
		if err != nil || timeout <= 0 {
			return nil, errorDiag("Invalid timeout", fmt.Sprintf("Publisher %q: %q is not a positive duration.", name, body.Timeout), block.DefRange.Ptr())
		}
	}

	namespace := body.Namespace
	if namespace == "" {
		namespace = "/"
	}

	return &config.Publisher{
		Name:               name,
		URL:                body.URL,
		Namespace:          namespace,
		Event:              body.Event,
		AckEvent:           body.AckEvent,
		Timeout:            timeout,
		InsecureSkipVerify: body.InsecureSkipVerify,
	}, nil
}

func decodeLedger(block *hcl.Block, evalCtx *hcl.EvalContext, baseDir string) (*config.Ledger, hcl.Diagnostics) {
	var body ledgerBody
	if diags := gohcl.DecodeBody(block.Body, evalCtx, &body); diags.HasErrors() {
		return nil, diags
	}
	if strings.TrimSpace(body.Path) == "" {
		return nil, errorDiag("Missing ledger path", "The ledger block has an empty path.", block.DefRange.Ptr())
	}
	return &config.Ledger{Path: resolvePath(baseDir, body.Path)}, nil
}
