package hclconfig

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/ctxlog"
	"github.com/vk/schematic/internal/fsutil"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a loader whose env object reflects the process
// environment at load time.
func NewLoader() *Loader {
	return &Loader{environ: os.Environ}
}

// Load parses every .hcl file under paths and merges their blocks. Run and
// publisher names must be unique across all files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.FindFiles(paths, ".hcl")
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	evalCtx := newEvalContext(l.environ())
	model := &config.Model{}

	var ledgerBlocks hcl.Blocks
	ledgerDirs := make(map[*hcl.Block]string)
	runRanges := make(map[string]hcl.Range)
	publisherRanges := make(map[string]hcl.Range)

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		content, diags := hclFile.Body.Content(rootSchema)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}
		baseDir := filepath.Dir(file)

		for _, block := range content.Blocks {
			switch block.Type {
			case "run":
				if diags := checkUnique(runRanges, "run", block); diags.HasErrors() {
					return nil, fmt.Errorf("invalid run in %s: %w", file, diags)
				}
				run, diags := decodeRun(block, evalCtx, baseDir)
				if diags.HasErrors() {
					return nil, fmt.Errorf("invalid run in %s: %w", file, diags)
				}
				model.Runs = append(model.Runs, run)
			case "publish":
				if diags := checkUnique(publisherRanges, "publish", block); diags.HasErrors() {
					return nil, fmt.Errorf("invalid publisher in %s: %w", file, diags)
				}
				pub, diags := decodePublisher(block, evalCtx)
				if diags.HasErrors() {
					return nil, fmt.Errorf("invalid publisher in %s: %w", file, diags)
				}
				model.Publishers = append(model.Publishers, pub)
			case "ledger":
				ledgerBlocks = append(ledgerBlocks, block)
				ledgerDirs[block] = baseDir
			}
		}
	}

	block, diags := findUniqueBlock(ledgerBlocks, "ledger")
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid ledger: %w", diags)
	}
	if block != nil {
		model.Ledger, diags = decodeLedger(block, evalCtx, ledgerDirs[block])
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid ledger: %w", diags)
		}
	}

	logger.Debug("HCL loading complete.", "runs", len(model.Runs), "publishers", len(model.Publishers), "ledger", model.Ledger != nil)
	return model, nil
}

// checkUnique records the block's label in seen and reports a repeat.
func checkUnique(seen map[string]hcl.Range, kind string, block *hcl.Block) hcl.Diagnostics {
	name := block.Labels[0]
	if first, ok := seen[name]; ok {
		return errorDiag(
			fmt.Sprintf("Duplicate %s %q", kind, name),
			fmt.Sprintf("A %s named %q was already declared at %s.", kind, name, first.String()),
			block.DefRange.Ptr(),
		)
	}
	seen[name] = block.DefRange
	return nil
}
