package hclconfig

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/config"
	"github.com/vk/schematic/internal/schematic"
	"github.com/vk/schematic/internal/testutil"
)

func newTestLoader(env ...string) *Loader {
	return &Loader{environ: func() []string { return env }}
}

func TestLoad_FullModel(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"main.hcl": `
ledger {
  path = "history/runs.db"
}

run "day03" {
  input = "${env.DATA_DIR}/03.txt"
}

run "gears" {
  input        = "/abs/03.txt"
  computations = ["part2"]
}

publish "dashboard" {
  url                  = "https://example.test/socket.io/"
  event                = "schematic.result"
  ack_event            = "schematic.ack"
  timeout              = "2s"
  insecure_skip_verify = true
}
`,
	})

	// --- Act ---
	model, err := newTestLoader("DATA_DIR=/data").Load(context.Background(), filepath.Join(root, "main.hcl"))

	// --- Assert ---
	require.NoError(t, err)
	want := &config.Model{
		Runs: []*config.Run{
			{Name: "day03", Input: "/data/03.txt", Computations: schematic.AllComputations},
			{Name: "gears", Input: "/abs/03.txt", Computations: []schematic.Computation{schematic.ComputeGearRatioSum}},
		},
		Publishers: []*config.Publisher{{
			Name:               "dashboard",
			URL:                "https://example.test/socket.io/",
			Namespace:          "/",
			Event:              "schematic.result",
			AckEvent:           "schematic.ack",
			Timeout:            2 * time.Second,
			InsecureSkipVerify: true,
		}},
		Ledger: &config.Ledger{Path: filepath.Join(root, "history", "runs.db")},
	}
	if diff := cmp.Diff(want, model); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	assert.Same(t, model.Runs[1], model.Run("gears"))
	assert.Nil(t, model.Run("missing"))
}

func TestLoad_DirectoryMergesFiles(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	root := testutil.WriteFiles(t, t.TempDir(), map[string]string{
		"a.hcl":          `run "first" { input = "a.txt" }`,
		"nested/b.hcl":   `run "second" { input = "b.txt" }`,
		"nested/ignored": `this is not hcl`,
	})

	// --- Act ---
	model, err := newTestLoader().Load(context.Background(), root)

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, model.Runs, 2)
	assert.Equal(t, filepath.Join(root, "a.txt"), model.Runs[0].Input)
	assert.Equal(t, filepath.Join(root, "nested", "b.txt"), model.Runs[1].Input, "relative to the declaring file")
	assert.Empty(t, model.Publishers)
	assert.Nil(t, model.Ledger)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		files       map[string]string
		errContains string
	}{
		{
			name:        "syntax error",
			files:       map[string]string{"main.hcl": `run "a" {`},
			errContains: "failed to parse HCL file",
		},
		{
			name:        "unknown block type",
			files:       map[string]string{"main.hcl": `step "print" "a" {}`},
			errContains: "failed to decode HCL file",
		},
		{
			name:        "missing input",
			files:       map[string]string{"main.hcl": `run "a" {}`},
			errContains: `Missing required argument`,
		},
		{
			name:        "empty input",
			files:       map[string]string{"main.hcl": `run "a" { input = "" }`},
			errContains: "empty input path",
		},
		{
			name:        "unknown computation",
			files:       map[string]string{"main.hcl": "run \"a\" {\n input = \"x\"\n computations = [\"perimeter\"]\n}"},
			errContains: "Unsupported computation",
		},
		{
			name:        "computations not a list",
			files:       map[string]string{"main.hcl": "run \"a\" {\n input = \"x\"\n computations = { a = 1 }\n}"},
			errContains: "Invalid computations",
		},
		{
			name: "duplicate run across files",
			files: map[string]string{
				"a.hcl": `run "same" { input = "a" }`,
				"b.hcl": `run "same" { input = "b" }`,
			},
			errContains: `Duplicate run "same"`,
		},
		{
			name:        "duplicate ledger",
			files:       map[string]string{"main.hcl": "ledger { path = \"a.db\" }\nledger { path = \"b.db\" }"},
			errContains: `Duplicate "ledger" block`,
		},
		{
			name:        "undefined environment variable",
			files:       map[string]string{"main.hcl": `run "a" { input = env.NOT_SET }`},
			errContains: "Unsupported attribute",
		},
		{
			name:        "publisher with relative url",
			files:       map[string]string{"main.hcl": "publish \"p\" {\n url = \"/socket.io/\"\n event = \"e\"\n}"},
			errContains: "Invalid publisher URL",
		},
		{
			name:        "publisher with bad timeout",
			files:       map[string]string{"main.hcl": "publish \"p\" {\n url = \"http://h/\"\n event = \"e\"\n timeout = \"soon\"\n}"},
			errContains: "Invalid timeout",
		},
		{
			name: "duplicate publisher",
			files: map[string]string{
				"main.hcl": "publish \"p\" {\n url = \"http://h/\"\n event = \"e\"\n}\npublish \"p\" {\n url = \"http://h/\"\n event = \"e\"\n}",
			},
			errContains: `Duplicate publish "p"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			root := testutil.WriteFiles(t, t.TempDir(), tc.files)

			_, err := newTestLoader().Load(context.Background(), root)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errContains)
		})
	}
}

func TestLoad_MissingPath(t *testing.T) {
	t.Parallel()

	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.hcl"))

	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNewEvalContext_SkipsMalformedPairs(t *testing.T) {
	t.Parallel()

	evalCtx := newEvalContext([]string{"GOOD=1", "=nokey", "NOEQUALS", "EMPTY="})
	env := evalCtx.Variables["env"].AsValueMap()

	assert.Len(t, env, 2)
	assert.Equal(t, "1", env["GOOD"].AsString())
	assert.Equal(t, "", env["EMPTY"].AsString())
}
