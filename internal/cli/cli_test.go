package cli

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/schematic/internal/app"
	"github.com/vk/schematic/internal/envconfig"
	"github.com/vk/schematic/internal/schematic"
)

var testDefaults = envconfig.Defaults{
	LogLevel:  "info",
	LogFormat: "text",
	Output:    "text",
	Workers:   4,
}

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		defaults       *envconfig.Defaults
		expectExit     bool
		expectErr      string
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "all flags",
			args: []string{
				"-input", "/data/03.txt",
				"--config=/etc/runs.hcl",
				"--part=part2",
				"--output=json",
				"--log-level=debug",
				"--log-format=json",
				"--workers=8",
				"--ledger=/tmp/runs.db",
			},
			expectedConfig: &app.Config{
				InputPath:    "/data/03.txt",
				ConfigPath:   "/etc/runs.hcl",
				Computations: []schematic.Computation{schematic.ComputeGearRatioSum},
				Output:       "json",
				LogLevel:     "debug",
				LogFormat:    "json",
				Workers:      8,
				LedgerPath:   "/tmp/runs.db",
			},
		},
		{
			name: "positional input and defaults",
			args: []string{"03.txt"},
			expectedConfig: &app.Config{
				InputPath:    "03.txt",
				Computations: schematic.AllComputations,
				Output:       "text",
				LogLevel:     "info",
				LogFormat:    "text",
				Workers:      4,
			},
		},
		{
			name:     "environment defaults feed the flags",
			args:     []string{"-c", "runs/"},
			defaults: &envconfig.Defaults{LogLevel: "warn", LogFormat: "json", Output: "json", Workers: 2, LedgerPath: "env.db"},
			expectedConfig: &app.Config{
				ConfigPath:   "runs/",
				Computations: schematic.AllComputations,
				Output:       "json",
				LogLevel:     "warn",
				LogFormat:    "json",
				Workers:      2,
				LedgerPath:   "env.db",
			},
		},
		{
			name: "shorthand wins over positional",
			args: []string{"-i", "a.txt", "b.txt"},
			expectedConfig: &app.Config{
				InputPath:    "a.txt",
				Computations: schematic.AllComputations,
				Output:       "text",
				LogLevel:     "info",
				LogFormat:    "text",
				Workers:      4,
			},
		},
		{
			name: "comma separated parts",
			args: []string{"--part=gear_ratio_sum,part_sum", "03.txt"},
			expectedConfig: &app.Config{
				InputPath:    "03.txt",
				Computations: schematic.AllComputations,
				Output:       "text",
				LogLevel:     "info",
				LogFormat:    "text",
				Workers:      4,
			},
		},
		{
			name:       "help flag",
			args:       []string{"-h"},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "Usage:")
				assert.Contains(t, output, "INPUT_PATH")
			},
		},
		{
			name:       "no path prints usage",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				assert.Contains(t, output, "Usage:")
			},
		},
		{name: "unknown flag", args: []string{"--nope"}, expectErr: "flag provided but not defined: -nope"},
		{name: "two positional inputs", args: []string{"a.txt", "b.txt"}, expectErr: "at most one INPUT_PATH"},
		{name: "invalid log level", args: []string{"--log-level=verbose", "a.txt"}, expectErr: "invalid log-level"},
		{name: "invalid log format", args: []string{"--log-format=xml", "a.txt"}, expectErr: "invalid log-format"},
		{name: "invalid part", args: []string{"--part=part3", "a.txt"}, expectErr: "invalid part"},
		{name: "invalid output", args: []string{"--output=yaml", "a.txt"}, expectErr: "invalid output"},
		{name: "invalid workers", args: []string{"--workers=0", "a.txt"}, expectErr: "workers must be positive"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			defaults := testDefaults
			if tc.defaults != nil {
				defaults = *tc.defaults
			}
			var out bytes.Buffer

			cfg, shouldExit, err := Parse(tc.args, &out, defaults)

			if tc.expectErr != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, exitErr.Message, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectExit, shouldExit)
			if tc.checkOutput != nil {
				tc.checkOutput(t, out.String())
			}
			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, cfg); diff != "" {
					t.Errorf("Parse() config mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}
