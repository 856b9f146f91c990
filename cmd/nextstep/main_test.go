package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/nextstep/internal/db"
	"github.com/jonathan/nextstep/internal/schemas"
)

// execute runs the root command in-process with flags reset to their defaults.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
	reset(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		reset(c.Flags())
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestCommandsRegistered(t *testing.T) {
	var names []string
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "migrate", "seed", "validate-seed", "levels", "recalculate"} {
		assert.Contains(t, names, want)
	}
}

func TestLevelsCommand_Default(t *testing.T) {
	out, err := execute(t, "levels")
	require.NoError(t, err)

	assert.Contains(t, out, "LEVEL")
	assert.Contains(t, out, "2,025")
	assert.Contains(t, out, "2,500")
	assert.Contains(t, out, "max")
	assert.Equal(t, 11, bytes.Count([]byte(out), []byte("\n")), "header plus ten levels")
}

func TestLevelsCommand_ConfigFile(t *testing.T) {
	path := writeFile(t, "nextstep.yaml", "leveling:\n  xp_increments: [1000, 2000]\n")

	out, err := execute(t, "levels", "--config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "1,000")
	assert.Contains(t, out, "3,000")
	assert.Equal(t, 4, bytes.Count([]byte(out), []byte("\n")), "header plus three levels")
}

func TestLevelsCommand_InvalidConfig(t *testing.T) {
	path := writeFile(t, "nextstep.yaml", "leveling:\n  xp_increments: [100, 0]\n")

	_, err := execute(t, "levels", "--config", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config error")
}

func TestValidateSeedCommand(t *testing.T) {
	valid := writeFile(t, "valid.json", `{
		"users": [{"email": "a@example.com", "password": "password123", "first_name": "A", "last_name": "B"}],
		"jobs": [{
			"employer": "a@example.com", "title": "Tutor", "company": "Home", "location": "Toronto, ON",
			"hourly_rate_min_cents": 2000, "hourly_rate_max_cents": 2500,
			"job_type": "gig", "schedule": "weekends", "description": "Help with homework"
		}]
	}`)
	invalid := writeFile(t, "invalid.json", `{"users": [{"email": "a@example.com"}]}`)

	out, err := execute(t, "validate-seed", "--file", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "Validation passed: 1 users, 1 jobs")

	_, err = execute(t, "validate-seed", "--file", invalid)
	require.Error(t, err)
	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = execute(t, "validate-seed", "--file", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read seed file")
}

func TestValidateSeedCommand_RequiresFile(t *testing.T) {
	_, err := execute(t, "validate-seed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestLoadFixture_DefaultsToDemo(t *testing.T) {
	f, err := loadFixture("")
	require.NoError(t, err)
	assert.Len(t, f.Jobs, 10)
}

func TestRecalculateCommand_RequiresEmail(t *testing.T) {
	_, err := execute(t, "recalculate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestPrintRecalculated(t *testing.T) {
	avg := 4.5
	var out bytes.Buffer
	printRecalculated(&out, "a@example.com",
		&db.Dashboard{TotalXP: 150, Level: 2},
		&db.Profile{EmployerRatingAvg: &avg, EmployerRatingCount: 2})

	assert.Equal(t, "a@example.com\n"+
		"  dashboard: 150 XP, level 2\n"+
		"  employer rating: 4.5 (2)\n"+
		"  worker rating: none (0)\n", out.String())
}
