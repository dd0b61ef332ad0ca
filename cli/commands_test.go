package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
)

func kongNew(cmds *Commands, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cmds,
		kong.Name("friday"),
		kong.Bind(&cmds.Globals),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	var cmds Commands
	k, err := kongNew(&cmds, &stdout, &stderr)
	assert.NoError(t, err)

	ctx, err := k.Parse(args)
	if err != nil {
		return stdout.String(), stderr.String(), err
	}

	err = ctx.Run(&cmds.Globals)
	return stdout.String(), stderr.String(), err
}

func TestInitCmd(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "main.friday")

	stdout, _, err := runCommand(t, "init", filename)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Created ledger file")

	content, err := os.ReadFile(filename)
	assert.NoError(t, err)
	assert.Contains(t, string(content), `option "operating_currency" "INR"`)
	assert.Contains(t, string(content), "open Assets:Checking")

	t.Run("AlreadyExists", func(t *testing.T) {
		_, _, err := runCommand(t, "init", filename)
		assert.Error(t, err)
	})

	t.Run("WithCurrency", func(t *testing.T) {
		other := filepath.Join(t.TempDir(), "euro.friday")

		_, _, err := runCommand(t, "init", other, "--currency", "EUR")
		assert.NoError(t, err)

		content, err := os.ReadFile(other)
		assert.NoError(t, err)
		assert.Contains(t, string(content), `option "operating_currency" "EUR"`)
	})
}

func TestCheckCmd(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "main.friday")

	_, _, err := runCommand(t, "init", filename)
	assert.NoError(t, err)

	stdout, _, err := runCommand(t, "check", filename)
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Check passed")
}

func TestFmtCmd(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "main.friday")
	source := "2024-01-01 open    Assets:Checking\n"
	assert.NoError(t, os.WriteFile(filename, []byte(source), 0o644))

	t.Run("Stdout", func(t *testing.T) {
		stdout, _, err := runCommand(t, "fmt", filename)
		assert.NoError(t, err)
		assert.Contains(t, stdout, "2024-01-01 open Assets:Checking")
	})

	t.Run("Write", func(t *testing.T) {
		_, _, err := runCommand(t, "fmt", filename, "--write")
		assert.NoError(t, err)

		content, err := os.ReadFile(filename)
		assert.NoError(t, err)
		assert.Equal(t, "2024-01-01 open Assets:Checking\n", string(content))
	})
}

func TestImportCmd(t *testing.T) {
	dir := t.TempDir()
	ledgerFile := filepath.Join(dir, "main.friday")
	statement := filepath.Join(dir, "statement.csv")

	_, _, err := runCommand(t, "init", ledgerFile)
	assert.NoError(t, err)

	csv := "Date,Narration,Amount\n2024-02-01,Salary credit,\"50,000.00\"\n"
	assert.NoError(t, os.WriteFile(statement, []byte(csv), 0o644))

	stdout, _, err := runCommand(t, "import", statement,
		"--ledger", ledgerFile, "--account", "Assets:Checking")
	assert.NoError(t, err)
	assert.Contains(t, stdout, "Imported 1 transaction(s)")

	content, err := os.ReadFile(ledgerFile)
	assert.NoError(t, err)
	assert.Contains(t, string(content), `"Salary credit"`)
	assert.Contains(t, string(content), "Assets:Checking  50000.00 INR")
}

func TestLoadConfigOverrides(t *testing.T) {
	globals := &Globals{Config: "friday", LogLevel: "debug"}

	cfg, err := globals.loadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "INR", cfg.Ledger.Currency)
}

func TestNewLoggerLevels(t *testing.T) {
	globals := &Globals{Config: "friday"}

	for _, level := range []string{"debug", "info", "warn", "error"} {
		globals.LogLevel = level
		cfg, err := globals.loadConfig()
		assert.NoError(t, err)
		assert.NotZero(t, newLogger(cfg))
	}
}

func TestIsTerminalUnderTest(t *testing.T) {
	// Test runners do not attach a TTY, so prompts auto-decline.
	if strings.Contains(os.Getenv("CI"), "true") || !isTerminal() {
		ok, err := promptYesNo("never shown")
		assert.NoError(t, err)
		assert.False(t, ok)
	}
}
