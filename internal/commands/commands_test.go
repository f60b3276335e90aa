package commands_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/acc/internal/commands"
	"github.com/cleared-dev/acc/internal/config"
	"github.com/cleared-dev/acc/internal/ledger"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// inTempDir moves the test into a fresh working directory so the default
// config and ledger paths land there.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func defaultSettings() config.Settings {
	return config.Settings{
		ConfigPath:    config.DefaultPath,
		LogLevel:      "warn",
		MissingLedger: config.MissingLedgerEmpty,
	}
}

func runWith(t *testing.T, settings config.Settings, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := commands.Run(context.Background(), args, &stdout, &stderr, settings)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func runAcc(t *testing.T, args ...string) result {
	t.Helper()
	return runWith(t, defaultSettings(), args...)
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	res := runAcc(t, args...)
	require.Equal(t, commands.ExitOK, res.code, "acc %s: %s", strings.Join(args, " "), res.stderr)
	return res.stdout
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func writeLedger(t *testing.T, rows ...string) {
	t.Helper()
	contents := ledger.Header + "\n" + strings.Join(rows, "\n") + "\n"
	require.NoError(t, os.WriteFile(ledger.DefaultPath, []byte(contents), 0o644))
}

func TestNoArgsPrintsHelp(t *testing.T) {
	inTempDir(t)
	res := runAcc(t)
	assert.Equal(t, commands.ExitOK, res.code)
	assert.Contains(t, res.stdout, "Usage:")
}

func TestVersion(t *testing.T) {
	inTempDir(t)
	out := mustRun(t, "--version")
	assert.Contains(t, out, "dev")
}

func TestUnknownCommand(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "transfer", "10")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "acc: unknown command")
}

func TestDate_PrintsDefault(t *testing.T) {
	inTempDir(t)
	assert.Equal(t, "1970-01-01\n", mustRun(t, "date"))
}

func TestDate_SetAndGet(t *testing.T) {
	inTempDir(t)
	mustRun(t, "date", "2020-02-02")
	assert.Equal(t, "2020-02-02\n", mustRun(t, "date"))
}

func TestDate_RejectsNonISO(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "date", "01/01/1970")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "invalid date")
	assert.NoFileExists(t, config.DefaultPath)
}

func TestDate_Advance(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default one day", []string{"date", "--advance"}, "1970-01-02\n"},
		{"separate count", []string{"date", "--advance", "366"}, "1971-01-02\n"},
		{"inline count", []string{"date", "--advance=366"}, "1971-01-02\n"},
		{"zero days", []string{"date", "--advance", "0"}, "1970-01-01\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inTempDir(t)
			mustRun(t, tt.args...)
			assert.Equal(t, tt.want, mustRun(t, "date"))
		})
	}
}

func TestDate_AdvanceFromSetDate(t *testing.T) {
	inTempDir(t)
	mustRun(t, "date", "1972-02-28")
	mustRun(t, "date", "--advance")
	assert.Equal(t, "1972-02-29\n", mustRun(t, "date"))
}

func TestDate_AdvanceRejectsFraction(t *testing.T) {
	inTempDir(t)
	for _, args := range [][]string{
		{"date", "--advance", "0.5"},
		{"date", "--advance=0.5"},
		{"date", "--advance", "many"},
	} {
		res := runAcc(t, args...)
		assert.Equal(t, commands.ExitError, res.code, "args %v", args)
		assert.Contains(t, res.stderr, "invalid days")
	}
	assert.NoFileExists(t, config.DefaultPath, "failed advances must not write the config")
}

func TestDate_AdvanceRejectsExtraArgument(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "date", "--advance=2", "3")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "unexpected argument")
}

func TestDate_AdvanceRejectsPositionalAfterExplicitOne(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "date", "--advance=1", "5")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "unexpected argument")
	assert.Equal(t, "1970-01-01\n", mustRun(t, "date"))
}

func TestDate_DateArgumentWinsOverAdvance(t *testing.T) {
	for _, args := range [][]string{
		{"date", "1980-05-05", "--advance"},
		{"date", "--advance", "1980-05-05"},
		{"date", "--advance=3", "1980-05-05"},
	} {
		t.Run(strings.Join(args[1:], " "), func(t *testing.T) {
			inTempDir(t)
			mustRun(t, args...)
			assert.Equal(t, "1980-05-05\n", mustRun(t, "date"))
		})
	}
}

func TestLedger_PrintsDefault(t *testing.T) {
	inTempDir(t)
	assert.Equal(t, "acc_ledger.csv\n", mustRun(t, "ledger"))
}

func TestLedger_SetAndGet(t *testing.T) {
	inTempDir(t)
	mustRun(t, "ledger", "/tmp/foo")
	assert.Equal(t, "/tmp/foo\n", mustRun(t, "ledger"))
}

func TestDateAndLedgerAreIndependent(t *testing.T) {
	inTempDir(t)
	mustRun(t, "date", "1991-08-20")
	mustRun(t, "ledger", "/tmp/foo")
	out := mustRun(t, "date") + mustRun(t, "ledger")
	assert.Equal(t, []string{"1991-08-20", "/tmp/foo"}, strings.Fields(out))

	assert.Equal(t, [][]string{
		{"date", "ledger"},
		{"1991-08-20", "/tmp/foo"},
	}, readCSV(t, config.DefaultPath))
}

func TestRecordTransactions(t *testing.T) {
	inTempDir(t)
	mustRun(t, "credit", "850", "-d", "apple")
	mustRun(t, "debit", "500", "--description", "apple")

	assert.Equal(t, [][]string{
		{"id", "date", "amount", "type", "description"},
		{"0", "1970-01-01", "850.00", "credit", "apple"},
		{"1", "1970-01-01", "500.00", "debit", "apple"},
	}, readCSV(t, ledger.DefaultPath))
}

func TestRecordUsesCurrentDateAndLedger(t *testing.T) {
	dir := inTempDir(t)
	books := filepath.Join(dir, "books", "2024.csv")

	mustRun(t, "ledger", books)
	mustRun(t, "date", "2024-03-01")
	mustRun(t, "debit", "12.345")

	rows := readCSV(t, books)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"0", "2024-03-01", "12.34", "debit", ""}, rows[1])
	assert.NoFileExists(t, ledger.DefaultPath)
}

func TestRecordRejectsBadAmount(t *testing.T) {
	inTempDir(t)
	for _, amount := range []string{"ten", "1,50", "NaN"} {
		res := runAcc(t, "credit", amount)
		assert.Equal(t, commands.ExitError, res.code, "amount %q", amount)
		assert.Contains(t, res.stderr, "invalid amount")
	}
	assert.NoFileExists(t, ledger.DefaultPath)
}

func TestReport_Table(t *testing.T) {
	inTempDir(t)
	writeLedger(t,
		"0,1970-01-01,2495.00,credit,frobulator",
		"1,1970-01-01,5250.00,debit,frobulator",
	)

	assert.Equal(t,
		"ID      DATE        AMOUNT    TYPE    DESCRIPTION\n"+
			"0       1970-01-01  2495.00   credit  frobulator\n"+
			"1       1970-01-01  5250.00   debit   frobulator\n",
		mustRun(t, "report"))
}

func TestReport_Balance(t *testing.T) {
	inTempDir(t)
	writeLedger(t,
		"0,1970-01-01,2495.00,credit,frobulator",
		"1,1970-02-01,5250.00,debit,frobulator",
	)

	assert.Equal(t, "2755.00\n", mustRun(t, "report", "--balance"))
	assert.Equal(t, "2755.00\n", mustRun(t, "balance"))
	assert.Equal(t, "-2495.00\n", mustRun(t, "balance", "1970-01-01"))
}

func TestReport_Datespecs(t *testing.T) {
	header := "ID      DATE        AMOUNT    TYPE    DESCRIPTION\n"
	foo := "0       1970-01-01  2495.00   credit  foo\n"
	qux := "1       1970-02-02  5250.00   debit   qux\n"
	frob := "2       1970-03-03  600.00    debit   frobulant\n"

	tests := []struct {
		spec string
		want string
	}{
		{"1970-02-02", header + qux},
		{"1970-01-01~1970-03-01", header + foo + qux},
		{"~1970-03-03", header + foo + qux + frob},
		{"1970-02-01~", header + qux + frob},
		{"1980-01-01", header},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			inTempDir(t)
			writeLedger(t,
				"0,1970-01-01,2495.00,credit,foo",
				"1,1970-02-02,5250.00,debit,qux",
				"2,1970-03-03,600.00,debit,frobulant",
			)
			assert.Equal(t, tt.want, mustRun(t, "report", tt.spec))
		})
	}
}

func TestReport_BadDatespec(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "report", "1970-03-01~1970-01-01")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "start is after end")
}

func TestReport_EmptyLedger(t *testing.T) {
	inTempDir(t)
	assert.Equal(t, "0.00\n", mustRun(t, "report", "--balance"))
	assert.Equal(t, "ID      DATE        AMOUNT    TYPE    DESCRIPTION\n", mustRun(t, "report"))
}

func TestReport_MissingLedgerAsError(t *testing.T) {
	inTempDir(t)
	settings := defaultSettings()
	settings.MissingLedger = config.MissingLedgerError

	for _, args := range [][]string{{"report"}, {"report", "--balance"}, {"balance"}} {
		res := runWith(t, settings, args...)
		assert.Equal(t, commands.ExitError, res.code, "args %v", args)
		assert.Empty(t, res.stdout)
		assert.Contains(t, res.stderr, "ledger not found")
	}

	writeLedger(t)
	res := runWith(t, settings, "balance")
	assert.Equal(t, commands.ExitOK, res.code)
	assert.Equal(t, "0.00\n", res.stdout)
}

func TestReport_CorruptLedger(t *testing.T) {
	inTempDir(t)
	writeLedger(t, "0,1970-01-01,lots,debit,x")

	res := runAcc(t, "balance")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "parsing amount")
}

type brokenPipe struct{}

func (brokenPipe) Write([]byte) (int, error) {
	return 0, &os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}
}

func TestReport_BrokenPipe(t *testing.T) {
	inTempDir(t)
	writeLedger(t, "0,1970-01-01,1.00,debit,x")

	var stderr bytes.Buffer
	code := commands.Run(context.Background(), []string{"report"}, brokenPipe{}, &stderr, defaultSettings())
	assert.Equal(t, commands.ExitAbnormal, code)
	assert.Empty(t, stderr.String())
}

func TestReport_Interrupted(t *testing.T) {
	inTempDir(t)
	writeLedger(t, "0,1970-01-01,1.00,debit,x")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	code := commands.Run(ctx, []string{"report"}, &stdout, &stderr, defaultSettings())
	assert.Equal(t, commands.ExitAbnormal, code)
	assert.Empty(t, stdout.String())
}

func TestCheck(t *testing.T) {
	inTempDir(t)
	mustRun(t, "credit", "1")
	mustRun(t, "debit", "2")
	assert.Equal(t, "ok: 2 transactions in acc_ledger.csv\n", mustRun(t, "check"))

	writeLedger(t,
		"0,1970-01-01,1.00,debit,x",
		"4,1970-01-01,1.00,debit,y",
	)
	res := runAcc(t, "check")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stdout, "row 1 [id 4]: id out of sequence, want 1")
	assert.Contains(t, res.stderr, "has 1 problems")
}

func TestCheck_MissingLedger(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "check")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "ledger not found")
}

func TestConfigFlag_YAML(t *testing.T) {
	dir := inTempDir(t)
	cfgPath := filepath.Join(dir, "acc.yaml")

	mustRun(t, "--config", cfgPath, "date", "2001-02-03")
	mustRun(t, "--config", cfgPath, "ledger", "books.csv")

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `date: "2001-02-03"`)
	assert.Contains(t, string(data), "ledger: books.csv")
	assert.NoFileExists(t, config.DefaultPath)

	assert.Equal(t, "2001-02-03\n", mustRun(t, "--config", cfgPath, "date"))
}

func TestLogLevelDebug(t *testing.T) {
	inTempDir(t)
	res := runAcc(t, "--log-level", "debug", "credit", "5", "-d", "tea")
	require.Equal(t, commands.ExitOK, res.code, res.stderr)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "transaction recorded")
}

func TestInvalidSettings(t *testing.T) {
	inTempDir(t)
	settings := defaultSettings()
	settings.MissingLedger = "ignore"

	res := runWith(t, settings, "date")
	assert.Equal(t, commands.ExitError, res.code)
	assert.Contains(t, res.stderr, "missing-ledger policy")
}
