package printing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erp/printagent/internal/domain/printing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spoolObserver captures the temp file while the pipeline runs
type spoolObserver struct {
	script  string
	path    string
	content string
}

func newObservedSpooler(t *testing.T, result *CommandResult, runErr error) (*Spooler, *fakeRunner, *spoolObserver) {
	t.Helper()
	obs := &spoolObserver{}
	dir := t.TempDir()
	runner := &fakeRunner{result: result, err: runErr}
	runner.onRun = func(name string, args []string) {
		obs.script = args[len(args)-1]
		matches, _ := filepath.Glob(filepath.Join(dir, "ticket-*.txt"))
		if len(matches) == 1 {
			obs.path = matches[0]
			data, _ := os.ReadFile(matches[0])
			obs.content = string(data)
		}
	}

	s := NewSpooler(&SpoolConfig{Runner: runner, TempDir: dir})
	s.native = true
	return s, runner, obs
}

func TestSpooler_Print_CRLF(t *testing.T) {
	s, runner, obs := newObservedSpooler(t, nil, nil)

	err := s.Print(context.Background(), "a\nb", "POS-80", true)
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, "a\r\nb\r\n", obs.content)
	assert.Equal(t, "Get-Content -Path "+quotePS(obs.path)+" -Raw | Out-Printer -Name 'POS-80'", obs.script)

	_, statErr := os.Stat(obs.path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "temp file should be removed")
}

func TestSpooler_Print_RawText(t *testing.T) {
	s, _, obs := newObservedSpooler(t, nil, nil)

	err := s.Print(context.Background(), "a\nb", "POS-80", false)
	require.NoError(t, err)
	assert.Equal(t, "a\nb", obs.content)
}

func TestSpooler_Print_DefaultPrinter(t *testing.T) {
	s, _, obs := newObservedSpooler(t, nil, nil)

	require.NoError(t, s.Print(context.Background(), "x", "", true))
	assert.True(t, strings.HasSuffix(obs.script, "| Out-Printer"))
}

func TestSpooler_Print_QuotesPrinterName(t *testing.T) {
	s, _, obs := newObservedSpooler(t, nil, nil)

	require.NoError(t, s.Print(context.Background(), "x", "Bob's POS", true))
	assert.True(t, strings.HasSuffix(obs.script, "-Name 'Bob''s POS'"))
}

func TestSpooler_Print_Failures(t *testing.T) {
	tests := []struct {
		name     string
		result   *CommandResult
		runErr   error
		contains string
	}{
		{
			name:     "non-zero exit",
			result:   &CommandResult{ExitCode: 1, Stderr: []byte("Out-Printer : printer not found")},
			contains: "printer not found",
		},
		{
			name:     "error stream with zero exit",
			result:   &CommandResult{Stderr: []byte("access denied")},
			contains: "access denied",
		},
		{
			name:     "runner error",
			runErr:   errors.New("killed"),
			contains: "killed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, obs := newObservedSpooler(t, tt.result, tt.runErr)

			err := s.Print(context.Background(), "a\nb", "POS-80", true)
			require.Error(t, err)
			assert.Equal(t, printing.ErrKindSpool, printing.KindOf(err))
			assert.Contains(t, err.Error(), tt.contains)

			require.NotEmpty(t, obs.path)
			_, statErr := os.Stat(obs.path)
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "temp file should be removed")
		})
	}
}

func TestSpooler_Print_WriteFailure(t *testing.T) {
	runner := &fakeRunner{}
	s := NewSpooler(&SpoolConfig{
		Runner:  runner,
		TempDir: filepath.Join(t.TempDir(), "missing", "dir"),
	})
	s.native = true

	err := s.Print(context.Background(), "x", "POS-80", true)
	require.Error(t, err)
	assert.Equal(t, printing.ErrKindSpool, printing.KindOf(err))
	assert.Empty(t, runner.calls)
}

func TestSpooler_Print_NotNative(t *testing.T) {
	runner := &fakeRunner{}
	s := NewSpooler(&SpoolConfig{Runner: runner, TempDir: t.TempDir()})
	s.native = false

	err := s.Print(context.Background(), "x", "POS-80", true)
	assert.ErrorIs(t, err, printing.ErrPlatformUnsupported)
	assert.Empty(t, runner.calls)
}

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		name string
		text string
		crlf bool
		want string
	}{
		{name: "lf to crlf", text: "a\nb", crlf: true, want: "a\r\nb\r\n"},
		{name: "existing crlf kept", text: "a\r\nb\r\n", crlf: true, want: "a\r\nb\r\n"},
		{name: "mixed endings", text: "a\r\nb\nc", crlf: true, want: "a\r\nb\r\nc\r\n"},
		{name: "single trailing break", text: "a\n", crlf: true, want: "a\r\n"},
		{name: "blank line preserved", text: "a\n\nb", crlf: true, want: "a\r\n\r\nb\r\n"},
		{name: "empty text", text: "", crlf: true, want: "\r\n"},
		{name: "unchanged without crlf", text: "a\nb", crlf: false, want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLineEndings(tt.text, tt.crlf))
		})
	}
}
