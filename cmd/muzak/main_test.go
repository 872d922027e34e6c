package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"

	"github.com/osa030/muzak/internal/domain/track"
)

func TestParse_RunKeepsCommandFlags(t *testing.T) {
	command, err := app.Parse([]string{"run", "ls", "-la", "--color"})

	assert.NoError(t, err)
	assert.Equal(t, runCmd.FullCommand(), command)
	assert.Equal(t, []string{"ls", "-la", "--color"}, *runArgs)
}

// captureExit routes the application's termination into the returned slice.
func captureExit(t *testing.T) (*[]int, *bytes.Buffer) {
	t.Helper()
	var codes []int
	stderr := &bytes.Buffer{}
	app.Terminate(func(code int) { codes = append(codes, code) })
	app.ErrorWriter(stderr)
	app.UsageWriter(stderr)
	t.Cleanup(func() {
		app.Terminate(os.Exit)
		app.ErrorWriter(os.Stderr)
		app.UsageWriter(os.Stderr)
	})
	return &codes, stderr
}

func TestParseCommand_UsageErrorsExitOne(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "no arguments", args: []string{}, want: "command not specified"},
		{name: "flags only", args: []string{"--verbose"}, want: "command not specified"},
		{name: "flag with value only", args: []string{"--config", "muzak.yaml"}, want: "command not specified"},
		{name: "run without command", args: []string{"run"}, want: "required argument"},
		{name: "unknown command", args: []string{"dance"}, want: "dance"},
		{name: "hook without action", args: []string{"hook"}, want: "hook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, stderr := captureExit(t)

			command := parseCommand(tt.args)

			assert.Empty(t, command)
			assert.Equal(t, []int{1}, *codes)
			assert.Contains(t, stderr.String(), tt.want)
		})
	}
}

func TestParseCommand_NoCommandPrintsUsage(t *testing.T) {
	_, stderr := captureExit(t)

	parseCommand(nil)

	assert.Contains(t, stderr.String(), "usage: muzak")
	assert.Contains(t, stderr.String(), "hook start")
}

func TestParseCommand_ValidCommand(t *testing.T) {
	codes, _ := captureExit(t)

	assert.Equal(t, "stop", parseCommand([]string{"-v", "stop"}))
	assert.Empty(t, *codes)
}

func TestParse_HookCommands(t *testing.T) {
	command, err := app.Parse([]string{"hook", "start"})
	assert.NoError(t, err)
	assert.Equal(t, "hook start", command)

	command, err = app.Parse([]string{"hook", "stop"})
	assert.NoError(t, err)
	assert.Equal(t, "hook stop", command)
}

func TestConfigFailure(t *testing.T) {
	cfgErr := errors.New("config validation failed")

	tests := []struct {
		name       string
		command    string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "hook start still allows", command: hookStartCmd.FullCommand(), wantCode: 0, wantStdout: "{\"allow\":true}\n"},
		{name: "hook stop succeeds", command: hookStopCmd.FullCommand(), wantCode: 0},
		{name: "start fails", command: startCmd.FullCommand(), wantCode: 1, wantStderr: "config validation failed"},
		{name: "stop fails", command: stopCmd.FullCommand(), wantCode: 1, wantStderr: "config validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

			code := configFailure(tt.command, cfgErr, stdout, stderr)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStdout, stdout.String())
			if tt.wantStderr == "" {
				assert.Empty(t, stderr.String())
			} else {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}

type stubLister struct {
	tracks []track.Track
	err    error
}

func (s stubLister) Candidates(ctx context.Context) ([]track.Track, error) {
	return s.tracks, s.err
}

func TestPrintTracks(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	lister := stubLister{tracks: []track.Track{
		{Path: "/music/lounge.mp3", Name: "lounge.mp3", Source: "directory"},
		{Path: "/music/bossa.m4a", Name: "bossa.m4a", Source: "playlist"},
	}}

	assert.Equal(t, 0, printTracks(context.Background(), stdout, stderr, lister))
	assert.Contains(t, stdout.String(), "/music/lounge.mp3 (directory)")
	assert.Contains(t, stdout.String(), "/music/bossa.m4a (playlist)")
	assert.Empty(t, stderr.String())
}

func TestPrintTracks_Error(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	code := printTracks(context.Background(), stdout, stderr, stubLister{err: errors.New("no audio files found in /music")})

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "no audio files found")
}

func TestUnavailablePicker(t *testing.T) {
	want := errors.New("no track providers configured")

	_, err := unavailablePicker{err: want}.Pick(context.Background())

	assert.ErrorIs(t, err, want)
}
