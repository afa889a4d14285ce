package main

import (
	"bytes"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/chrbuchsteiner61/extractEmbedFilePDF/internal/config"
)

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	tests := []struct {
		name      string
		version   string
		buildTime string
		gitCommit string
	}{
		{"build flags", "1.2.3", "2023-12-01_10:30:00", "abc123"},
		{"defaults", "dev", "unknown", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			version, buildTime, gitCommit = tt.version, tt.buildTime, tt.gitCommit

			var buf bytes.Buffer
			printVersion(&buf)
			output := buf.String()

			for _, expected := range []string{
				"PDF/A-3 Attachment Extractor",
				"Version: " + tt.version,
				"Build Time: " + tt.buildTime,
				"Git Commit: " + tt.gitCommit,
				"Built with:",
			} {
				if !strings.Contains(output, expected) {
					t.Errorf("printVersion() output missing %q\nActual output:\n%s", expected, output)
				}
			}
		})
	}
}

func TestIsVersionArg(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want bool
	}{
		{"no args", nil, false},
		{"-version", []string{"-version"}, true},
		{"--version", []string{"--version"}, true},
		{"-v", []string{"-v"}, true},
		{"with other args", []string{"--mode=server", "-version", "--port=8080"}, true},
		{"similar but not version", []string{"-verbose", "-versions"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isVersionArg(tt.args); got != tt.want {
				t.Errorf("isVersionArg(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}

func TestSetupLogging_StdioMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	setupLogging(&config.Config{Mode: "stdio", LogLevel: "debug"})
	if log.Writer() != os.Stderr {
		t.Errorf("setupLogging() for stdio debug mode should set output to stderr")
	}

	setupLogging(&config.Config{Mode: "stdio", LogLevel: "info"})
	if log.Writer() != io.Discard {
		t.Errorf("setupLogging() for stdio non-debug mode should discard output")
	}
}

func TestSetupLogging_ServerMode(t *testing.T) {
	originalOutput := log.Writer()
	originalFlags := log.Flags()
	defer func() {
		log.SetOutput(originalOutput)
		log.SetFlags(originalFlags)
	}()

	setupLogging(&config.Config{Mode: "server", LogLevel: "info"})

	expectedFlags := log.LstdFlags | log.Lshortfile
	if log.Flags() != expectedFlags {
		t.Errorf("setupLogging() for server mode: flags = %v, want %v", log.Flags(), expectedFlags)
	}
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&config.Config{LogLevel: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("skipped PDF object", "name", "broken.xml")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered at warn level:\n%s", output)
	}
	if !strings.Contains(output, "skipped PDF object") || !strings.Contains(output, "name=broken.xml") {
		t.Errorf("warn message missing from output:\n%s", output)
	}
}
