package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/pfs/internal/commands"
	"github.com/temirov/pfs/internal/types"
)

type recordingCopier struct {
	copied []string
	err    error
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return copier.err
}

func isolateHome(t *testing.T) {
	t.Helper()
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
}

// buildFixture creates:
//
//	root/a.txt, root/b.pyc, root/.hidden, root/sub/c.txt, root/sub/deeper/d.txt
func buildFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	deeper := filepath.Join(root, "sub", "deeper")
	if err := os.MkdirAll(deeper, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, relative := range []string{"a.txt", "b.pyc", ".hidden", filepath.Join("sub", "c.txt"), filepath.Join("sub", "deeper", "d.txt")} {
		if err := os.WriteFile(filepath.Join(root, relative), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", relative, err)
		}
	}
	return root
}

func runCommand(t *testing.T, dependencies Dependencies, arguments ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	dependencies.Stdout = &stdout
	command := NewRootCommand(dependencies)
	command.SetArgs(arguments)
	command.SetOut(&bytes.Buffer{})
	command.SetErr(&bytes.Buffer{})
	executeError := command.Execute()
	return stdout.String(), executeError
}

func TestRootCommandRawListing(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{
			name:      "defaults",
			arguments: []string{root},
			expected:  []string{root, "| a.txt", "| sub", "| | c.txt", "| | deeper", "| | | d.txt"},
		},
		{
			name:      "depth_one",
			arguments: []string{"--depth", "1", root},
			expected:  []string{root, "| a.txt", "| sub"},
		},
		{
			name:      "depth_zero",
			arguments: []string{"-d", "0", root},
			expected:  []string{root},
		},
		{
			name:      "custom_indent",
			arguments: []string{"--indent", "..", "-d", "2", root},
			expected:  []string{root, "..a.txt", "..sub", "....c.txt", "....deeper"},
		},
		{
			name:      "exclusions_replace_defaults",
			arguments: []string{"-x", "txt", "-d", "1", root},
			expected:  []string{root, "| b.pyc", "| sub"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			arguments := append([]string{"--color", "never"}, testCase.arguments...)
			stdout, err := runCommand(t, Dependencies{}, arguments...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			expected := strings.Join(testCase.expected, "\n") + "\n"
			if stdout != expected {
				t.Fatalf("unexpected output\nexpected:\n%s\ngot:\n%s", expected, stdout)
			}
		})
	}
}

func TestRootCommandJSONMatchesRawEntries(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	stdout, err := runCommand(t, Dependencies{}, "--format", "JSON", "-d", "2", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	var node types.TreeOutputNode
	if decodeErr := json.Unmarshal([]byte(stdout), &node); decodeErr != nil {
		t.Fatalf("decode json: %v\n%s", decodeErr, stdout)
	}
	if node.Path != root || node.Type != types.NodeTypeDirectory || len(node.Children) != 2 {
		t.Fatalf("unexpected root node %+v", node)
	}
	sub := node.Children[1]
	if sub.Name != "sub" || !sub.Expanded || len(sub.Children) != 2 {
		t.Fatalf("unexpected sub node %+v", sub)
	}
	deeper := sub.Children[1]
	if deeper.Name != "deeper" || deeper.Expanded || len(deeper.Children) != 0 {
		t.Fatalf("directory at the depth bound must not be listed: %+v", deeper)
	}
}

func TestRootCommandFlagsOverrideConfiguration(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)
	configPath := filepath.Join(t.TempDir(), "pfs.yaml")
	configContent := "tree:\n  depth: 1\n  format: yaml\n  color: never\n  indent: \"__\"\n"
	if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	fromConfig, err := runCommand(t, Dependencies{}, "--config", configPath, root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(fromConfig, "name: sub") || strings.Contains(fromConfig, "c.txt") {
		t.Fatalf("expected yaml listing limited to depth 1, got:\n%s", fromConfig)
	}

	overridden, err := runCommand(t, Dependencies{}, "--config", configPath, "--format", "raw", "-d", "2", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	expected := strings.Join([]string{root, "__a.txt", "__sub", "____c.txt", "____deeper"}, "\n") + "\n"
	if overridden != expected {
		t.Fatalf("unexpected output\nexpected:\n%s\ngot:\n%s", expected, overridden)
	}
}

func TestRootCommandRejectsInvalidInputBeforeOutput(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)
	regularFile := filepath.Join(root, "a.txt")

	testCases := []struct {
		name          string
		arguments     []string
		expectInvalid bool
	}{
		{name: "missing_root", arguments: []string{filepath.Join(root, "absent")}, expectInvalid: true},
		{name: "file_root", arguments: []string{regularFile}, expectInvalid: true},
		{name: "negative_depth", arguments: []string{"-d", "-1", root}},
		{name: "unknown_format", arguments: []string{"--format", "toml", root}},
		{name: "unknown_color", arguments: []string{"--color", "sometimes", root}},
		{name: "missing_config", arguments: []string{"--config", filepath.Join(root, "absent.yaml"), root}},
		{name: "no_arguments", arguments: []string{}},
		{name: "two_arguments", arguments: []string{root, root}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			stdout, err := runCommand(t, Dependencies{}, testCase.arguments...)
			if err == nil {
				t.Fatalf("expected error")
			}
			if stdout != "" {
				t.Fatalf("expected no output, got %q", stdout)
			}
			var invalidRoot *commands.InvalidRootError
			if errors.As(err, &invalidRoot) != testCase.expectInvalid {
				t.Fatalf("unexpected error type %T: %v", err, err)
			}
		})
	}
}

func TestRootCommandCopiesOutput(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	copier := &recordingCopier{}
	stdout, err := runCommand(t, Dependencies{Copier: copier}, "--copy", "--color", "always", "-d", "1", root)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(copier.copied) != 1 {
		t.Fatalf("expected one clipboard write, got %d", len(copier.copied))
	}
	expectedCopy := strings.Join([]string{root, "| a.txt", "| sub"}, "\n") + "\n"
	if copier.copied[0] != expectedCopy {
		t.Fatalf("clipboard must receive uncolored listing, got %q", copier.copied[0])
	}
	if !strings.Contains(stdout, "\x1b[") {
		t.Fatalf("expected colored stdout with --color always, got %q", stdout)
	}
}

func TestRootCommandClipboardFailureIsNotFatal(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	copier := &recordingCopier{err: errors.New("no clipboard")}
	stdout, err := runCommand(t, Dependencies{Copier: copier}, "--copy=yes", "--color", "never", "-d", "0", root)
	if err != nil {
		t.Fatalf("clipboard failure must not fail the listing: %v", err)
	}
	if stdout != root+"\n" {
		t.Fatalf("unexpected output %q", stdout)
	}
}

func TestRootCommandWithoutCopyLeavesClipboardAlone(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	copier := &recordingCopier{}
	if _, err := runCommand(t, Dependencies{Copier: copier}, "-d", "0", root); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(copier.copied) != 0 {
		t.Fatalf("expected no clipboard writes, got %v", copier.copied)
	}
}

func TestRootCommandVersion(t *testing.T) {
	stdout, err := runCommand(t, Dependencies{}, "--version")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(stdout, "pfs version: ") {
		t.Fatalf("unexpected version output %q", stdout)
	}
}

func TestRootCommandVerboseLowersLogLevel(t *testing.T) {
	isolateHome(t)
	root := buildFixture(t)

	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if _, err := runCommand(t, Dependencies{LogLevel: level}, "--verbose", "-d", "0", root); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if level.Level() != zap.DebugLevel {
		t.Fatalf("expected debug level, got %s", level.Level())
	}
}

func TestInitCommandWritesGlobalConfiguration(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)

	stdout, err := runCommand(t, Dependencies{}, "init", "--global")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	expectedPath := filepath.Join(homeDir, ".pfs", "config.yaml")
	if !strings.Contains(stdout, expectedPath) {
		t.Fatalf("expected written path in output, got %q", stdout)
	}
	if _, statErr := os.Stat(expectedPath); statErr != nil {
		t.Fatalf("expected configuration at %s: %v", expectedPath, statErr)
	}

	if _, err := runCommand(t, Dependencies{}, "init", "--global"); err == nil {
		t.Fatalf("expected error when configuration exists without --force")
	}
	if _, err := runCommand(t, Dependencies{}, "init", "--global", "--force"); err != nil {
		t.Fatalf("expected --force to overwrite: %v", err)
	}
}
