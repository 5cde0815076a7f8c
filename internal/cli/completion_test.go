package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runRoot executes the root command with args and returns stdout.
func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(func() { completionInstall = false })

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func TestCompletionCommand_Registration(t *testing.T) {
	found := false
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "completion" {
			found = true
			break
		}
	}
	if !found {
		t.Error("completion command not registered on root")
	}
	if !rootCmd.CompletionOptions.DisableDefaultCmd {
		t.Error("expected Cobra default completion command to be disabled")
	}
}

func TestCompletionCommand_NoArgsShowsHelp(t *testing.T) {
	out, err := runRoot(t, "completion")
	if err != nil {
		t.Fatalf("completion with no args should show help, not error: %v", err)
	}
	if !strings.Contains(out, "Quick install") {
		t.Error("no-args output should show help with install instructions")
	}
}

func TestCompletionCommand_Output(t *testing.T) {
	tests := map[string]string{
		"bash":       "__start_pomotask",
		"zsh":        "compdef",
		"fish":       "complete",
		"powershell": "Register-ArgumentCompleter",
	}
	for shell, marker := range tests {
		t.Run(shell, func(t *testing.T) {
			out, err := runRoot(t, "completion", shell)
			if err != nil {
				t.Fatalf("completion %s failed: %v", shell, err)
			}
			if !strings.Contains(out, marker) {
				t.Errorf("%s completion output should contain %q", shell, marker)
			}
		})
	}
}

func TestCompletionCommand_UnsupportedShell(t *testing.T) {
	if _, err := runRoot(t, "completion", "nushell"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestCompletionCommand_Install(t *testing.T) {
	tests := []struct {
		shell  string
		target []string
		marker string
	}{
		{shell: "bash", target: []string{".local", "share", "bash-completion", "completions", "pomotask"}, marker: "__start_pomotask"},
		{shell: "zsh", target: []string{".local", "share", "zsh", "site-functions", "_pomotask"}, marker: "compdef"},
		{shell: "fish", target: []string{".config", "fish", "completions", "pomotask.fish"}, marker: "complete"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			tmpHome := t.TempDir()
			t.Setenv("HOME", tmpHome)
			t.Setenv("USERPROFILE", tmpHome) // Windows

			if _, err := runRoot(t, "completion", tt.shell, "--install"); err != nil {
				t.Fatalf("completion %s --install failed: %v", tt.shell, err)
			}

			target := filepath.Join(append([]string{tmpHome}, tt.target...)...)
			data, err := os.ReadFile(target)
			if err != nil {
				t.Fatalf("expected completion file at %s: %v", target, err)
			}
			if !strings.Contains(string(data), tt.marker) {
				t.Errorf("completion file should contain %q", tt.marker)
			}
		})
	}
}

func TestCompletionCommand_InstallPowershellFails(t *testing.T) {
	_, err := runRoot(t, "completion", "powershell", "--install")
	if err == nil {
		t.Fatal("expected error for powershell --install")
	}
	if !strings.Contains(err.Error(), "not supported") {
		t.Errorf("error should mention 'not supported', got: %v", err)
	}
}
