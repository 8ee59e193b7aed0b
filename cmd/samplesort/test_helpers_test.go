package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"samplesort/internal/pack"
	"samplesort/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	stateDir   string
	packsPath  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("SAMPLESORT_AI_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "samplesort.toml"),
		stateDir:   filepath.Join(base, "state"),
	}
	content := fmt.Sprintf(`[paths]
library_root = %q
state_dir = %q

[ai]
enabled = false

[logging]
level = "error"
`, filepath.Join(base, "library"), env.stateDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	env.packsPath = testsupport.WritePacks(t, []pack.Pack{
		testsupport.NewPack("hardstyle", "Hardstyle Euphoria",
			testsupport.WithTags("hardstyle", "kicks"),
			testsupport.WithFolders(20, "Kicks", "Screeches"),
		),
		testsupport.NewPack("techno", "Techno Tools",
			testsupport.WithFolders(12, "Kicks", "Hats"),
		),
		testsupport.NewPack("mystery", "Mystery Sounds",
			testsupport.WithFolders(5, "Misc"),
		),
	})
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
