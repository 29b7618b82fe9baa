package cli

import "testing"

func TestRootCommandRegistersSubcommands(t *testing.T) {
	want := []string{"chat", "mandate", "mcp", "reset", "status", "version", "wall"}

	registered := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		registered[cmd.Name()] = true
	}

	for _, name := range want {
		if !registered[name] {
			t.Errorf("expected subcommand %q registered", name)
		}
	}
}

func TestMCPServeIsSubcommand(t *testing.T) {
	found := false
	for _, cmd := range mcpCmd.Commands() {
		if cmd.Name() == "serve" {
			found = true
		}
	}
	if !found {
		t.Error("expected mcp serve subcommand")
	}
}
