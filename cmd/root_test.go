package cmd

import (
	"bytes"
	"strings"
	"testing"

	"pharmacertlabs/pharmacert/cmd/commands/cmdtest"
)

func TestRoot_RegistersCommands(t *testing.T) {
	root := rootCmd()

	for _, name := range []string{"audit", "auth", "config", "notify", "product", "roles", "serve"} {
		found, _, err := root.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("expected %q to be registered, got %v (err %v)", name, found, err)
		}
	}
}

func TestRoot_EphemeralRunLeavesNoRecords(t *testing.T) {
	cmdtest.SetupTest(t)

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		root := rootCmd()
		root.SetOut(&out)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(args)
		if err := root.Execute(); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		return out.String()
	}

	run("--ephemeral", "audit", "record", "USER_LOGIN")
	out := run("audit", "list")
	if !strings.Contains(out, "No audit records found.") {
		t.Errorf("expected ephemeral record to be discarded, got:\n%s", out)
	}
}
