package command

import (
	"bytes"
	"strings"
	"testing"
)

// runApp executes the CLI against a temp store directory, capturing
// stdout.
func runApp(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &out

	full := append([]string{"flatkv", "--dir", dir, "--log-level", "error"}, args...)
	err := app.Run(full)
	return out.String(), err
}

func TestAppMetadata(t *testing.T) {
	app := App()
	if app.Name != "flatkv" {
		t.Errorf("Name = %q, want flatkv", app.Name)
	}
	if len(app.Commands) == 0 {
		t.Fatal("App() has no commands")
	}
	for _, name := range []string{"get", "set", "del", "keys", "count", "destroy", "backup", "watch"} {
		if app.Command(name) == nil {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "greeting", `{"msg":"hello"}`); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runApp(t, dir, "get", "greeting")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"msg": "hello"`) {
		t.Errorf("get output = %q, want pretty JSON with msg", out)
	}
}

func TestSetPlainString(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "--string", "k", "42"); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runApp(t, dir, "get", "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !strings.Contains(out, `"42"`) {
		t.Errorf("get output = %q, want the string form", out)
	}
}

func TestKeysAndCount(t *testing.T) {
	dir := t.TempDir()

	for _, k := range []string{"b", "a"} {
		if _, err := runApp(t, dir, "set", k, "1"); err != nil {
			t.Fatalf("set %q: %v", k, err)
		}
	}

	out, err := runApp(t, dir, "keys")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if out != "a\nb\n" {
		t.Errorf("keys output = %q, want sorted list", out)
	}

	out, err = runApp(t, dir, "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if strings.TrimSpace(out) != "2" {
		t.Errorf("count output = %q, want 2", out)
	}
}

func TestDel(t *testing.T) {
	dir := t.TempDir()

	for _, k := range []string{"foo", "food", "bar"} {
		if _, err := runApp(t, dir, "set", k, "1"); err != nil {
			t.Fatalf("set %q: %v", k, err)
		}
	}

	if _, err := runApp(t, dir, "del", "bar"); err != nil {
		t.Fatalf("del: %v", err)
	}

	out, err := runApp(t, dir, "del", "--match", "oo")
	if err != nil {
		t.Fatalf("del --match: %v", err)
	}
	if !strings.Contains(out, "matched 2, removed 2") {
		t.Errorf("del --match output = %q", out)
	}

	out, err = runApp(t, dir, "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Errorf("count output = %q, want 0", out)
	}
}

func TestDelMissingKeyFails(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "del", "nope"); err == nil {
		t.Fatal("del of missing key succeeded, want error")
	}
}

func TestDestroyForce(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := runApp(t, dir, "destroy", "--force"); err != nil {
		t.Fatalf("destroy: %v", err)
	}

	out, err := runApp(t, dir, "count")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if strings.TrimSpace(out) != "0" {
		t.Errorf("count after destroy = %q, want 0", out)
	}
}

func TestBackupAndPrune(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "set", "a", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}

	out, err := runApp(t, dir, "backup")
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if !strings.Contains(out, ".bak") {
		t.Errorf("backup output = %q, want backup path", out)
	}

	if _, err := runApp(t, dir, "backup", "--keep", "1"); err != nil {
		t.Fatalf("backup --keep: %v", err)
	}
}

func TestEncryptedStoreNeedsPassphrase(t *testing.T) {
	dir := t.TempDir()

	if _, err := runApp(t, dir, "--encrypt", "set", "k", "1"); err == nil {
		t.Fatal("encrypted set without passphrase succeeded, want error")
	}

	args := []string{"--encrypt", "--passphrase", "a sufficiently long passphrase"}
	if _, err := runApp(t, dir, append(args, "set", "k", `"v"`)...); err != nil {
		t.Fatalf("encrypted set: %v", err)
	}
	out, err := runApp(t, dir, append(args, "get", "k")...)
	if err != nil {
		t.Fatalf("encrypted get: %v", err)
	}
	if !strings.Contains(out, `"v"`) {
		t.Errorf("encrypted get output = %q, want value", out)
	}
}
