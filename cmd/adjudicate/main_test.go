package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/auth"
)

const supportedAttack = `
phase: movement
units:
  France: [A Paris, A Picardy]
  Germany: [A Burgundy]
orders:
  France:
    - A Paris - Burgundy
    - A Picardy S A Paris - Burgundy
`

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetArgs(append([]string{"--log-level", "disabled"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolveYAML(t *testing.T) {
	out, err := run(t, "", "resolve", writeFile(t, "attack.yaml", supportedAttack))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for _, want := range []string{"phase: movement", "A Burgundy:", "- Belgium", "- Ruhr"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestResolveStdin(t *testing.T) {
	out, err := run(t, supportedAttack, "resolve", "--json", "-")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var got struct {
		Units map[string][]string `json:"units"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if len(got.Units["France"]) != 2 {
		t.Errorf("unexpected units %v", got.Units)
	}
}

func TestResolveBatch(t *testing.T) {
	hold := writeFile(t, "hold.json", `{"phase":"movement","units":{"Italy":["A Rome"]}}`)
	attack := writeFile(t, "attack.yml", supportedAttack)

	out, err := run(t, "", "resolve", "--json", hold, attack)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	var got struct {
		ID      string `json:"id"`
		Results []struct {
			Units map[string][]string `json:"units"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if got.ID == "" || len(got.Results) != 2 {
		t.Fatalf("unexpected batch %s", out)
	}
	if got.Results[0].Units["Italy"][0] != "A Rome" {
		t.Errorf("results out of order: %s", out)
	}
}

func TestResolveErrorsNameTheFile(t *testing.T) {
	bad := writeFile(t, "bad.yaml", "phase: movement\nunits:\n  France: [A Paris]\norders:\n  France: [A Paris H, A Paris H]\n")
	good := writeFile(t, "good.yaml", "phase: movement\nunits:\n  France: [A Brest]\n")

	for _, args := range [][]string{{bad}, {good, bad}, {filepath.Join(t.TempDir(), "missing.yaml")}} {
		_, err := run(t, "", append([]string{"resolve"}, args...)...)
		if err == nil {
			t.Fatalf("%v: expected error", args)
		}
		if !strings.Contains(err.Error(), args[len(args)-1]) {
			t.Errorf("error should name the file: %v", err)
		}
	}

	if _, err := run(t, "", "resolve"); err == nil {
		t.Error("resolve without files should fail")
	}
}

func TestMapCommand(t *testing.T) {
	out, err := run(t, "", "map")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "North Sea") || strings.Count(out, "*") != 34 {
		t.Errorf("unexpected map listing:\n%s", out)
	}

	out, err = run(t, "", "map", "--territory", "Spain")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Spain North Coast, Spain South Coast") || !strings.Contains(out, "true") {
		t.Errorf("unexpected territory output:\n%s", out)
	}

	if _, err := run(t, "", "map", "-t", "Atlantis"); err == nil {
		t.Error("expected an unknown territory error")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "", "token", "scorer")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := auth.NewJWTManager("cli-secret").ValidateToken(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token does not validate: %v", err)
	}
	if claims.ClientID != "scorer" {
		t.Errorf("expected scorer, got %s", claims.ClientID)
	}
}
