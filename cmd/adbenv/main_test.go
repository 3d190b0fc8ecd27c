package main

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/giantswarm/adbenv"
	"github.com/giantswarm/adbenv/internal/journal"
	"golang.org/x/text/encoding/charmap"
	"gopkg.in/yaml.v3"
)

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// executeWith is execute with rt in place of the container runtime.
func executeWith(t *testing.T, rt adbenv.Runtime, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmdWith(&globalFlags{runtime: rt})
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestKeyFileCmd(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	utf8Path := filepath.Join(dir, "config")
	writeFile(t, utf8Path, []byte("[DEFAULT]\nkey_file=/keys/default.pem\n[PARIS]\nkey_file = /keys/paris.pem\n"))

	latin1, err := charmap.ISO8859_1.NewEncoder().String("[DEFAULT]\n# clé privée\nkey_file=/keys/défaut.pem\n")
	if err != nil {
		t.Fatal(err)
	}
	latin1Path := filepath.Join(dir, "config.latin1")
	writeFile(t, latin1Path, []byte(latin1))

	tests := map[string]struct {
		args    []string
		want    string
		wantErr string
	}{
		"default profile": {
			args: []string{"keyfile", "--credentials", utf8Path},
			want: "/keys/default.pem\n",
		},
		"named profile": {
			args: []string{"keyfile", "--credentials", utf8Path, "-p", "PARIS"},
			want: "/keys/paris.pem\n",
		},
		"list profiles": {
			args: []string{"keyfile", "--credentials", utf8Path, "--list"},
			want: "DEFAULT\nPARIS\n",
		},
		"latin1 file": {
			args: []string{"keyfile", "--credentials", latin1Path, "--encoding", "latin1"},
			want: "/keys/défaut.pem\n",
		},
		"unknown profile": {
			args:    []string{"keyfile", "--credentials", utf8Path, "-p", "TOKYO"},
			wantErr: "TOKYO",
		},
		"unknown encoding": {
			args:    []string{"keyfile", "--credentials", utf8Path, "--encoding", "ebcdic"},
			wantErr: "unsupported encoding",
		},
		"unknown log level": {
			args:    []string{"keyfile", "--credentials", utf8Path, "--log-level", "loud"},
			wantErr: "unknown log level",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := execute(t, tc.args...)
			if tc.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
					t.Fatalf("err = %v, want it to contain %q", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("output = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestIdentityCmd(t *testing.T) {
	t.Parallel()

	got, err := execute(t, "identity", "--prefix", "TESTUSER", "--key", "ci")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("output = %q, want two lines", got)
	}
	if len(lines[0]) != 10 {
		t.Errorf("identity %q is not 10 characters", lines[0])
	}
	if !strings.HasPrefix(lines[1], "TESTUSER"+lines[0]+"_ci_") {
		t.Errorf("user %q does not embed prefix, identity and key", lines[1])
	}
}

func TestUsersCmd(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "journal.db")
	j := journal.New(path)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, e := range []journal.Entry{
		{Database: "DB1", Username: "TESTUSERA", Profile: "DEFAULT", CreatedAt: created},
		{Database: "DB2", Username: "TESTUSERB", Profile: "DEFAULT", CreatedAt: created.Add(time.Hour)},
	} {
		if err := j.RecordCreated(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("yaml filtered by database", func(t *testing.T) {
		t.Parallel()
		got, err := execute(t, "users", "--journal", path, "--database", "DB2", "-o", "yaml")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var users []pendingUser
		if err := yaml.Unmarshal([]byte(got), &users); err != nil {
			t.Fatalf("output is not YAML: %v\n%s", err, got)
		}
		if len(users) != 1 || users[0].Username != "TESTUSERB" || !users[0].CreatedAt.Equal(created.Add(time.Hour)) {
			t.Errorf("users = %+v", users)
		}
	})

	t.Run("table", func(t *testing.T) {
		t.Parallel()
		got, err := execute(t, "users", "--journal", path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(got), "\n")
		if len(lines) != 3 || !strings.HasPrefix(lines[0], "DATABASE") {
			t.Fatalf("output = %q", got)
		}
		if !strings.Contains(lines[1], "TESTUSERA") || !strings.Contains(lines[2], "TESTUSERB") {
			t.Errorf("rows not ordered by creation: %q", got)
		}
	})

	t.Run("journal flag required", func(t *testing.T) {
		t.Parallel()
		if _, err := execute(t, "users"); err == nil {
			t.Fatal("expected error without --journal")
		}
	})

	t.Run("missing journal", func(t *testing.T) {
		t.Parallel()
		missing := filepath.Join(filepath.Dir(path), "typo", "journl.db")
		if _, err := execute(t, "users", "--journal", missing); !errors.Is(err, fs.ErrNotExist) {
			t.Fatalf("err = %v, want fs.ErrNotExist", err)
		}
	})
}

type nopRuntime struct{}

func (nopRuntime) Start(context.Context, adbenv.InstanceSpec) error { return nil }
func (nopRuntime) Exec(context.Context, []string) (adbenv.ExecResult, error) {
	return adbenv.ExecResult{}, nil
}
func (nopRuntime) Kill(context.Context, string) error    { return nil }
func (nopRuntime) Running(context.Context) (bool, error) { return false, nil }
func (nopRuntime) Terminate(context.Context) error       { return nil }

func TestInstanceFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "instance.yaml")
	writeFile(t, path, []byte(`
databaseName: AJDSAI2
usernamePrefix: TESTUSER
workloadType: JSON
freeTier: false
reuse: true
isolationKey: nightly
readyTimeout: 5m
terminationGrace: 30s
`))

	f, err := loadInstanceFile(path)
	if err != nil {
		t.Fatalf("loadInstanceFile: %v", err)
	}
	if f.ReadyTimeout != 5*time.Minute || f.TerminationGrace != 30*time.Second {
		t.Errorf("durations = %s/%s", f.ReadyTimeout, f.TerminationGrace)
	}

	opts := append(f.options(), adbenv.WithRuntime(nopRuntime{}))
	ctl, err := adbenv.NewController(opts...)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	if ctl.DatabaseName() != "AJDSAI2" || ctl.WorkloadType() != "JSON" || ctl.IsolationKey() != "nightly" {
		t.Errorf("database=%q workload=%q key=%q", ctl.DatabaseName(), ctl.WorkloadType(), ctl.IsolationKey())
	}
	if ctl.FreeTier() || !ctl.Reusable() {
		t.Errorf("freeTier=%v reuse=%v", ctl.FreeTier(), ctl.Reusable())
	}
	if !strings.HasPrefix(ctl.Username(), "TESTUSER") {
		t.Errorf("Username() = %q", ctl.Username())
	}
}

func TestInstanceFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, []byte("databaseName: [unclosed\n"))
	rejected := filepath.Join(dir, "rejected.yaml")
	writeFile(t, rejected, []byte("databaseName: adb1\n"))

	if _, err := loadInstanceFile(bad); err == nil {
		t.Error("expected parse error")
	}
	if _, err := loadInstanceFile(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Error("expected read error")
	}

	_, err := execute(t, "run", "-f", rejected, "--credentials", filepath.Join(dir, "config"))
	if err == nil || !strings.Contains(err.Error(), "adb1") {
		t.Errorf("run with rejected option: err = %v", err)
	}

	_, err = execute(t, "run", "--detach")
	if err == nil || !strings.Contains(err.Error(), "--detach requires reuse") {
		t.Errorf("run --detach without reuse: err = %v", err)
	}
}

func TestIdentityCmd_InvalidPrefix(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "identity", "--prefix", "ABCDEFGHIJKL", "--key", "ci")
	if !errors.Is(err, adbenv.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

// silentRuntime starts without writing the instance descriptor and records
// the teardown calls.
type silentRuntime struct {
	nopRuntime

	mu         sync.Mutex
	killed     bool
	terminated bool
}

func (r *silentRuntime) Kill(context.Context, string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.killed = true
	return nil
}

func (r *silentRuntime) Terminate(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.terminated = true
	return nil
}

func TestRunCmd_StopsWhenDescribeFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	key := filepath.Join(dir, "key.pem")
	writeFile(t, key, []byte("key"))
	credentials := filepath.Join(dir, "config")
	writeFile(t, credentials, []byte("[DEFAULT]\nkey_file="+key+"\n"))
	instance := filepath.Join(dir, "instance.yaml")
	writeFile(t, instance, []byte("descriptorDir: "+filepath.Join(dir, "descriptors")+"\n"))

	rt := &silentRuntime{}
	_, err := executeWith(t, rt, "run", "-f", instance, "--credentials", credentials)
	if !errors.Is(err, adbenv.ErrDescriptorRead) {
		t.Fatalf("err = %v, want ErrDescriptorRead", err)
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()
	if !rt.killed || !rt.terminated {
		t.Errorf("killed=%v terminated=%v, want the instance torn down", rt.killed, rt.terminated)
	}
}
