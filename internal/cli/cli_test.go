package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
)

// testEnv isolates a CLI run: its own config, store and cache directories.
type testEnv struct {
	dir    string
	config string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg-cache"))

	cfg := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[store]\nbackend = \"file\"\ndir = %q\n\n[cache]\ndir = %q\n",
		filepath.Join(dir, "store"), filepath.Join(dir, "cache"))
	if err := os.WriteFile(cfg, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return &testEnv{dir: dir, config: cfg}
}

func (e *testEnv) path(name string) string { return filepath.Join(e.dir, name) }

// run executes the CLI and returns everything it printed.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	prev := stdout
	stdout = &out
	defer func() { stdout = prev }()

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

func runJSON[T any](t *testing.T, e *testEnv, args ...string) T {
	t.Helper()
	out := e.mustRun(t, append(args, "--json")...)
	var v T
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	return v
}

// square builds the 3×4 rectangle board with two routes from 0 to 2.
func (e *testEnv) square(t *testing.T) string {
	t.Helper()
	board := e.path("board.json")
	for _, p := range [][2]string{{"0", "0"}, {"3", "0"}, {"3", "4"}, {"0", "4"}} {
		e.mustRun(t, "node", "add", board, p[0], p[1])
	}
	for _, ed := range [][2]string{{"0", "1"}, {"1", "2"}, {"0", "3"}, {"3", "2"}} {
		e.mustRun(t, "edge", "add", board, ed[0], ed[1])
	}
	return board
}

func TestBuildBoardAndInfo(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	info := runJSON[boardInfo](t, e, "info", board)
	if info.Nodes != 4 || info.Edges != 4 || info.Sources != 1 || info.Sinks != 1 {
		t.Errorf("info = %+v", info)
	}
	if b := info.Bounds; b == nil || b.MaxX != 3 || b.MaxY != 4 || b.MinX != 0 {
		t.Errorf("bounds = %+v", info.Bounds)
	}

	out := e.mustRun(t, "info", board)
	if !strings.Contains(out, "4 nodes") {
		t.Errorf("info output = %q", out)
	}
}

func TestRouteCommand(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	rt := runJSON[graph.Route](t, e, "route", board, "--from", "0", "--to", "2")
	if !rt.Reachable || rt.Distance == nil || *rt.Distance != 7 || len(rt.Nodes) != 3 {
		t.Fatalf("route = %+v, want reachable with distance 7", rt)
	}

	// Served from the cache the second time; same answer.
	again := runJSON[graph.Route](t, e, "route", board, "--from", "0", "--to", "2")
	if *again.Distance != 7 {
		t.Errorf("cached distance = %v", *again.Distance)
	}

	out := e.mustRun(t, "route", board, "--from", "0", "--to", "2")
	if !strings.Contains(out, "distance 7") || !strings.Contains(out, "cached") {
		t.Errorf("route output = %q", out)
	}

	back := runJSON[graph.Route](t, e, "route", board, "--from", "2", "--to", "0", "--no-cache")
	if back.Reachable || back.Distance != nil {
		t.Errorf("reverse route = %+v, want unreachable", back)
	}

	if _, err := e.run(t, "route", board, "--from", "0"); err == nil {
		t.Error("route without --to should fail")
	}
	_, err := e.run(t, "route", board, "--from", "0", "--to", "9")
	if !apperrors.Is(err, apperrors.ErrCodeUnknownNode) {
		t.Errorf("route to 9: err = %v, want UNKNOWN_NODE", err)
	}
}

func TestEdgeCommands(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	out := e.mustRun(t, "edge", "add", board, "0", "1")
	if !strings.Contains(out, "already exists") {
		t.Errorf("duplicate edge output = %q", out)
	}

	_, err := e.run(t, "edge", "add", board, "1", "1")
	if !apperrors.Is(err, apperrors.ErrCodeInvariantViolation) {
		t.Errorf("self-loop: err = %v, want INVARIANT_VIOLATION", err)
	}

	e.mustRun(t, "edge", "rm", board, "0", "1")
	_, err = e.run(t, "edge", "rm", board, "0", "1")
	if !apperrors.Is(err, apperrors.ErrCodeUnknownEdge) {
		t.Errorf("missing edge: err = %v, want UNKNOWN_EDGE", err)
	}

	rt := runJSON[graph.Route](t, e, "route", board, "--from", "0", "--to", "2")
	if len(rt.Nodes) != 3 || rt.Nodes[1] != 3 {
		t.Errorf("route after removal = %v, want via 3", rt.Nodes)
	}
}

func TestNodeCommands(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	e.mustRun(t, "node", "move", board, "1", "30", "0")
	rt := runJSON[graph.Route](t, e, "route", board, "--from", "0", "--to", "2")
	if rt.Nodes[1] != 3 || *rt.Distance != 7 {
		t.Errorf("route after move = %+v", rt)
	}

	out := e.mustRun(t, "node", "rm", board, "1")
	if !strings.Contains(out, "2 edges removed") {
		t.Errorf("rm output = %q", out)
	}
	info := runJSON[boardInfo](t, e, "info", board)
	if info.Nodes != 3 || info.Edges != 2 {
		t.Errorf("after rm: %+v", info)
	}

	tests := []struct {
		args []string
		code apperrors.Code
	}{
		{[]string{"node", "rm", board, "7"}, apperrors.ErrCodeUnknownNode},
		{[]string{"node", "rm", board, "-1"}, apperrors.ErrCodeInvalidInput},
		{[]string{"node", "add", board, "NaN", "0"}, apperrors.ErrCodeInvalidInput},
		{[]string{"node", "move", board, "0", "1", "Inf"}, apperrors.ErrCodeInvalidInput},
		{[]string{"info", e.path("missing.json")}, apperrors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[:2], " "), func(t *testing.T) {
			_, err := e.run(t, tt.args...)
			if !apperrors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPickCommand(t *testing.T) {
	e := newTestEnv(t)
	board := e.path("line.json")
	e.mustRun(t, "node", "add", board, "0", "0")
	e.mustRun(t, "node", "add", board, "100", "0")
	e.mustRun(t, "edge", "add", board, "0", "1")

	tests := []struct {
		name  string
		args  []string
		want  string
		node  int
		edgeT int
	}{
		{"node", []string{"2", "1"}, "node", 0, 0},
		{"edge", []string{"50", "2"}, "edge", 0, 1},
		{"none", []string{"50", "50"}, "none", 0, 0},
		{"small radius", []string{"2", "1", "--node-radius", "1", "--node-wins-radius", "0.5"}, "edge", 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runJSON[pickResult](t, e, append([]string{"pick", board}, tt.args...)...)
			if got.Kind != tt.want {
				t.Fatalf("kind = %s, want %s", got.Kind, tt.want)
			}
			if tt.want == "node" && (got.Node == nil || *got.Node != tt.node) {
				t.Errorf("node = %v, want %d", got.Node, tt.node)
			}
			if tt.want == "edge" && (got.Edge == nil || got.Edge.To != tt.edgeT) {
				t.Errorf("edge = %v", got.Edge)
			}
		})
	}

	if _, err := e.run(t, "pick", board, "0", "0", "--node-wins-radius", "50"); err == nil {
		t.Error("node-wins radius above node radius should fail")
	}
}

func TestNearestAndWithin(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	near := runJSON[nearestResult](t, e, "nearest", board, "0")
	if near.Index == nil || *near.Index != 1 {
		t.Errorf("nearest = %v, want 1", near.Index)
	}

	within := runJSON[withinResult](t, e, "within", board, "0", "3.5", "5.5")
	if len(within.Indices) != 2 || within.Indices[0] != 2 || within.Indices[1] != 3 {
		t.Errorf("within = %v, want [2 3]", within.Indices)
	}

	alone := e.path("alone.json")
	e.mustRun(t, "node", "add", alone, "1", "1")
	if got := runJSON[nearestResult](t, e, "nearest", alone, "0"); got.Index != nil {
		t.Errorf("alone nearest = %v, want nil", *got.Index)
	}
}

func TestConvertCommand(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)
	tomlPath := e.path("board.toml")
	back := e.path("back.json")

	e.mustRun(t, "convert", board, tomlPath)
	e.mustRun(t, "convert", tomlPath, back)

	want, err := os.ReadFile(board)
	if err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(back)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(want, got) {
		t.Errorf("round trip differs:\n%s\nvs\n%s", want, got)
	}

	_, err = e.run(t, "convert", board, e.path("board.yaml"))
	if !apperrors.Is(err, apperrors.ErrCodeUnsupported) {
		t.Errorf("yaml: err = %v, want UNSUPPORTED", err)
	}
}

func TestRenderCommand(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)
	out := e.path("route.dot")

	e.mustRun(t, "render", board, "-o", out, "--from", "0", "--to", "2")
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph G {") || !strings.Contains(string(data), "penwidth=3") {
		t.Errorf("DOT:\n%s", data)
	}

	if _, err := e.run(t, "render", board, "-f", "json"); err == nil {
		t.Error("rendering JSON next to a .json board should refuse to overwrite it")
	}
}

func TestResolveOutput(t *testing.T) {
	tests := []struct {
		input, output, format string
		wantFormat, wantOut   string
		wantErr               bool
	}{
		{"b.json", "", "", "svg", "b.svg", false},
		{"b.json", "x.PDF", "", "pdf", "x.PDF", false},
		{"b.json", "x.out", "dot", "dot", "x.out", false},
		{"b.toml", "", "json", "json", "b.json", false},
		{"b.json", "x.gif", "", "", "", true},
		{"b.json", "", "json", "", "", true},
	}
	for _, tt := range tests {
		format, out, err := resolveOutput(tt.input, tt.output, tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveOutput(%q, %q, %q) err = %v", tt.input, tt.output, tt.format, err)
			continue
		}
		if format != tt.wantFormat || out != tt.wantOut {
			t.Errorf("resolveOutput(%q, %q, %q) = %q, %q; want %q, %q",
				tt.input, tt.output, tt.format, format, out, tt.wantFormat, tt.wantOut)
		}
	}
}

func TestStoreCommands(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	if names := runJSON[[]string](t, e, "store", "list"); len(names) != 0 {
		t.Fatalf("initial names = %v", names)
	}

	e.mustRun(t, "store", "save", board)
	e.mustRun(t, "store", "save", board, "office")
	names := runJSON[[]string](t, e, "store", "list")
	if len(names) != 2 || names[0] != "board" || names[1] != "office" {
		t.Fatalf("names = %v, want [board office]", names)
	}

	copyPath := e.path("copy.toml")
	e.mustRun(t, "store", "load", "office", copyPath)
	info := runJSON[boardInfo](t, e, "info", copyPath)
	if info.Nodes != 4 || info.Edges != 4 {
		t.Errorf("loaded info = %+v", info)
	}

	e.mustRun(t, "store", "rm", "office")
	_, err := e.run(t, "store", "load", "office", copyPath)
	if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("load deleted: err = %v, want NOT_FOUND", err)
	}
}

func TestBoardName(t *testing.T) {
	if got := boardName("/tmp/boards/office.json"); got != "office" {
		t.Errorf("boardName = %q, want office", got)
	}
	if got := boardName("/tmp/.json"); !strings.HasPrefix(got, "graph-") {
		t.Errorf("boardName for hidden file = %q, want generated", got)
	}
}

func TestCacheCommands(t *testing.T) {
	e := newTestEnv(t)
	board := e.square(t)

	out := e.mustRun(t, "cache", "path")
	if strings.TrimSpace(out) != e.path("cache") {
		t.Errorf("cache path = %q, want %q", out, e.path("cache"))
	}

	e.mustRun(t, "route", board, "--from", "0", "--to", "2")
	out = e.mustRun(t, "cache", "info")
	for _, want := range []string{"file", "Entries", "1", "Scope"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache info output missing %q:\n%s", want, out)
		}
	}
	out = e.mustRun(t, "cache", "prune")
	if !strings.Contains(out, "Pruned 0 expired entries") {
		t.Errorf("cache prune output = %q", out)
	}
	out = e.mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("cache clear output = %q", out)
	}
}

func TestConfigCommands(t *testing.T) {
	e := newTestEnv(t)

	out := e.mustRun(t, "config", "path")
	if strings.TrimSpace(out) != e.config {
		t.Errorf("config path = %q, want %q", out, e.config)
	}

	out = e.mustRun(t, "config", "show")
	for _, want := range []string{"[pick]", "node_radius", "[store]", e.path("store")} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}

	fresh := &testEnv{dir: e.dir, config: e.path("fresh/config.toml")}
	if _, err := fresh.run(t, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := fresh.run(t, "config", "init"); err == nil {
		t.Error("second config init should refuse to overwrite")
	}
	if _, err := fresh.run(t, "config", "init", "--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
	if _, err := fresh.run(t, "config", "show"); err != nil {
		t.Errorf("generated config should load: %v", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	e := newTestEnv(t)
	out := e.mustRun(t, "completion", "bash")
	if !strings.Contains(out, "routeboard") {
		t.Error("bash completion should mention the command name")
	}
}

func TestCompletions(t *testing.T) {
	exts, dir := completeBoardFile(nil, nil, "")
	if dir != cobra.ShellCompDirectiveFilterFileExt || len(exts) != 2 {
		t.Errorf("board completion = %v, %v", exts, dir)
	}
	if _, dir := completeBoardFile(nil, []string{"b.json"}, ""); dir != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("after the board: directive = %v", dir)
	}

	e := newTestEnv(t)
	board := e.square(t)
	e.mustRun(t, "store", "save", board, "office")
	e.mustRun(t, "store", "save", board, "lab")

	c := New(io.Discard, LogInfo)
	c.configPath = e.config
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	names, dir := c.completeStoredName(cmd, nil, "of")
	if dir != cobra.ShellCompDirectiveNoFileComp || len(names) != 1 || names[0] != "office" {
		t.Errorf("stored names = %v, %v", names, dir)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	info := summarize(graph.Document{})
	if info.Nodes != 0 || info.Bounds != nil {
		t.Errorf("summarize(empty) = %+v", info)
	}
}
