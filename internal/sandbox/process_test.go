package sandbox

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func newTestEngine(t *testing.T) *ProcessEngine {
	t.Helper()

	eng, err := NewProcessEngine(EngineConfig{
		Binary:  "/bin/true",
		BaseDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return eng
}

func TestProcessEngineCallOrder(t *testing.T) {
	eng := newTestEngine(t)

	if err := eng.Mount("/src", "/dst", MountRW); err == nil {
		t.Error("Mount before Init must fail")
	}
	if err := eng.Run(nil, nil); err == nil {
		t.Error("Run before Init must fail")
	}

	if err := eng.WorkDir("/work"); err != nil {
		t.Fatalf("workdir: %v", err)
	}
	if err := eng.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := eng.Init(); err == nil {
		t.Error("double Init must fail")
	}
	if err := eng.WorkDir("/late"); err == nil {
		t.Error("WorkDir after Init must fail")
	}
}

func TestProcessEngineStagesInstance(t *testing.T) {
	eng := newTestEngine(t)

	if err := eng.WorkDir("/work"); err != nil {
		t.Fatalf("workdir: %v", err)
	}
	if err := eng.SetExecArgs([]string{"-v", "input.txt"}); err != nil {
		t.Fatalf("args: %v", err)
	}
	if err := eng.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := eng.Mount("/tmp/task.zip", ConfinementRoot, MountRO); err != nil {
		t.Fatalf("mount image: %v", err)
	}
	if err := eng.Mount("/tmp/work/id1", "/out", MountRW); err != nil {
		t.Fatalf("mount out: %v", err)
	}

	if err := eng.Run([]byte("js"), []byte("wasm")); err != nil {
		t.Fatalf("run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(eng.instanceDir, "instance.json"))
	if err != nil {
		t.Fatalf("read instance spec: %v", err)
	}

	var spec instanceSpec
	if err := json.Unmarshal(data, &spec); err != nil {
		t.Fatalf("decode instance spec: %v", err)
	}
	if spec.WorkDir != "/work" {
		t.Errorf("spec workdir = %q", spec.WorkDir)
	}
	if len(spec.Args) != 2 || spec.Args[0] != "-v" {
		t.Errorf("spec args = %v", spec.Args)
	}
	if len(spec.Mounts) != 2 {
		t.Fatalf("spec mounts = %v", spec.Mounts)
	}
	if spec.Mounts[0].Dest != ConfinementRoot || spec.Mounts[0].Mode != "ro" {
		t.Errorf("image mount = %+v", spec.Mounts[0])
	}
	if spec.Mounts[1].Dest != "/out" || spec.Mounts[1].Mode != "rw" {
		t.Errorf("workdir mount = %+v", spec.Mounts[1])
	}

	script, err := os.ReadFile(filepath.Join(eng.instanceDir, "main.js"))
	if err != nil || string(script) != "js" {
		t.Errorf("staged script = %q, err %v", script, err)
	}
	module, err := os.ReadFile(filepath.Join(eng.instanceDir, "main.wasm"))
	if err != nil || string(module) != "wasm" {
		t.Errorf("staged module = %q, err %v", module, err)
	}
}

func TestProcessEngineRunFailure(t *testing.T) {
	eng, err := NewProcessEngine(EngineConfig{
		Binary:  "/bin/false",
		BaseDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	if err := eng.Init(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if err := eng.Run(nil, nil); err == nil {
		t.Error("non-zero engine exit must surface as an error")
	}
}
