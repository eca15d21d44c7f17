package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/wasmbox/wasmbox/pkg/utils"
)

// EngineConfig holds the host-side settings for launching the external
// engine binary.
type EngineConfig struct {
	Binary   string        // engine executable, resolved via PATH when bare
	BaseDir  string        // instance directories are created under here
	MemoryMB int           // guest memory limit, 0 uses the engine default
	Timeout  time.Duration // hard cap on one run, 0 means no cap
}

type mountSpec struct {
	Source string `json:"source"`
	Dest   string `json:"dest"`
	Mode   string `json:"mode"`
}

// instanceSpec is the config file handed to the engine binary.
type instanceSpec struct {
	WorkDir  string      `json:"work_dir,omitempty"`
	Args     []string    `json:"args,omitempty"`
	MemoryMB int         `json:"memory_mb,omitempty"`
	Mounts   []mountSpec `json:"mounts"`
}

// ProcessEngine runs the sandbox engine as an external process. Each instance
// owns a directory under BaseDir holding the staged artifacts, the instance
// spec, and the engine log.
type ProcessEngine struct {
	config EngineConfig

	id          string
	instanceDir string
	logPath     string

	spec        instanceSpec
	initialized bool
}

var _ Engine = (*ProcessEngine)(nil)

// NewProcessEngine allocates a fresh engine instance directory.
func NewProcessEngine(cfg EngineConfig) (*ProcessEngine, error) {
	id, err := utils.NewRunID()
	if err != nil {
		return nil, fmt.Errorf("generate engine instance id: %w", err)
	}

	instanceDir := filepath.Join(cfg.BaseDir, id)
	if err := os.MkdirAll(instanceDir, 0o755); err != nil {
		return nil, fmt.Errorf("create engine instance dir: %w", err)
	}

	return &ProcessEngine{
		config:      cfg,
		id:          id,
		instanceDir: instanceDir,
		logPath:     filepath.Join(instanceDir, "engine.log"),
		spec:        instanceSpec{MemoryMB: cfg.MemoryMB},
	}, nil
}

// ID returns the instance identifier.
func (e *ProcessEngine) ID() string {
	return e.id
}

// LogPath returns the engine log location for this instance.
func (e *ProcessEngine) LogPath() string {
	return e.logPath
}

func (e *ProcessEngine) WorkDir(path string) error {
	if e.initialized {
		return errors.New("engine already initialized")
	}
	e.spec.WorkDir = path
	return nil
}

func (e *ProcessEngine) SetExecArgs(args []string) error {
	if e.initialized {
		return errors.New("engine already initialized")
	}
	e.spec.Args = args
	return nil
}

func (e *ProcessEngine) Init() error {
	if e.initialized {
		return errors.New("engine already initialized")
	}
	e.initialized = true
	return nil
}

func (e *ProcessEngine) Mount(source, dest string, mode MountMode) error {
	if !e.initialized {
		return errors.New("engine not initialized")
	}
	e.spec.Mounts = append(e.spec.Mounts, mountSpec{Source: source, Dest: dest, Mode: string(mode)})
	return nil
}

// Run stages the script and module next to the instance spec and launches
// the engine binary, streaming its output to the instance log. A non-zero
// exit or a timeout is surfaced as an error.
func (e *ProcessEngine) Run(script, module []byte) error {
	if !e.initialized {
		return errors.New("engine not initialized")
	}

	scriptPath := filepath.Join(e.instanceDir, "main.js")
	modulePath := filepath.Join(e.instanceDir, "main.wasm")
	if err := os.WriteFile(scriptPath, script, 0o644); err != nil {
		return fmt.Errorf("stage script: %w", err)
	}
	if err := os.WriteFile(modulePath, module, 0o644); err != nil {
		return fmt.Errorf("stage module: %w", err)
	}

	specData, err := json.Marshal(e.spec)
	if err != nil {
		return fmt.Errorf("marshal instance spec: %w", err)
	}
	specPath := filepath.Join(e.instanceDir, "instance.json")
	if err := os.WriteFile(specPath, specData, 0o644); err != nil {
		return fmt.Errorf("write instance spec: %w", err)
	}

	logFile, err := os.Create(e.logPath)
	if err != nil {
		return fmt.Errorf("create engine log: %w", err)
	}
	defer logFile.Close()

	ctx := context.Background()
	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.config.Binary,
		"--config", specPath,
		"--script", scriptPath,
		"--module", modulePath,
	)
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("engine run timed out after %s: %w", e.config.Timeout, ctx.Err())
		}
		return fmt.Errorf("engine run: %w", err)
	}

	return nil
}

// Clean removes the instance directory. It must not be called while the
// engine process is still running.
func (e *ProcessEngine) Clean() error {
	if err := os.RemoveAll(e.instanceDir); err != nil {
		return fmt.Errorf("clean engine instance %s: %w", e.id, err)
	}
	return nil
}
