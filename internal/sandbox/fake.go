package sandbox

// FakeMount records one Mount call on a Fake engine.
type FakeMount struct {
	Source string
	Dest   string
	Mode   MountMode
}

// Fake is an in-memory Engine for tests. It records every call in order and
// can be told to fail at any step.
type Fake struct {
	WorkDirSet  string
	ExecArgs    []string
	Initialized bool
	Mounts      []FakeMount
	RanScript   []byte
	RanModule   []byte
	RunCalls    int

	FailWorkDir error
	FailArgs    error
	FailInit    error
	FailMount   error
	FailRun     error
}

var _ Engine = (*Fake)(nil)

func (f *Fake) WorkDir(path string) error {
	if f.FailWorkDir != nil {
		return f.FailWorkDir
	}
	f.WorkDirSet = path
	return nil
}

func (f *Fake) SetExecArgs(args []string) error {
	if f.FailArgs != nil {
		return f.FailArgs
	}
	f.ExecArgs = args
	return nil
}

func (f *Fake) Init() error {
	if f.FailInit != nil {
		return f.FailInit
	}
	f.Initialized = true
	return nil
}

func (f *Fake) Mount(source, dest string, mode MountMode) error {
	if f.FailMount != nil {
		return f.FailMount
	}
	f.Mounts = append(f.Mounts, FakeMount{Source: source, Dest: dest, Mode: mode})
	return nil
}

func (f *Fake) Run(script, module []byte) error {
	f.RunCalls++
	if f.FailRun != nil {
		return f.FailRun
	}
	f.RanScript = script
	f.RanModule = module
	return nil
}
