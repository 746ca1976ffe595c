package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
)

// Profiler controls the lifecycle of one profiling session.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	dir     string
	kinds   []string
}

// Enabled reports whether any profile was requested.
func (p *Profiler) Enabled() bool {
	return len(p.kinds) > 0
}

// Path returns the file a profile is written to.
func (p *Profiler) Path(kind string) string {
	return filepath.Join(p.dir, kind+".pprof")
}

// Start enables block and mutex sampling when those profiles were requested
// and starts CPU profiling if enabled. Call [Profiler.Stop] to write the
// profiles.
func (p *Profiler) Start() error {
	if !p.Enabled() {
		return nil
	}

	err := os.MkdirAll(p.dir, 0o755)
	if err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}

	if slices.Contains(p.kinds, Block) {
		runtime.SetBlockProfileRate(1)
	}

	if slices.Contains(p.kinds, Mutex) {
		runtime.SetMutexProfileFraction(1)
	}

	if !slices.Contains(p.kinds, CPU) {
		return nil
	}

	f, err := os.Create(p.Path(CPU)) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create cpu profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("start cpu profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes every requested snapshot profile. It
// attempts every profile and returns all failures joined.
func (p *Profiler) Stop() error {
	var errs []error

	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("close cpu profile: %w", err))
		}

		p.cpuFile = nil
	}

	for _, kind := range p.kinds {
		if kind == CPU {
			continue
		}

		err := p.writeSnapshot(kind)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

func (p *Profiler) writeSnapshot(kind string) error {
	prof := pprof.Lookup(kind)
	if prof == nil {
		return fmt.Errorf("%w: %q", ErrUnknownProfile, kind)
	}

	if kind == Heap || kind == Allocs {
		// Include allocations since the last collection.
		runtime.GC()
	}

	f, err := os.Create(p.Path(kind)) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", kind, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", kind, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("close %s profile: %w", kind, err)
	}

	return nil
}
