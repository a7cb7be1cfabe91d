package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// profiler captures a CPU profile for the session and, optionally, a heap
// snapshot when it stops.
type profiler struct {
	cpu      *os.File
	heapPath string
	once     sync.Once
}

// startProfiling begins CPU profiling into cpuPath. Empty paths disable the
// corresponding profile.
func startProfiling(cpuPath, heapPath string) (*profiler, error) {
	p := &profiler{heapPath: heapPath}
	if cpuPath == "" {
		return p, nil
	}
	f, err := os.Create(cpuPath)
	if err != nil {
		return nil, fmt.Errorf("creating CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("starting CPU profile: %w", err)
	}
	p.cpu = f
	return p, nil
}

// stop flushes the profiles. Only the first call has an effect.
func (p *profiler) stop() error {
	var err error
	p.once.Do(func() {
		if p.cpu != nil {
			pprof.StopCPUProfile()
			err = p.cpu.Close()
		}
		if p.heapPath == "" {
			return
		}
		f, cerr := os.Create(p.heapPath)
		if cerr != nil {
			err = fmt.Errorf("creating heap profile: %w", cerr)
			return
		}
		defer f.Close()
		runtime.GC()
		if werr := pprof.WriteHeapProfile(f); werr != nil {
			err = fmt.Errorf("writing heap profile: %w", werr)
		}
	})
	return err
}
