//go:build !linux

package source

import (
	"context"
	"fmt"
)

// ProcFS is only available on Linux.
type ProcFS struct{}

// NewProcFS always fails outside Linux; use the portable source instead.
func NewProcFS(root string) (*ProcFS, error) {
	return nil, fmt.Errorf("procfs source: %w", ErrUnsupportedPlatform)
}

func (p *ProcFS) Name() string { return NameProcFS }

func (p *ProcFS) Memory(context.Context) (MemoryInfo, error) {
	return MemoryInfo{}, ErrUnsupportedPlatform
}

func (p *ProcFS) LoadAverage(context.Context) (LoadAverage, error) {
	return LoadAverage{}, ErrUnsupportedPlatform
}

func (p *ProcFS) ProcessIDs(context.Context) ([]int, error) {
	return nil, ErrUnsupportedPlatform
}

func (p *ProcFS) Process(context.Context, int) (ProcessInfo, error) {
	return ProcessInfo{}, ErrUnsupportedPlatform
}

func (p *ProcFS) Mounts(context.Context) (MountTable, error) {
	return MountTable{}, ErrUnsupportedPlatform
}

func (p *ProcFS) FilesystemUsage(context.Context, string) (FSUsage, error) {
	return FSUsage{}, ErrUnsupportedPlatform
}
