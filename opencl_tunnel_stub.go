//go:build !opencl

package main

import (
	"errors"

	"tunnel/internal/tunnel"
)

type openCLTunnel struct{}

func newOpenCLTunnel(_ *tunnel.Renderer) (*openCLTunnel, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}

func (s *openCLTunnel) Render(_ float64, _ []byte) error {
	return errors.New("OpenCL backend unavailable")
}

func (s *openCLTunnel) Close() {}

func (s *openCLTunnel) DeviceName() string { return "" }
