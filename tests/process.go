//go:build e2e

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
)

// Process is the server binary under test.
type Process struct {
	cmd    *exec.Cmd
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func NewProcess(ctx context.Context, env []string, command string, args ...string) *Process {
	p := &Process{
		cmd:    exec.CommandContext(ctx, command, args...),
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
	}
	p.cmd.Env = append(os.Environ(), env...)
	p.cmd.Stdout = p.stdout
	p.cmd.Stderr = p.stderr
	return p
}

func (p *Process) Start(ctx context.Context) error {
	startChan := make(chan error, 1)
	go func() {
		startChan <- p.cmd.Start()
	}()

	select {
	case err := <-startChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Process) Stop() (exitCode int, err error) {
	if p.cmd.Process == nil {
		return -1, errors.New("process not started")
	}
	if err := p.cmd.Process.Kill(); err != nil {
		return -1, errors.New("error sending signal to process: " + err.Error())
	}
	state, err := p.cmd.Process.Wait()
	if err != nil {
		return -1, err
	}
	return state.ExitCode(), nil
}

// Logs returns what the server wrote so far.
func (p *Process) Logs() string {
	return p.stdout.String() + p.stderr.String()
}
