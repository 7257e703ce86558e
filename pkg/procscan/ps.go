package procscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"regexp"
	"strings"

	"codeberg.org/miketth/kbddbar/pkg/kbdd"
)

// Ps checks for a running process by listing processes with `ps axw`.
type Ps struct {
	Path    string
	Pattern *regexp.Regexp
}

// New returns a Ps that matches processes whose executable is named
// processName.
func New(path, processName string) (*Ps, error) {
	if processName == "" {
		return nil, errors.New("process name is empty")
	}

	re, err := regexp.Compile(`^(\S*/)?` + regexp.QuoteMeta(processName) + `(\s|$)`)
	if err != nil {
		return nil, fmt.Errorf("compile process pattern: %w", err)
	}

	return &Ps{Path: path, Pattern: re}, nil
}

func (p *Ps) runCommand(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	path := p.Path
	if path == "" {
		path = "ps"
	}

	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", path, kbdd.ErrToolMissing)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w, stderr: %s", path, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}

func (p *Ps) IsRunning(ctx context.Context) (bool, error) {
	out, err := p.runCommand(ctx, "axw")
	if err != nil {
		return false, err
	}

	for _, command := range commands(out) {
		if p.Pattern.MatchString(command) {
			return true, nil
		}
	}

	return false, nil
}

// commands returns the COMMAND column of `ps axw` output.
func commands(out string) []string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 {
		return nil
	}

	ret := make([]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		ret = append(ret, strings.Join(fields[4:], " "))
	}

	return ret
}
