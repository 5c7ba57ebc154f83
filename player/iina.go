package player

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/samber/lo"
)

// IINA launches the macOS IINA player. It has no IPC, so caption changes
// only apply to the next Play.
type IINA struct {
	cmd    *exec.Cmd
	exited chan struct{}
}

func NewIINA() *IINA {
	exited := make(chan struct{})
	close(exited)
	return &IINA{exited: exited}
}

// iinaArgs forwards the mpv options through IINA's --mpv- prefix.
func iinaArgs(media Media) ([]string, error) {
	args, err := Args(media, "")
	if err != nil {
		return nil, err
	}

	target := args[len(args)-1]
	options := lo.Map(args[:len(args)-1], func(arg string, _ int) string {
		return "--mpv-" + strings.TrimPrefix(arg, "--")
	})

	return append([]string{"-a", "IINA", "--args"}, append(options, target)...), nil
}

func (i *IINA) Play(media Media) error {
	if runtime.GOOS != "darwin" {
		return fmt.Errorf("IINA is only supported on macOS")
	}

	args, err := iinaArgs(media)
	if err != nil {
		return err
	}

	i.cmd = exec.Command("open", args...)
	if err := i.cmd.Start(); err != nil {
		return fmt.Errorf("launch IINA: %w", err)
	}

	exited := make(chan struct{})
	i.exited = exited
	cmd := i.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	return nil
}

func (i *IINA) Select(Media) error {
	return nil
}

func (i *IINA) Wait() <-chan struct{} {
	return i.exited
}

func (i *IINA) IsRunning() bool {
	select {
	case <-i.exited:
		return false
	default:
		return true
	}
}

func (i *IINA) Close() error {
	if i.cmd != nil && i.cmd.Process != nil && i.IsRunning() {
		return i.cmd.Process.Kill()
	}
	return nil
}
