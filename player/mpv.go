package player

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/reel-cli/reel/constant"
	"github.com/reel-cli/reel/log"
	"github.com/reel-cli/reel/where"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
)

// MPV drives an mpv process over its JSON IPC socket.
type MPV struct {
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	mu         sync.Mutex
}

func NewMPV() *MPV {
	exited := make(chan struct{})
	close(exited)
	return &MPV{exited: exited}
}

// Args builds the mpv command line for media. It respects the user's mpv.conf
// and only passes what the stream requires.
func Args(media Media, socket string) ([]string, error) {
	target, err := sanitizeMediaTarget(media.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid media target: %w", err)
	}

	title := sanitizeTitle(media.Title)
	args := []string{
		"--no-terminal",
		"--really-quiet",
		"--force-window=yes",
		fmt.Sprintf("--force-media-title=%s", title),
		fmt.Sprintf("--title=%s", title),
	}

	if socket != "" {
		args = append(args, fmt.Sprintf("--input-ipc-server=%s", socket))
	}

	if fields := headerFields(media.Headers); fields != "" {
		args = append(args, fmt.Sprintf("--http-header-fields=%s", fields))
	}

	for _, caption := range media.Captions {
		args = append(args, fmt.Sprintf("--sub-file=%s", caption.URL))
	}

	if index, ok := media.captionIndex(); ok {
		args = append(args, fmt.Sprintf("--sid=%d", index))
	} else {
		args = append(args, "--sid=no")
	}

	if bitrate := media.Quality.Bitrate(); bitrate > 0 {
		args = append(args, fmt.Sprintf("--hls-bitrate=%d", bitrate))
	}

	return append(args, target), nil
}

// headerFields renders headers as mpv's comma separated list, sorted by name.
func headerFields(headers map[string]string) string {
	if len(headers) == 0 {
		return ""
	}

	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]string, 0, len(names))
	for _, name := range names {
		fields = append(fields, fmt.Sprintf("%s: %s", name, strings.ReplaceAll(headers[name], ",", "%2C")))
	}
	return strings.Join(fields, ",")
}

// Play starts mpv for media, replacing a running instance.
func (m *MPV) Play(media Media) error {
	if m.IsRunning() {
		_ = m.Close()
	}

	m.socketPath = filepath.Join(where.Temp(), fmt.Sprintf("%s-%s.sock", constant.Reel, uuid.NewString()[:8]))

	args, err := Args(media, m.socketPath)
	if err != nil {
		return err
	}

	m.cmd = exec.Command("mpv", args...)
	m.cmd.SysProcAttr = sysProcAttr()

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.exited = exited
	cmd := m.cmd
	go func() {
		_ = cmd.Wait()
		close(exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-exited:
		default:
			log.Warn("killing mpv: socket never became ready")
			_ = killProcess(cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	log.Infof("mpv started for %s", media.Title)
	return nil
}

// Select applies the caption and quality of media to the running instance.
// Auto quality lifts any earlier bitrate cap.
func (m *MPV) Select(media Media) error {
	if !m.IsRunning() {
		return nil
	}

	var sid any = "no"
	if index, ok := media.captionIndex(); ok {
		sid = index
	}

	if _, err := m.sendCommand("set_property", "sid", sid); err != nil {
		return err
	}

	limit := "max"
	if bitrate := media.Quality.Bitrate(); bitrate > 0 {
		limit = strconv.Itoa(bitrate)
	}

	_, err := m.sendCommand("set_property", "hls-bitrate", limit)
	return err
}

// Wait returns a channel that is closed when the mpv process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// IsRunning reports whether mpv is alive and answering IPC.
func (m *MPV) IsRunning() bool {
	if m.socketPath == "" {
		return false
	}

	select {
	case <-m.exited:
		return false
	default:
	}

	_, err := m.sendCommand("get_property", "pid")
	return err == nil
}

// Close asks mpv to quit and kills it if it doesn't.
func (m *MPV) Close() error {
	if m.socketPath == "" {
		return nil
	}

	_, _ = m.sendCommand("quit")

	select {
	case <-m.exited:
	case <-time.After(3 * time.Second):
		_ = killProcess(m.cmd)
	}

	_ = os.Remove(m.socketPath)
	m.socketPath = ""
	return nil
}

// sanitizeMediaTarget rejects anything that isn't an http(s) URL or could be parsed as a flag.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-'")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return l, nil
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
