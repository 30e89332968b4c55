// Package audio supervises the external recording subprocess for the
// session lifetime.
package audio

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"sync"
	"time"
)

// stopGrace is how long the recorder gets to finalize its file after the
// polite interrupt before it is killed.
const stopGrace = 10 * time.Second

// Supervisor owns exactly one long-lived recording process per session.
// It is the sole owner of the handle and the only component permitted to
// signal it. Audio is a best-effort stream: a recorder that dies on its
// own is logged and the session continues without audio.
type Supervisor struct {
	outputPath string
	command    func(outputPath string) *exec.Cmd // swapped in tests

	mu       sync.Mutex
	cmd      *exec.Cmd
	done     chan struct{}
	exitErr  error
	stopping bool
	stopOnce sync.Once
}

func NewSupervisor(outputPath string) *Supervisor {
	return &Supervisor{outputPath: outputPath, command: ffmpegCommand}
}

// CheckFFmpeg reports whether the ffmpeg binary is available on PATH.
func CheckFFmpeg() error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found on PATH")
	}
	return nil
}

// ffmpegCommand builds the recording invocation. The input endpoint
// differs per host OS; the output contract does not: compressed mono
// 16 kHz written to the session-scoped path.
func ffmpegCommand(outputPath string) *exec.Cmd {
	var args []string
	switch runtime.GOOS {
	case "darwin":
		args = []string{"-f", "avfoundation", "-i", ":default"}
	case "windows":
		args = []string{"-f", "dshow", "-i", "audio=virtual-audio-capturer"}
	default:
		args = []string{"-f", "pulse", "-i", "default"}
	}
	args = append(args,
		"-ac", "1",
		"-ar", "16000",
		"-codec:a", "libmp3lame",
		"-y",
		outputPath,
	)
	return exec.Command("ffmpeg", args...)
}

// Start launches the recorder and begins supervising it.
func (s *Supervisor) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd != nil {
		return fmt.Errorf("recorder already started")
	}

	cmd := s.command(s.outputPath)

	// ffmpeg chatters on stderr; keep it in a sidecar log for diagnostics.
	var logFile *os.File
	if f, err := os.Create(s.outputPath + ".ffmpeg.log"); err == nil {
		cmd.Stderr = f
		logFile = f
	}

	if err := cmd.Start(); err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return fmt.Errorf("start recorder: %w", err)
	}

	s.cmd = cmd
	s.done = make(chan struct{})
	go s.supervise(cmd, logFile, s.done)

	slog.Info("audio recorder started", "pid", cmd.Process.Pid, "output", s.outputPath)
	return nil
}

func (s *Supervisor) supervise(cmd *exec.Cmd, logFile *os.File, done chan struct{}) {
	err := cmd.Wait()
	if logFile != nil {
		logFile.Close()
	}

	s.mu.Lock()
	s.exitErr = err
	stopping := s.stopping
	s.mu.Unlock()

	if err != nil && !stopping {
		slog.Warn("audio recorder exited early, continuing without audio", "error", err)
	}
	close(done)
}

// Stop terminates the recorder: first the polite interrupt so the encoder
// can finalize the file, then kill if it lingers. Safe to call more than
// once; exactly one termination signal is ever sent.
func (s *Supervisor) Stop() {
	s.stopOnce.Do(s.stop)
}

func (s *Supervisor) stop() {
	s.mu.Lock()
	cmd := s.cmd
	done := s.done
	s.stopping = true
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return
	}

	select {
	case <-done:
		// Already exited on its own; nothing to signal.
		return
	default:
	}

	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		slog.Debug("interrupt recorder", "error", err)
	}

	select {
	case <-done:
	case <-time.After(stopGrace):
		slog.Warn("recorder ignored interrupt, killing", "pid", cmd.Process.Pid)
		_ = cmd.Process.Kill()
		<-done
	}

	slog.Info("audio capture finalized", "output", s.outputPath)
}

// Running reports whether the recorder process is currently alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	done := s.done
	started := s.cmd != nil
	s.mu.Unlock()

	if !started {
		return false
	}
	select {
	case <-done:
		return false
	default:
		return true
	}
}

// Captured reports whether the recorder produced an audio file.
func (s *Supervisor) Captured() bool {
	info, err := os.Stat(s.outputPath)
	return err == nil && info.Size() > 0
}
