//go:build unix

package terminal

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// backgroundQueryTimeout bounds the wait for an OSC 11 reply
const backgroundQueryTimeout = 500 * time.Millisecond

// DetectBackground queries the controlling terminal for its background color
// Must run before Init; it toggles raw mode on /dev/tty itself
func DetectBackground() (RGB, error) {
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		return RGBBlack, fmt.Errorf("open /dev/tty: %w", err)
	}
	defer tty.Close()
	return queryBackground(tty, backgroundQueryTimeout)
}

func queryBackground(tty *os.File, timeout time.Duration) (RGB, error) {
	fd := int(tty.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return RGBBlack, fmt.Errorf("make raw: %w", err)
	}
	defer term.Restore(fd, oldState)

	if _, err := tty.Write(oscQueryBackground); err != nil {
		return RGBBlack, fmt.Errorf("write query: %w", err)
	}

	deadline := time.Now().Add(timeout)
	resp := make([]byte, 0, 64)
	buf := make([]byte, 64)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return RGBBlack, fmt.Errorf("read reply: timeout after %v", timeout)
		}
		fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		n, err := unix.Poll(fds, int(remaining.Milliseconds())+1)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return RGBBlack, fmt.Errorf("poll reply: %w", err)
		}
		if n == 0 {
			continue
		}
		rn, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EINTR || err == unix.EAGAIN {
				continue
			}
			return RGBBlack, fmt.Errorf("read reply: %w", err)
		}
		if rn == 0 {
			return RGBBlack, fmt.Errorf("read reply: %w", ErrNoColorReply)
		}
		resp = append(resp, buf[:rn]...)
		// Reply terminates with BEL or ST (ESC \)
		if last := resp[len(resp)-1]; last == '\a' || (last == '\\' && len(resp) > 1 && resp[len(resp)-2] == 0x1b) {
			return ParseOSCColor(resp)
		}
		if len(resp) > 256 {
			return ParseOSCColor(resp)
		}
	}
}

// resetTerminalMode attempts to restore terminal to cooked mode
// Best-effort for crash recovery; errors ignored
func resetTerminalMode() {
	if tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0); err == nil {
		defer tty.Close()
		fd := int(tty.Fd())
		if termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios); err == nil {
			termios.Lflag |= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN
			termios.Iflag |= unix.ICRNL
			unix.IoctlSetTermios(fd, ioctlSetTermios, termios)
		}
	}
}
