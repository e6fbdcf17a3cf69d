package host

import (
	"errors"
	"io"
	"os"
	"sync"
	"unicode/utf8"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNotTerminal is returned when stdin cannot be put into raw mode
var ErrNotTerminal = errors.New("stdin is not a terminal")

// KeyType classifies a decoded key press
type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyInterrupt
	KeySequence
)

// KeyEvent is one decoded key press. For KeySequence, Key is the final byte
// of the escape sequence.
type KeyEvent struct {
	Key  rune
	Type KeyType
}

const (
	keyCtrlC = 3
	keyEsc   = 27
)

// KeyboardReader decodes key presses from the terminal. Every press counts
// as activity, so arrow and function keys are reported too.
type KeyboardReader struct {
	in        io.Reader
	fd        int
	saved     *unix.Termios
	events    chan KeyEvent
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewKeyboardReader switches stdin to raw mode and starts decoding keys
func NewKeyboardReader() (*KeyboardReader, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	saved, err := makeRaw(fd)
	if err != nil {
		return nil, err
	}

	kr := newKeyboardReader(os.Stdin)
	kr.fd = fd
	kr.saved = saved
	return kr, nil
}

func newKeyboardReader(in io.Reader) *KeyboardReader {
	kr := &KeyboardReader{
		in:     in,
		events: make(chan KeyEvent, 16),
		done:   make(chan struct{}),
	}
	go kr.readLoop()
	return kr
}

// makeRaw disables line buffering and echo. ISIG stays on so Ctrl+C still
// raises SIGINT when the terminal handles it.
func makeRaw(fd int) (*unix.Termios, error) {
	saved, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}

	raw := *saved
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlWriteTermios, &raw); err != nil {
		return nil, err
	}
	return saved, nil
}

// readLoop runs until the input fails or the reader is closed, then closes Events
func (kr *KeyboardReader) readLoop() {
	defer close(kr.events)

	buf := make([]byte, 64)
	for {
		n, err := kr.in.Read(buf)
		select {
		case <-kr.done:
			return
		default:
		}
		for _, ev := range decodeKeys(buf[:n]) {
			select {
			case kr.events <- ev:
			case <-kr.done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// decodeKeys splits one read into key presses. A read can hold several keys
// when input is pasted or typed faster than it is consumed. Alt+key
// combinations are dropped.
func decodeKeys(buf []byte) []KeyEvent {
	var keys []KeyEvent
	for i := 0; i < len(buf); {
		switch b := buf[i]; {
		case b == keyCtrlC:
			keys = append(keys, KeyEvent{Key: keyCtrlC, Type: KeyInterrupt})
			i++
		case b == keyEsc:
			ev, size := decodeEscape(buf[i:])
			if ev != nil {
				keys = append(keys, *ev)
			}
			i += size
		default:
			r, size := utf8.DecodeRune(buf[i:])
			keys = append(keys, KeyEvent{Key: r, Type: KeyChar})
			i += size
		}
	}
	return keys
}

// decodeEscape decodes the sequence at the start of buf, which begins with ESC
func decodeEscape(buf []byte) (*KeyEvent, int) {
	if len(buf) == 1 {
		return &KeyEvent{Key: keyEsc, Type: KeyEscape}, 1
	}

	switch buf[1] {
	case 'O':
		// SS3: one final byte (F1-F4, keypad)
		if len(buf) < 3 {
			return nil, len(buf)
		}
		return &KeyEvent{Key: rune(buf[2]), Type: KeySequence}, 3
	case '[':
		// CSI: parameter and intermediate bytes up to a final byte in 0x40-0x7E
		for i := 2; i < len(buf); i++ {
			if buf[i] >= 0x40 && buf[i] <= 0x7e {
				return &KeyEvent{Key: rune(buf[i]), Type: KeySequence}, i + 1
			}
		}
		return nil, len(buf)
	default:
		_, size := utf8.DecodeRune(buf[1:])
		return nil, 1 + size
	}
}

// Events delivers decoded keys. It is closed when input ends.
func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.events
}

// Close stops delivery and restores the terminal state. It is idempotent.
func (kr *KeyboardReader) Close() error {
	kr.closeOnce.Do(func() {
		close(kr.done)
		if kr.saved != nil {
			kr.closeErr = unix.IoctlSetTermios(kr.fd, ioctlWriteTermios, kr.saved)
		}
	})
	return kr.closeErr
}
