//go:build linux

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var promptHistory []string

// readInteractiveLine reads one line from stdin with in-line editing:
// cursor movement, word motion, kill-word, and history recall. Piped input
// takes the plain buffered path.
func readInteractiveLine(prompt string) (string, error) {
	if !stdinIsTTY() {
		return readPlainLine()
	}

	fd := int(os.Stdin.Fd())
	saved, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return "", err
	}
	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(fd, unix.TCSETS, &raw); err != nil {
		return "", err
	}
	defer func() {
		_ = unix.IoctlSetTermios(fd, unix.TCSETS, saved)
	}()

	ed := &lineEditor{prompt: prompt, histPos: len(promptHistory)}
	fmt.Print(prompt)
	return ed.loop()
}

type lineEditor struct {
	prompt string
	line   []byte
	cursor int

	histPos  int
	browsing bool
	draft    string
}

func (ed *lineEditor) loop() (string, error) {
	var buf [16]byte
	esc := 0
	var seq strings.Builder

	for {
		n, err := os.Stdin.Read(buf[:])
		if err != nil {
			return "", err
		}
		for _, b := range buf[:n] {
			if esc == 1 {
				if b == '[' {
					esc = 2
					seq.Reset()
				} else {
					esc = 0
				}
				continue
			}
			if esc == 2 {
				seq.WriteByte(b)
				if (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b == '~' {
					ed.handleCSI(seq.String())
					esc = 0
				}
				continue
			}

			switch b {
			case 27: // ESC
				esc = 1
			case '\r', '\n':
				fmt.Print("\r\n")
				out := string(ed.line)
				if strings.TrimSpace(out) != "" {
					promptHistory = append(promptHistory, out)
				}
				return out, nil
			case 3: // Ctrl+C
				fmt.Print("^C\r\n")
				return "", io.EOF
			case 4: // Ctrl+D
				if len(ed.line) == 0 {
					fmt.Print("\r\n")
					return "", io.EOF
				}
			case 127, 8: // backspace
				if ed.cursor > 0 {
					ed.line = append(ed.line[:ed.cursor-1], ed.line[ed.cursor:]...)
					ed.cursor--
					ed.redraw()
				}
			case 1: // Ctrl+A
				ed.cursor = 0
				ed.redraw()
			case 5: // Ctrl+E
				ed.cursor = len(ed.line)
				ed.redraw()
			case 23: // Ctrl+W
				ed.killWordBack()
			default:
				if b >= 32 {
					ed.insert(b)
				}
			}
		}
	}
}

func (ed *lineEditor) handleCSI(seq string) {
	switch seq {
	case "A":
		ed.historyPrev()
	case "B":
		ed.historyNext()
	case "D":
		if ed.cursor > 0 {
			ed.cursor--
			ed.redraw()
		}
	case "C":
		if ed.cursor < len(ed.line) {
			ed.cursor++
			ed.redraw()
		}
	case "H":
		ed.cursor = 0
		ed.redraw()
	case "F":
		ed.cursor = len(ed.line)
		ed.redraw()
	case "3~": // delete
		if ed.cursor < len(ed.line) {
			ed.line = append(ed.line[:ed.cursor], ed.line[ed.cursor+1:]...)
			ed.redraw()
		}
	case "1;5D", "5D": // Ctrl+Left
		ed.wordLeft()
	case "1;5C", "5C": // Ctrl+Right
		ed.wordRight()
	}
}

func (ed *lineEditor) insert(b byte) {
	if ed.cursor == len(ed.line) {
		ed.line = append(ed.line, b)
	} else {
		ed.line = append(ed.line, 0)
		copy(ed.line[ed.cursor+1:], ed.line[ed.cursor:])
		ed.line[ed.cursor] = b
	}
	ed.cursor++
	ed.redraw()
}

func (ed *lineEditor) redraw() {
	fmt.Printf("\r%s%s\x1b[K", ed.prompt, string(ed.line))
	if ed.cursor < len(ed.line) {
		fmt.Printf("\r%s%s", ed.prompt, string(ed.line[:ed.cursor]))
	}
}

// wordStart returns the index where the word left of the cursor begins.
func (ed *lineEditor) wordStart() int {
	i := ed.cursor
	for i > 0 && isBlank(ed.line[i-1]) {
		i--
	}
	for i > 0 && !isBlank(ed.line[i-1]) {
		i--
	}
	return i
}

func (ed *lineEditor) wordLeft() {
	if ed.cursor == 0 {
		return
	}
	ed.cursor = ed.wordStart()
	ed.redraw()
}

func (ed *lineEditor) wordRight() {
	if ed.cursor >= len(ed.line) {
		return
	}
	for ed.cursor < len(ed.line) && isBlank(ed.line[ed.cursor]) {
		ed.cursor++
	}
	for ed.cursor < len(ed.line) && !isBlank(ed.line[ed.cursor]) {
		ed.cursor++
	}
	ed.redraw()
}

func (ed *lineEditor) killWordBack() {
	if ed.cursor == 0 {
		return
	}
	start := ed.wordStart()
	ed.line = append(ed.line[:start], ed.line[ed.cursor:]...)
	ed.cursor = start
	ed.redraw()
}

func (ed *lineEditor) historyPrev() {
	if len(promptHistory) == 0 {
		return
	}
	if !ed.browsing {
		ed.draft = string(ed.line)
		ed.browsing = true
		ed.histPos = len(promptHistory)
	}
	if ed.histPos > 0 {
		ed.histPos--
		ed.setLine(promptHistory[ed.histPos])
	}
}

func (ed *lineEditor) historyNext() {
	if !ed.browsing {
		return
	}
	if ed.histPos < len(promptHistory)-1 {
		ed.histPos++
		ed.setLine(promptHistory[ed.histPos])
	} else {
		ed.histPos = len(promptHistory)
		ed.browsing = false
		ed.setLine(ed.draft)
	}
}

func (ed *lineEditor) setLine(s string) {
	ed.line = append(ed.line[:0], s...)
	ed.cursor = len(ed.line)
	ed.redraw()
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}
