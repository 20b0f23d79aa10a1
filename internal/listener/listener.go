package listener

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
)

var rl *readline.Instance
var mu sync.Mutex

func Init(historyFile string) error {
	var err error
	rl, err = readline.NewEx(&readline.Config{
		Prompt:          "netra> ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	return err
}

func Close() {
	if rl != nil {
		_ = rl.Close()
	}
}

// GetInput returns the next line; io.EOF on Ctrl+D or Ctrl+C.
func GetInput() (string, error) {
	line, err := rl.Readline()
	if err == readline.ErrInterrupt {
		return "", io.EOF
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// AsyncPrintln prints above the prompt without breaking current input.
func AsyncPrintln(s string) {
	mu.Lock()
	defer mu.Unlock()
	if rl == nil {
		fmt.Println(s)
		return
	}
	_, _ = rl.Write([]byte("\r\n" + s + "\r\n"))
	rl.Refresh()
}
