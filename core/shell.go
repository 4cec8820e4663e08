package core

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/user"
	"strings"

	"github.com/abiosoft/readline"
	"github.com/josephlewis42/shellcraft/core/config"
	"github.com/josephlewis42/shellcraft/core/shell"
)

// DefaultPrompt is used when the configured prompt is empty.
const DefaultPrompt = `shellcraft:\w> `

// Shell is the interactive read loop.
type Shell struct {
	Readline *readline.Instance
	Session  *Session

	config  *config.Configuration
	history *lineHistory
	toClose listCloser
}

// NewShell creates an interactive shell reading from stdin. The session is
// closed along with the shell.
func NewShell(cfg *config.Configuration, session *Session) (*Shell, error) {
	history, err := loadHistory(cfg)
	if err != nil {
		return nil, err
	}

	rlConfig := &readline.Config{
		Stdin:        readline.NewCancelableStdin(os.Stdin),
		Stdout:       session.Stdout,
		Stderr:       session.Stderr,
		HistoryFile:  cfg.HistoryPath(),
		HistoryLimit: cfg.HistoryLimit,
		AutoComplete: session.Completer(),
	}

	if err := rlConfig.Init(); err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(rlConfig)
	if err != nil {
		return nil, err
	}

	s := &Shell{
		Readline: rl,
		Session:  session,
		config:   cfg,
		history:  history,
	}
	history.onClear = rl.ResetHistory
	session.Executor.Orchestrator.History = history
	s.toClose = append(s.toClose, rl, session)

	return s, nil
}

// Prompt renders the configured prompt.
func (s *Shell) Prompt() string {
	prompt := s.config.Prompt
	if prompt == "" {
		prompt = DefaultPrompt
	}
	return renderPrompt(prompt)
}

func renderPrompt(prompt string) string {
	username := os.Getenv("USER")
	if u, err := user.Current(); err == nil {
		username = u.Username
	}
	prompt = strings.ReplaceAll(prompt, `\u`, username)

	host, _ := os.Hostname()
	prompt = strings.ReplaceAll(prompt, `\h`, host)

	pwd, _ := os.Getwd()
	if home, err := os.UserHomeDir(); err == nil && home != "" && strings.HasPrefix(pwd, home) {
		pwd = "~" + strings.TrimPrefix(pwd, home)
	}
	prompt = strings.ReplaceAll(prompt, `\w`, pwd)

	if os.Geteuid() == 0 {
		prompt = strings.ReplaceAll(prompt, `\$`, "#")
	} else {
		prompt = strings.ReplaceAll(prompt, `\$`, "$")
	}

	return prompt
}

// Run reads and executes lines until the input ends or exit is run.
func (s *Shell) Run() {
	for {
		s.Readline.SetPrompt(s.Prompt())
		line, err := s.Readline.Readline()

		switch {
		case err == io.EOF:
			fmt.Fprintln(s.Readline, "\nExiting ShellCraft.")
			return // Input closed, quit.

		case err == readline.ErrInterrupt:
			continue // Drop the line and prompt again.

		case err != nil:
			log.Printf("Error readline: %v", err)
			return

		case strings.TrimSpace(line) == "":
			continue // empty line

		default:
			s.history.Add(line)
			if s.Session.Execute(line).Status == shell.Terminate {
				return
			}
		}
	}
}

func (s *Shell) Close() error {
	return s.toClose.Close()
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
