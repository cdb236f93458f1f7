package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	status() string
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Passwd(ctx context.Context) error
	Reset(ctx context.Context, args []string) error
	AddUser(ctx context.Context, args []string) error
	Whoami(ctx context.Context) error
	Forget(ctx context.Context) error
}

func (a *App) status() string {
	sess := a.session.Session()
	if sess.User == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", sess.User.Name)
}

// Root starts the interactive loop on stdin. It prompts for a login first,
// unless a persisted session was restored.
func (a *App) Root(ctx context.Context) {
	printlnFn("FrotaControl (digite 'help' para ver os comandos)")

	scanner := bufio.NewScanner(os.Stdin)

	if !a.isLoggedIn() {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, scanner)
}

// runREPL reads a line from the provided scanner, parses the first token as
// the command, and dispatches to methods on 'a'. Unknown commands are
// reported back to the user. The loop exits on scanner EOF or when the user
// types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("frota %s> ", a.status()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Comandos: whoami, passwd, reset <admin|driver> <id>, adduser <admin|driver>, logout, forget, exit")
			} else {
				printlnFn("Comandos: login, forget, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "passwd":
			_ = a.Passwd(ctx)

		case "reset":
			_ = a.Reset(ctx, args)

		case "adduser":
			_ = a.AddUser(ctx, args)

		case "whoami":
			_ = a.Whoami(ctx)

		case "forget":
			_ = a.Forget(ctx)

		case "exit", "quit":
			printlnFn("Até logo!")
			return

		default:
			printlnFn("Comando desconhecido:", cmd)
		}
	}
}
