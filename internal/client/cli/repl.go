package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/visionaq/internal/client/router"
)

// printlnFn and printFn are test seams for user-facing output. In tests, replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	status() string
	Goto(ctx context.Context, path string) error
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Analyze(ctx context.Context, path string) error
	History(ctx context.Context) error
	Health(ctx context.Context) error
	Whoami(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the VisionAQ CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (a.status()) and accepts:
//
//	help                 show available commands
//	goto <path>          open a view (/, /auth, /how-it-works, /dashboard, ...)
//	login | signup       authenticate
//	logout               end the session
//	analyze <image>      estimate the AQI of a sky photo
//	dashboard | results  shortcuts for goto
//	history              list past results
//	health               check the service and show the health guide
//	whoami               show the signed-in user
//	exit | quit          leave the program
//
// Errors returned by handlers are not printed here; handlers and the
// notification printer report them.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printFn(fmt.Sprintf("vaq %s> ", a.status()))

		line, ok := readLine(reader)
		if !ok {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: dashboard, analyze <image>, results, history, health, whoami, goto <path>, logout, exit")
			} else {
				printlnFn("Available commands: login, signup, goto <path>, whoami, exit")
			}

		case "goto":
			if len(args) == 0 {
				printlnFn("Usage: goto <path>")
				continue
			}
			_ = a.Goto(ctx, args[0])

		case "dashboard":
			_ = a.Goto(ctx, router.PathDashboard)

		case "results":
			_ = a.Goto(ctx, router.PathResults)

		case "login":
			_ = a.Login(ctx)

		case "signup", "register":
			_ = a.Signup(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "analyze":
			if len(args) == 0 {
				printlnFn("Usage: analyze <image>")
				continue
			}
			_ = a.Analyze(ctx, strings.Join(args, " "))

		case "history":
			_ = a.History(ctx)

		case "health":
			_ = a.Health(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
