package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Users(ctx context.Context, args []string) error
	Projects(ctx context.Context, args []string) error
	Goto(ctx context.Context, path string) error
}

// lineSource is the part of bufio.Scanner the REPL uses.
type lineSource interface {
	Scan() bool
	Text() string
}

// readerLines reads one line per Scan straight from r, leaving the rest of
// the input buffered in r for the prompts of the command being run.
type readerLines struct {
	r    *bufio.Reader
	line string
}

func (l *readerLines) Scan() bool {
	line, err := l.r.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	l.line = strings.TrimRight(line, "\r\n")
	return true
}

func (l *readerLines) Text() string { return l.line }

const (
	helpAnonymous = "Available commands: register, login, goto <path>, exit"
	helpLoggedIn  = "Available commands: dashboard, users [list|search|show|add|edit|delete], " +
		"projects [list|search|show|add|edit|delete], profile, goto <path>, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a until the
// scanner is exhausted, ctx is done, or the operator types exit/quit.
//
// Handlers report their own failures, so returned errors are dropped here.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner lineSource) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("pmc %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile", "whoami":
			_ = a.Profile(ctx)

		case "dashboard", "home":
			_ = a.Dashboard(ctx)

		case "u", "users":
			_ = a.Users(ctx, args)

		case "p", "projects":
			_ = a.Projects(ctx, args)

		case "goto", "cd":
			if len(args) == 0 {
				printlnFn("Usage: goto <path>")
				continue
			}
			_ = a.Goto(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
