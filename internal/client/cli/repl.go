package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Update(ctx context.Context, args []string) error
	Done(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
}

const (
	publicHelp    = "Available commands: register, login, help, exit"
	protectedHelp = "Available commands: (l)ist [status=..] [priority=..] [category=..] [q=..], add, show <id|#>, " +
		"update <id|#>, done <id|#>, delete <id|#>, stats, profile, logout, help, exit"
)

// runREPL starts a simple read-eval-print loop for the TaskKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments. The
// loop exits on EOF, when ctx is done, or when the user types "exit" or
// "quit".
//
// Errors returned by command handlers are ignored here; handlers print their
// own failures.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("tk (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				printlnFn("input error:", err)
			}
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(protectedHelp)
			} else {
				printlnFn(publicHelp)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "l", "list":
			_ = a.List(ctx, args)

		case "add":
			_ = a.Add(ctx)

		case "show":
			_ = a.Show(ctx, args)

		case "update":
			_ = a.Update(ctx, args)

		case "done":
			_ = a.Done(ctx, args)

		case "delete", "rm":
			_ = a.Delete(ctx, args)

		case "stats":
			_ = a.Stats(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
