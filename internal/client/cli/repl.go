package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Write(ctx context.Context) error
	Submit(ctx context.Context) error
	Show(ctx context.Context, args []string) error
	Month(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Sync(ctx context.Context) error
	Backup(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads a line per iteration, parses the first token as the command,
// and dispatches to a. Unknown commands are reported back. The loop exits on
// scanner EOF or when the user types "exit" or "quit".
//
// Errors returned by handlers are printed here; the loop itself never stops
// on a failed command.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("gn %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: write, submit, show [day], month [yyyy-mm], delete [day], sync, backup, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "write":
			err = a.Write(ctx)
		case "submit":
			err = a.Submit(ctx)
		case "show":
			err = a.Show(ctx, args)
		case "month":
			err = a.Month(ctx, args)
		case "delete":
			err = a.Delete(ctx, args)
		case "sync":
			err = a.Sync(ctx)
		case "backup":
			err = a.Backup(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "exit", "quit":
			printlnFn("Good night!")
			return
		default:
			printlnFn("Unknown command: " + cmd + " (type 'help')")
		}

		if err != nil {
			printlnFn("Error: " + err.Error())
		}
	}
}
