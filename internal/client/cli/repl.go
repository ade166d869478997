package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	SSO(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	Resend(ctx context.Context) error
	Whoami(ctx context.Context) error
	Logout(ctx context.Context) error
	Demo(ctx context.Context) error
	Theme(ctx context.Context, args []string) error
	Show(ctx context.Context, name string) error
	Search(ctx context.Context, args []string) error
	Filter(ctx context.Context, args []string) error
	Sort(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	PageSize(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: login [identifier], sso, verify <code>, resend, demo, whoami, help, exit"
	helpSignedIn  = "Available commands: members, churches, search <text>, filter <column> <value|all>, " +
		"filter clear, sort <column> [asc|desc|none], page <n>, next, prev, pagesize <n>, " +
		"theme <name>, whoami, logout, help, exit"
)

// runREPL reads commands from reader until EOF, "exit" or "quit", or until
// ctx is cancelled between commands. Handler errors are printed and the loop
// carries on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		prompt := "flock> "
		if s := statusFn(); s != "" {
			prompt = fmt.Sprintf("flock (%s)> ", s)
		}
		fmt.Fprint(w, prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, helpSignedIn)
			} else {
				fmt.Fprintln(w, helpAnonymous)
			}
		case "login":
			cmdErr = a.Login(ctx, args)
		case "sso":
			cmdErr = a.SSO(ctx)
		case "verify":
			cmdErr = a.Verify(ctx, args)
		case "resend":
			cmdErr = a.Resend(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "demo":
			cmdErr = a.Demo(ctx)
		case "theme":
			cmdErr = a.Theme(ctx, args)
		case "members", "churches":
			cmdErr = a.Show(ctx, cmd)
		case "search":
			cmdErr = a.Search(ctx, args)
		case "filter":
			cmdErr = a.Filter(ctx, args)
		case "sort":
			cmdErr = a.Sort(ctx, args)
		case "page":
			cmdErr = a.Page(ctx, args)
		case "n", "next":
			cmdErr = a.Next(ctx)
		case "p", "prev":
			cmdErr = a.Prev(ctx)
		case "pagesize":
			cmdErr = a.PageSize(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(w, "Error:", cmdErr)
		}
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
