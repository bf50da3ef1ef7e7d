package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/jrsteele09/go-lecturer-console/internal/errors"
	"github.com/jrsteele09/go-lecturer-console/resources"
	"github.com/jrsteele09/go-lecturer-console/session"
	"github.com/jrsteele09/go-lecturer-console/token"
	"golang.org/x/term"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp          = errors.New("help provided")
	errLoginRequired = errors.New("login required")
)

type commandLine struct {
	services *resources.Services
	store    session.Store
	out      io.Writer

	// loginRequired is set by the client when the session cannot be recovered
	loginRequired *atomic.Bool
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  login -username USERNAME|EMAIL       - log in; the password is prompted next")
	fmt.Fprintln(cli.out, "  logout                               - forget the stored tokens")
	fmt.Fprintln(cli.out, "  whoami                               - show the logged-in account")
	fmt.Fprintln(cli.out, "  list RESOURCE [-search -page -page-size -ordering]")
	fmt.Fprintln(cli.out, "  get RESOURCE ID")
	fmt.Fprintln(cli.out, "  delete RESOURCE ID")
	fmt.Fprintf(cli.out, "Resources: %s\n", strings.Join(resources.Names, ", "))
}

// run executes one command. args excludes the program name.
func (cli *commandLine) run(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	err := cli.dispatch(ctx, args[0], args[1:])
	if err != nil && cli.loginRequired.Load() {
		return errLoginRequired
	}
	return err
}

func (cli *commandLine) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
		loginCmd.SetOutput(cli.out)
		username := loginCmd.String("username", "", "The username or email. The password will be prompted next.")
		if err := loginCmd.Parse(args); err != nil {
			return errHelp
		}
		if *username == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *username, string(pwd))

	case "logout":
		return cli.services.Auth.Logout()

	case "whoami":
		return cli.whoami(ctx)

	case "list":
		listCmd := flag.NewFlagSet("list", flag.ContinueOnError)
		listCmd.SetOutput(cli.out)
		search := listCmd.String("search", "", "Search text")
		page := listCmd.Int("page", 1, "One-based page number")
		pageSize := listCmd.Int("page-size", resources.DefaultPageSize, "Rows per page")
		ordering := listCmd.String("ordering", "", "Comma-separated columns, \"-\" for descending")
		if len(args) < 1 {
			cli.printUsage()
			return errHelp
		}
		if err := listCmd.Parse(args[1:]); err != nil {
			return errHelp
		}
		params := resources.ListParams{
			PageIndex: *page - 1,
			PageSize:  *pageSize,
			Search:    *search,
			Sorting:   resources.ParseOrdering(*ordering),
		}
		return cli.list(ctx, args[0], params)

	case "get", "delete":
		if len(args) != 2 {
			cli.printUsage()
			return errHelp
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("id must be a positive number (got '%s')", args[1])
		}
		if command == "get" {
			return cli.get(ctx, args[0], id)
		}
		return cli.delete(ctx, args[0], id)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) login(ctx context.Context, username, password string) error {
	tok, err := cli.services.Auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	role, _ := token.RoleOf(tok.AccessToken)
	fmt.Fprintf(cli.out, "Logged in as %s (%s)\n", username, role)
	return nil
}

func (cli *commandLine) whoami(ctx context.Context) error {
	if cli.store.GetAccessToken() == "" {
		return errLoginRequired
	}
	user, err := cli.services.Users.Me(ctx)
	if err != nil {
		return err
	}
	role, _ := token.RoleOf(cli.store.GetAccessToken())
	fmt.Fprintf(cli.out, "%s <%s> role=%s groups=%s\n", user.Username, user.Email, role, strings.Join(user.Groups, ","))
	return nil
}

func (cli *commandLine) list(ctx context.Context, name string, params resources.ListParams) error {
	accessor, err := cli.services.ByName(name)
	if err != nil {
		return err
	}
	items, count, err := accessor.ListAny(ctx, params)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	pageSize := params.PageSize
	if pageSize <= 0 {
		pageSize = resources.DefaultPageSize
	}
	pages := resources.Page[any]{Count: count}.Pages(pageSize)
	fmt.Fprintf(cli.out, "page %d of %d, %d total\n", params.PageIndex+1, pages, count)
	return nil
}

func (cli *commandLine) get(ctx context.Context, name string, id int64) error {
	accessor, err := cli.services.ByName(name)
	if err != nil {
		return err
	}
	item, err := accessor.GetAny(ctx, id)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cli.out)
	enc.SetIndent("", "  ")
	return enc.Encode(item)
}

func (cli *commandLine) delete(ctx context.Context, name string, id int64) error {
	accessor, err := cli.services.ByName(name)
	if err != nil {
		return err
	}
	if err := accessor.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "deleted %s %d\n", name, id)
	return nil
}
