// Command martctl drives the shop as a customer, admin, seller or
// delivery agent from the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Skotchmaster/friendly_mart/internal/apperr"
	"github.com/Skotchmaster/friendly_mart/internal/console"
	"github.com/Skotchmaster/friendly_mart/internal/dispatch"
	"github.com/Skotchmaster/friendly_mart/internal/session"
	"github.com/Skotchmaster/friendly_mart/internal/storage"
	"github.com/Skotchmaster/friendly_mart/pkg/logging"
)

func main() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// newApp is replaced in tests.
var newApp = func(ctx context.Context, cfg console.Config) (*console.App, error) {
	return console.New(ctx, cfg, console.Options{})
}

var errUsage = errors.New("usage")

func Run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("martctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	role := global.String("role", "", "customer, admin, seller or delivery (default $MART_ROLE)")
	api := global.String("api", "", "API base URL (default $MART_API_URL)")
	store := global.String("storage", "", "memory, file or redis (default $MART_STORAGE)")
	global.Usage = func() { printUsage(stderr) }
	if err := global.Parse(args[1:]); err != nil {
		return 2
	}
	rest := global.Args()
	if len(rest) == 0 || rest[0] == "help" {
		printUsage(stdout)
		return 0
	}

	cfg, err := console.LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 2
	}
	if *role != "" {
		r, err := session.ParseRole(*role)
		if err != nil {
			fmt.Fprintln(stderr, "error:", err)
			return 2
		}
		cfg.Role = r
		if os.Getenv("MART_STORAGE_PATH") == "" {
			cfg.StoragePath = console.DefaultStoragePath(r)
		}
	}
	if *api != "" {
		cfg.APIURL = *api
	}
	if *store != "" {
		cfg.Storage = storage.Type(*store)
	}
	if cfg.Storage == storage.TypeFile && cfg.StoragePath == "" {
		cfg.StoragePath = console.DefaultStoragePath(cfg.Role)
	}

	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", rest[0])
		printUsage(stderr)
		return 2
	}
	if !cmd.allows(cfg.Role) {
		fmt.Fprintf(stderr, "%s is not available for role %s\n", rest[0], cfg.Role)
		return 2
	}

	ctx := logging.IntoContext(context.Background(), logging.NewWithWriter(stderr, cfg.LogLevel))
	app, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	defer app.Close()

	app.Notices.Subscribe(func(n dispatch.Notice) {
		mark := "ok"
		if n.Kind == dispatch.NoticeError {
			mark = "!!"
		}
		fmt.Fprintf(stdout, "[%s] %s\n", mark, n.Text)
	})
	app.Router.OnNavigate(func(route string) {
		fmt.Fprintf(stdout, "-> %s\n", route)
	})

	err = cmd.run(ctx, app, rest[1:], stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "usage: martctl %s %s\n", rest[0], cmd.usage)
		return 2
	default:
		fmt.Fprintln(stderr, "error:", apperr.UserMessage(err, err.Error()))
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: martctl [-role r] [-api url] [-storage s] <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		c := commands[name]
		roles := "any"
		if len(c.roles) > 0 {
			rs := make([]string, 0, len(c.roles))
			for _, r := range c.roles {
				rs = append(rs, string(r))
			}
			roles = strings.Join(rs, ",")
		}
		fmt.Fprintf(w, "  %-16s %-40s [%s]\n", name, c.usage, roles)
	}
}
