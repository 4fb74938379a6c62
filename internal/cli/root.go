package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

func (a *App) status() string {
	if a.sess.Username == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.sess.Username)
}

// Root runs the interactive command loop until exit or EOF.
func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to docshare (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Printf("docshare %s> ", a.status())
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: login, list, put <file>, get <id> [out], open <locator> [out], share <id>, rm <id>, exit")
		case "login":
			a.login(ctx)
		case "list", "ls":
			a.list(ctx)
		case "put":
			a.put(ctx, args)
		case "get":
			a.get(ctx, args)
		case "open":
			a.open(ctx, args)
		case "share":
			a.shareCmd(args)
		case "rm":
			a.rm(ctx, args)
		case "exit", "quit":
			fmt.Println("Bye!")
			return
		default:
			fmt.Printf("Unknown command %q (type 'help')\n", cmd)
		}
	}
}
