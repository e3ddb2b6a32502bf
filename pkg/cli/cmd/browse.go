/*
Copyright © 2026 kiteran <kiteran@proton.me>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kiteran/userd/pkg/cli/client"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var usersBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively page through users",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("must be run in an interactive terminal")
		}
		return runBrowseLoop(GetClient(), resolveLimit(cmd))
	},
}

// browser holds the page the REPL is currently looking at. Moving off
// either end is a no-op with a warning, matching how the cursors behave
// on the server.
type browser struct {
	client *client.Client
	limit  int
	page   *pagination.Page[models.UserDto]
}

func (b *browser) show() {
	renderUserTable(b.page.Items)
	printCursors(b.page.PreviousCursor, b.page.NextCursor)
}

func (b *browser) first() error {
	page, err := b.client.ListUsers(b.limit, "", "")
	if err != nil {
		return err
	}
	b.page = page
	b.show()
	return nil
}

func (b *browser) next() error {
	if b.page == nil || b.page.NextCursor == nil {
		pterm.Warning.Println("Already at the last page")
		return nil
	}
	page, err := b.client.ListUsers(b.limit, *b.page.NextCursor, "forward")
	if err != nil {
		return err
	}
	b.page = page
	b.show()
	return nil
}

func (b *browser) prev() error {
	if b.page == nil || b.page.PreviousCursor == nil {
		pterm.Warning.Println("Already at the first page")
		return nil
	}
	page, err := b.client.ListUsers(b.limit, *b.page.PreviousCursor, "backward")
	if err != nil {
		return err
	}
	b.page = page
	b.show()
	return nil
}

var browseCommands = map[string]func(*browser) error{
	":first": (*browser).first,
	":next":  (*browser).next,
	":prev":  (*browser).prev,
}

func printBrowseHelp() {
	pterm.Info.Println("Available commands:")
	pterm.Println("  • :next (or Enter) - Fetch the next page")
	pterm.Println("  • :prev - Fetch the previous page")
	pterm.Println("  • :first - Jump back to the first page")
	pterm.Println("  • :help - Show this help")
	pterm.Println("  • :quit - Leave the browser")
}

func runBrowseLoop(c *client.Client, limit int) error {
	b := &browser{client: c, limit: limit}
	if err := b.first(); err != nil {
		return err
	}

	completer := readline.NewPrefixCompleter(
		readline.PcItem(":first"),
		readline.PcItem(":next"),
		readline.PcItem(":prev"),
		readline.PcItem(":help"),
		readline.PcItem(":quit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          pterm.FgCyan.Sprint("users> "),
		HistoryFile:     "/tmp/userctl-browse-history.txt",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",

		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize readline: %w", err)
	}
	defer rl.Close()

	printBrowseHelp()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					pterm.Info.Println("Goodbye!")
					break
				}
				continue
			} else if err == io.EOF {
				pterm.Info.Println("Goodbye!")
				break
			}
			return fmt.Errorf("readline error: %w", err)
		}

		input := strings.ToLower(strings.TrimSpace(line))
		if input == "" {
			// Enter alone walks forward, like paging through less.
			input = ":next"
		}

		if input == ":quit" || input == ":exit" {
			pterm.Info.Println("Goodbye!")
			break
		}

		if input == ":help" {
			printBrowseHelp()
			continue
		}

		handler, ok := browseCommands[input]
		if !ok {
			pterm.Warning.Printf("Unknown command %q\n", input)
			printBrowseHelp()
			continue
		}

		if err := handler(b); err != nil {
			pterm.Error.Printf("Error: %v\n", err)
		}
	}

	return nil
}

func init() {
	usersBrowseCmd.Flags().Int("limit", 0, "Page size, defaults to the config value")
	usersCmd.AddCommand(usersBrowseCmd)
}
