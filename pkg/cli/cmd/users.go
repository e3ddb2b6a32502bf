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
	stdjson "encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/atotto/clipboard"
	json "github.com/bytedance/sonic"
	"github.com/kiteran/userd/pkg/models"
	"github.com/kiteran/userd/pkg/pagination"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/term"
	"gorm.io/datatypes"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage users",
}

func parseUserID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid user id %q", arg)
	}
	return id, nil
}

func resolveLimit(cmd *cobra.Command) int {
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = GetCLIConfig().DefaultLimit
	}
	return pagination.NormalizeLimit(limit)
}

func renderUserTable(users []models.UserDto) {
	if len(users) == 0 {
		pterm.Info.Println("No users found")
		return
	}

	tableData := pterm.TableData{
		{"ID", "Name", "Email", "Created At"},
	}
	for _, user := range users {
		tableData = append(tableData, []string{
			strconv.FormatInt(user.ID, 10),
			user.Name,
			user.Email,
			user.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func renderEventTable(events []models.UserEventDto) {
	if len(events) == 0 {
		pterm.Info.Println("No events found")
		return
	}

	tableData := pterm.TableData{
		{"ID", "Action", "Detail", "Created At"},
	}
	for _, event := range events {
		tableData = append(tableData, []string{
			event.ID,
			event.Action,
			formatDetail(event.Detail),
			event.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}

func formatDetail(detail bson.M) string {
	if len(detail) == 0 {
		return "-"
	}
	rendered, err := json.MarshalString(detail)
	if err != nil {
		return fmt.Sprintf("%v", detail)
	}
	if len(rendered) > 60 {
		rendered = rendered[:57] + "..."
	}
	return rendered
}

func printUserDetail(user *models.UserDto) {
	tableData := pterm.TableData{
		{"ID", strconv.FormatInt(user.ID, 10)},
		{"Name", user.Name},
		{"Email", user.Email},
		{"Created At", user.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Updated At", user.UpdatedAt.Format("2006-01-02 15:04:05")},
	}
	if len(user.Profile) > 0 {
		tableData = append(tableData, []string{"Profile", string(user.Profile)})
	}
	pterm.DefaultTable.WithData(tableData).Render()
}

func printCursors(prev, next *string) {
	if prev != nil {
		pterm.Info.Printf("Previous cursor: %s\n", *prev)
	}
	if next != nil {
		pterm.Info.Printf("Next cursor: %s\n", *next)
	} else {
		pterm.Info.Println("End of the list")
	}
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users page by page",
	RunE: func(cmd *cobra.Command, args []string) error {
		cursor, _ := cmd.Flags().GetString("cursor")
		direction, _ := cmd.Flags().GetString("direction")
		useSaved, _ := cmd.Flags().GetBool("continue")
		copyNext, _ := cmd.Flags().GetBool("copy")

		if useSaved && cursor != "" {
			return fmt.Errorf("--continue and --cursor are mutually exclusive")
		}

		if useSaved {
			state, err := loadCursorState()
			if err != nil {
				return fmt.Errorf("failed to load saved cursor: %w", err)
			}
			if state == nil || state.Cursor == "" {
				pterm.Info.Println("No saved cursor, starting from the first page")
			} else {
				cursor = state.Cursor
			}
		}

		spinner, _ := pterm.DefaultSpinner.Start("Fetching users...")
		page, err := GetClient().ListUsers(resolveLimit(cmd), cursor, direction)
		spinner.Stop()
		if err != nil {
			return err
		}

		renderUserTable(page.Items)
		printCursors(page.PreviousCursor, page.NextCursor)

		if page.NextCursor != nil {
			state := &cursorState{Cursor: *page.NextCursor, SavedAt: time.Now()}
			if err := saveCursorState(state); err != nil {
				pterm.Warning.Printf("Failed to save cursor state: %v\n", err)
			}
		} else if useSaved {
			// The trail is exhausted, the next --continue starts over.
			if err := clearCursorState(); err != nil {
				pterm.Warning.Printf("Failed to clear cursor state: %v\n", err)
			}
		}

		if copyNext {
			if page.NextCursor == nil {
				pterm.Warning.Println("No next cursor to copy")
			} else if err := clipboard.WriteAll(*page.NextCursor); err != nil {
				pterm.Warning.Printf("Failed to copy cursor to clipboard: %v\n", err)
			} else {
				pterm.Success.Println("Next cursor copied to clipboard")
			}
		}
		return nil
	},
}

var usersGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		user, err := GetClient().GetUser(id)
		if err != nil {
			return err
		}

		printUserDetail(user)
		return nil
	},
}

var usersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		profile, _ := cmd.Flags().GetString("profile")

		interactive := term.IsTerminal(int(os.Stdin.Fd()))

		if name == "" {
			if !interactive {
				return fmt.Errorf("--name is required when not running in a terminal")
			}
			input, err := pterm.DefaultInteractiveTextInput.Show("Enter the user name")
			if err != nil {
				return fmt.Errorf("failed to read the user name: %w", err)
			}
			name = input
		}

		if email == "" {
			if !interactive {
				return fmt.Errorf("--email is required when not running in a terminal")
			}
			input, err := pterm.DefaultInteractiveTextInput.Show("Enter the user email")
			if err != nil {
				return fmt.Errorf("failed to read the user email: %w", err)
			}
			email = input
		}

		dto := &models.CreateUserDto{
			Name:  name,
			Email: email,
		}
		if profile != "" {
			if !stdjson.Valid([]byte(profile)) {
				return fmt.Errorf("--profile must be a valid JSON document")
			}
			dto.Profile = datatypes.JSON(profile)
		}

		user, err := GetClient().CreateUser(dto)
		if err != nil {
			return err
		}

		pterm.Success.Printf("Created user %d\n", user.ID)
		printUserDetail(user)
		return nil
	},
}

var usersUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a user's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		dto := &models.UpdateUserDto{}
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			dto.Name = &name
		}
		if cmd.Flags().Changed("email") {
			email, _ := cmd.Flags().GetString("email")
			dto.Email = &email
		}
		if cmd.Flags().Changed("profile") {
			profile, _ := cmd.Flags().GetString("profile")
			if !stdjson.Valid([]byte(profile)) {
				return fmt.Errorf("--profile must be a valid JSON document")
			}
			p := datatypes.JSON(profile)
			dto.Profile = &p
		}

		if dto.Name == nil && dto.Email == nil && dto.Profile == nil {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("nothing to update, pass --name, --email or --profile")
			}

			current, err := GetClient().GetUser(id)
			if err != nil {
				return err
			}

			name, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(current.Name).Show("Name")
			if err != nil {
				return fmt.Errorf("failed to read the user name: %w", err)
			}
			email, err := pterm.DefaultInteractiveTextInput.WithDefaultValue(current.Email).Show("Email")
			if err != nil {
				return fmt.Errorf("failed to read the user email: %w", err)
			}

			if name != current.Name {
				dto.Name = &name
			}
			if email != current.Email {
				dto.Email = &email
			}
			if dto.Name == nil && dto.Email == nil {
				pterm.Info.Println("Nothing changed")
				return nil
			}
		}

		user, err := GetClient().UpdateUser(id, dto)
		if err != nil {
			return err
		}

		pterm.Success.Printf("Updated user %d\n", user.ID)
		printUserDetail(user)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		skipConfirm, _ := cmd.Flags().GetBool("yes")
		if !skipConfirm {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return fmt.Errorf("pass --yes to delete without confirmation")
			}
			confirmed, err := pterm.DefaultInteractiveConfirm.Show(fmt.Sprintf("Delete user %d?", id))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			if !confirmed {
				pterm.Info.Println("Aborted")
				return nil
			}
		}

		if err := GetClient().DeleteUser(id); err != nil {
			return err
		}

		pterm.Success.Printf("Deleted user %d\n", id)
		return nil
	},
}

var usersEventsCmd = &cobra.Command{
	Use:   "events <id>",
	Short: "Show a user's audit trail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseUserID(args[0])
		if err != nil {
			return err
		}

		cursor, _ := cmd.Flags().GetString("cursor")
		direction, _ := cmd.Flags().GetString("direction")

		spinner, _ := pterm.DefaultSpinner.Start("Fetching events...")
		page, err := GetClient().ListUserEvents(id, resolveLimit(cmd), cursor, direction)
		spinner.Stop()
		if err != nil {
			return err
		}

		renderEventTable(page.Items)
		printCursors(page.PreviousCursor, page.NextCursor)
		return nil
	},
}

func init() {
	usersListCmd.Flags().Int("limit", 0, "Page size, defaults to the config value")
	usersListCmd.Flags().String("cursor", "", "Opaque cursor to resume from")
	usersListCmd.Flags().String("direction", "", "Paging direction, forward or backward")
	usersListCmd.Flags().Bool("continue", false, "Resume from the cursor saved by the previous list")
	usersListCmd.Flags().Bool("copy", false, "Copy the next cursor to the clipboard")

	usersCreateCmd.Flags().String("name", "", "Name of the new user")
	usersCreateCmd.Flags().String("email", "", "Email of the new user")
	usersCreateCmd.Flags().String("profile", "", "Profile JSON document")

	usersUpdateCmd.Flags().String("name", "", "New name")
	usersUpdateCmd.Flags().String("email", "", "New email")
	usersUpdateCmd.Flags().String("profile", "", "New profile JSON document")

	usersDeleteCmd.Flags().Bool("yes", false, "Skip the confirmation prompt")

	usersEventsCmd.Flags().Int("limit", 0, "Page size, defaults to the config value")
	usersEventsCmd.Flags().String("cursor", "", "Opaque cursor to resume from")
	usersEventsCmd.Flags().String("direction", "", "Paging direction, forward or backward")

	usersCmd.AddCommand(usersListCmd)
	usersCmd.AddCommand(usersGetCmd)
	usersCmd.AddCommand(usersCreateCmd)
	usersCmd.AddCommand(usersUpdateCmd)
	usersCmd.AddCommand(usersDeleteCmd)
	usersCmd.AddCommand(usersEventsCmd)
	rootCmd.AddCommand(usersCmd)
}
