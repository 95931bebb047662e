package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/hutchfm/hutch"
	"github.com/hutchfm/hutch/config"
	"github.com/hutchfm/hutch/database"
	"github.com/hutchfm/hutch/filesystem"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add [username]",
	Short: "Register a new user account",
	Long: `Register a new user account and create their storage directory.
The username can be given as an argument; the password is always
prompted for.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUserAdd,
}

func init() {
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var name string
	if len(args) == 1 {
		name = args[0]
	} else {
		namePrompt := promptui.Prompt{
			Label: "Username",
			Validate: func(input string) error {
				if input == "" {
					return errors.New("username is required")
				}
				if !hutch.IsAllowedName(input) {
					return errors.New("allowed characters: letters, digits, _-. ()[]{}?!")
				}
				return nil
			},
		}
		name, err = namePrompt.Run()
		if err != nil {
			return handlePromptError(err)
		}
	}

	passwordPrompt := promptui.Prompt{
		Label: "Password",
		Mask:  '*',
		Validate: func(input string) error {
			if input == "" {
				return errors.New("password is required")
			}
			return nil
		},
	}
	password, err := passwordPrompt.Run()
	if err != nil {
		return handlePromptError(err)
	}

	repo, closeDB, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer closeDB()

	storagePath, err := filepath.Abs(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("resolve storage path: %w", err)
	}
	if err = os.MkdirAll(storagePath, 0o750); err != nil {
		return fmt.Errorf("create storage directory: %w", err)
	}

	root, err := os.OpenRoot(storagePath)
	if err != nil {
		return fmt.Errorf("open storage root: %w", err)
	}
	defer func() { _ = root.Close() }()

	store := filesystem.NewStore(root, storagePath)
	svc := hutch.NewService(repo, store, hutch.NewMemorySessionStore())

	if err := svc.Register(ctx, name, password); err != nil {
		if errors.Is(err, hutch.ErrNameTaken) {
			return fmt.Errorf("username %q is already taken", name)
		}
		return fmt.Errorf("register user: %w", err)
	}

	fmt.Printf("User %q registered.\n", name)
	return nil
}

func handlePromptError(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) {
		fmt.Println("Cancelled.")
		return nil
	}
	return err
}
