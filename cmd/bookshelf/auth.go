package main

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd)
}

// readPassword reads a password with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

var loginCmd = &cobra.Command{
	Use:   "login <username-or-email>",
	Short: "Log in and store the session token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		_, api, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		resp, err := api.Login(cmd.Context(), args[0], password)
		if err != nil {
			return err
		}
		if err := saveToken(resp.Token); err != nil {
			return err
		}
		fmt.Printf("Logged in as %s\n", resp.User.Username)
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register <username> <email>",
	Short: "Create an account and log in",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
		_, api, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		resp, err := api.Register(cmd.Context(), args[0], args[1], password)
		if err != nil {
			return err
		}
		if err := saveToken(resp.Token); err != nil {
			return err
		}
		fmt.Printf("Welcome, %s\n", resp.User.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := clearToken(); err != nil {
			return err
		}
		fmt.Println("Logged out. Your locally saved book markers are kept.")
		return nil
	},
}
