package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(searchCmd, saveCmd, removeCmd, savedCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search the catalog for books",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shelf, _, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		books, err := shelf.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if len(books) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for _, b := range books {
			printBook(b, shelf.IsSaved(b.BookID))
		}
		fmt.Println("\n* already saved")
		return saveCandidates(books)
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <bookId>",
	Short: "Save a book from the last search results",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shelf, _, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		bookID := args[0]
		if shelf.IsSaved(bookID) {
			fmt.Println("Already saved.")
			return nil
		}
		if err := shelf.SaveBook(cmd.Context(), bookID); err != nil {
			return err
		}
		fmt.Println("Saved.")
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <bookId>",
	Short: "Remove a book from your saved list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		shelf, _, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		if err := shelf.DeleteBook(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Removed.")
		return nil
	},
}

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "Show your saved books from the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		shelf, _, closer, err := openShelf()
		if err != nil {
			return err
		}
		defer closer()
		if err := shelf.Refresh(cmd.Context()); err != nil {
			return err
		}
		proj := shelf.Saved()
		if len(proj.SavedBooks) == 0 {
			fmt.Printf("%s has no saved books.\n", proj.Username)
			return nil
		}
		fmt.Printf("%s's saved books (%d):\n", proj.Username, proj.BookCount)
		for _, b := range proj.SavedBooks {
			printBook(b, true)
		}
		return nil
	},
}
