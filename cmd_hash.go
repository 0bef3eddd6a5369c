package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

var hashPasswordCmd = &cobra.Command{
	Use:     "hash-password <password>",
	Short:   "Generate the bcrypt hash for ADMIN_PASSWORD_HASH",
	Example: "wildlife-watch-api hash-password 0i2rinbcp12yc31h",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("generating hash: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ADMIN_PASSWORD_HASH=%s\n", hashed)
		return nil
	},
}
