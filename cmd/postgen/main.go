// Package main implements postgen, a command line front end for the
// post generator. It produces a single post from an idea without going
// through the HTTP server, the profile cache, or the scraper.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		founder string
		company string
	)

	cmd := &cobra.Command{
		Use:     "postgen \"idea\"",
		Short:   "Generate a LinkedIn post for an idea",
		Args:    cobra.ExactArgs(1),
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			post, err := generate(cmd.Context(), args[0], founder, company)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), post)
			return nil
		},
	}

	cmd.Flags().StringVar(&founder, "founder", "", "founder name to weave into the post")
	cmd.Flags().StringVar(&company, "company", "", "company name to weave into the post")
	cmd.SilenceUsage = true

	return cmd
}
