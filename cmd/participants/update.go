package main

import "github.com/spf13/cobra"

func newUpdateCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Fetch forks and new participants, render the page and save the cache",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, f, "update")
		},
	}
}

func newRefreshCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-read avatar and main language of every cached participant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(cmd, f, "refresh")
		},
	}
}
