// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/affiliate-research/internal/research"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect saved research sessions",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved session files",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString("sessions_dir")
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				fmt.Println("No sessions saved.")
				return nil
			}
			return fmt.Errorf("reading sessions directory: %w", err)
		}

		var names []string
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".yaml") {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			fmt.Println("No sessions saved.")
			return nil
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Println(filepath.Join(dir, n))
		}
		return nil
	},
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a saved session as a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := research.ReadSessionFile(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Niche: %s   Saved: %s\n\n", sf.Query.Niche, sf.Timestamp.Format("2006-01-02 15:04:05 MST"))
		research.FormatTable(sf.Result, os.Stdout)
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	rootCmd.AddCommand(sessionCmd)
}
