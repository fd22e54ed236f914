package main

import (
	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/utils"
	"github.com/spf13/cobra"
)

func root() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "course-platform",
		Short: "course marketplace API",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.SetupLogger(config.Config("APP_ENV"))
		},
	}
	rootCmd.AddCommand(server(), migrate())
	return rootCmd
}
