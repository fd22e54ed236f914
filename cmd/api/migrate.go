package main

import (
	"github.com/anjiri1684/course_platform/database"
	"github.com/spf13/cobra"
)

func migrate() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "migrate the database schema and seed the admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.ConnectDB(); err != nil {
				return err
			}
			if err := database.Migrate(); err != nil {
				return err
			}
			return database.SeedAdmin()
		},
	}
}
