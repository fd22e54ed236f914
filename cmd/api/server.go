package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/anjiri1684/course_platform/configs"
	"github.com/anjiri1684/course_platform/database"
	"github.com/anjiri1684/course_platform/jobs"
	"github.com/anjiri1684/course_platform/notifications"
	"github.com/anjiri1684/course_platform/payments"
	"github.com/anjiri1684/course_platform/routes"
	"github.com/anjiri1684/course_platform/websocket"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func server() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "start http server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	if err := database.ConnectDB(); err != nil {
		return err
	}
	if err := database.Migrate(); err != nil {
		return err
	}
	notifications.InitEmailService()

	if config.Config("PAYPAL_CLIENT_ID") == "" || config.Config("PAYPAL_CLIENT_SECRET") == "" {
		return fmt.Errorf("PAYPAL_CLIENT_ID and PAYPAL_CLIENT_SECRET must be set")
	}
	payments.Client = payments.NewPayPalGateway(
		config.Config("PAYPAL_API_BASE_URL"),
		config.Config("PAYPAL_CLIENT_ID"),
		config.Config("PAYPAL_CLIENT_SECRET"),
	)

	c := cron.New()
	if err := jobs.Schedule(c); err != nil {
		return fmt.Errorf("schedule jobs: %w", err)
	}
	c.Start()
	defer c.Stop()

	go websocket.RunHub()

	app := routes.NewApp()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info().Msg("shutting down server")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	addr := ":" + config.Config("PORT")
	log.Info().Str("addr", addr).Msg("✅ Server is running")
	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}
