package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mariettabot/vendobot/catalog"
	"github.com/mariettabot/vendobot/dialog"
	"github.com/mariettabot/vendobot/internal/profile"
	"github.com/mariettabot/vendobot/internal/version"
	"github.com/mariettabot/vendobot/plugin/whatsapp"
	"github.com/mariettabot/vendobot/plugin/whatsapp/metrics"
	"github.com/mariettabot/vendobot/server"
	"github.com/mariettabot/vendobot/store"
)

var rootCmd = &cobra.Command{
	Use:   "vendobot",
	Short: `A WhatsApp order-taking bot. Turns free-form customer messages into structured food orders.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// .env is a convenience for direct binary execution
		_ = godotenv.Load()
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:        viper.GetString("mode"),
			Addr:        viper.GetString("addr"),
			Port:        viper.GetInt("port"),
			Data:        viper.GetString("data"),
			DeliveryFee: viper.GetInt("delivery-fee"),
			ETAMinutes:  viper.GetInt("eta-min"),
			SessionTTL:  time.Duration(viper.GetInt("session-ttl-min")) * time.Minute,
			Version:     version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		orderStore, err := store.NewFileStore(instanceProfile.Data, instanceProfile.DeliveryFee, instanceProfile.ETAMinutes)
		if err != nil {
			slog.Error("failed to create order store", "error", err)
			os.Exit(1)
		}

		loader := &catalog.Loader{
			MenuPath:     instanceProfile.MenuPath,
			SynonymsPath: instanceProfile.SynonymsPath,
		}
		// fail fast on a missing or unreadable menu file
		if _, _, err := loader.Load(); err != nil {
			slog.Error("failed to load catalog", "error", err)
			os.Exit(1)
		}

		sessions := dialog.NewSessionStore(instanceProfile.SessionTTL)
		sessions.StartEvictor(ctx, time.Hour)

		controller := dialog.NewController(orderStore, dialog.Config{
			DeliveryFee: instanceProfile.DeliveryFee,
			ETAMinutes:  instanceProfile.ETAMinutes,
		})

		sender := whatsapp.NewClient(instanceProfile.WhatsAppToken, instanceProfile.PhoneNumberID)
		exporter := metrics.NewExporter()

		s := server.New(instanceProfile, loader, sessions, controller, sender, exporter)

		c := make(chan os.Signal, 1)
		signal.Notify(c, terminationSignals...)
		go func() {
			<-c
			s.Shutdown(ctx)
			cancel()
		}()

		printGreetings(instanceProfile)
		if err := s.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		<-ctx.Done()
	},
}

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("port", 5000)
	viper.SetDefault("delivery-fee", 3000)
	viper.SetDefault("eta-min", 20)
	viper.SetDefault("session-ttl-min", 20)

	rootCmd.PersistentFlags().String("mode", "dev", `mode of server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "address of server")
	rootCmd.PersistentFlags().Int("port", 5000, "port of server")
	rootCmd.PersistentFlags().String("data", "", "data directory (menu, synonyms, comandas)")
	rootCmd.PersistentFlags().Int("delivery-fee", 3000, "flat delivery fee in the smallest currency unit")
	rootCmd.PersistentFlags().Int("eta-min", 20, "estimated preparation time in minutes")
	rootCmd.PersistentFlags().Int("session-ttl-min", 20, "minutes after a confirmed order before the conversation resets")

	for _, flag := range []string{"mode", "addr", "port", "data", "delivery-fee", "eta-min", "session-ttl-min"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("vendobot")
	viper.AutomaticEnv()
}

func printGreetings(p *profile.Profile) {
	fmt.Printf("Vendobot %s started successfully!\n", p.Version)
	if p.IsDev() {
		fmt.Fprint(os.Stderr, "Development mode is enabled\n")
	}
	fmt.Printf("Data directory: %s\n", p.Data)
	fmt.Printf("Menu file: %s\n", p.MenuPath)
	if len(p.Addr) == 0 {
		fmt.Printf("Webhook listening on port %d\n", p.Port)
	} else {
		fmt.Printf("Webhook listening on %s:%d\n", p.Addr, p.Port)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
