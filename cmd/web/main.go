package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stalkiq/dzera-sub000/pkg/server"
	"github.com/stalkiq/dzera-sub000/pkg/services/chat"
	"github.com/stalkiq/dzera-sub000/pkg/services/config"
	"github.com/stalkiq/dzera-sub000/pkg/services/credentials"
	"github.com/stalkiq/dzera-sub000/pkg/services/scan"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the Dzera cost-scanner web API",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to an optional YAML config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file loaded: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	chatClient := chat.NewClient(chat.Config{
		Endpoint: cfg.Chat.Endpoint,
		APIKey:   cfg.Chat.APIKey,
		Model:    cfg.Chat.Model,
		Timeout:  60 * time.Second,
	})

	deps := server.Dependencies{
		Scanner: scan.NewService(),
		Chatter: chatClient,
	}

	kmsDecryptor, err := credentials.NewKMSDecryptor(cmd.Context(), cfg.KMS.Region)
	if err != nil {
		logger.Warn().Err(err).Msg("KMS decryptor unavailable, encrypted credentials disabled")
	} else {
		deps.Decryptor = kmsDecryptor
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		ScanTimeout:     cfg.Server.ScanTimeout,
		DefaultRegions:  cfg.Scan.DefaultRegions,
		Dependencies:    deps,
	})

	return api.Start()
}
