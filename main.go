package main

import (
	"flag"
	"os"

	"guildmirror/internal/bot"
	"guildmirror/internal/config"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {

	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	// Secrets come from the environment; a .env file is optional
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found")
	}
	token := os.Getenv("DISCORD_TOKEN")

	// Configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Warn().Msg("Could not load config file, using defaults")
		cfg = config.DefaultConfig()
	}

	// Create bot
	bot, err := bot.NewBot(token, cfg)
	if err != nil {
		log.Error().Err(err).Msg("Could not create discord bot")
		os.Exit(1)
	}

	// Run bot
	if err := bot.Run(); err != nil {
		log.Error().Err(err).Msg("Bot stopped with an error")
		os.Exit(1)
	}
}
