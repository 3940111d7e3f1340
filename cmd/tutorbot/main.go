package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tutormatch/tutorbot"
)

const (
	botName = "tutorbot"
	cfgFile = ".tutorbotrc"
)

var log = &logrus.Logger{
	Out:       os.Stderr,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

func initConfig() (cfg tutorbot.Config, err error) {
	// a .env file, if present, feeds the environment before viper reads it
	_ = godotenv.Load()

	// command line
	pflag.String("token", "", "Telegram bot token")
	pflag.String("db-path", "tutorbot.db", "Path to database file")
	pflag.Parse()

	err = viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		return
	}

	// env
	viper.SetEnvPrefix(botName)
	viper.AutomaticEnv()

	// config file, optional
	viper.SetConfigName(cfgFile)
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	err = viper.Unmarshal(&cfg)
	return
}

func main() {
	cfg, err := initConfig()
	if err != nil {
		log.Fatalln("Failed to read config:", err)
	}
	if cfg.Token == "" {
		log.Fatalln("TUTORBOT_TOKEN is not set")
	}

	bot, err := tutorbot.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	defer bot.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(ctx); err != nil {
		log.Errorf("Bot exited with error: %v", err)
	}
}
