package tutorbot

// Config holds the bot configuration.
type Config struct {
	Token  string `mapstructure:"token"`
	DBPath string `mapstructure:"db-path"`
}
