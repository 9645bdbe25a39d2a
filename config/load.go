// load.go reads configuration from the environment through Viper.
//
// The database variables use the lowercase names the Lambda function
// is deployed with (user, password, host, port, dbname). Everything else
// is prefixed by its concern (DB_SSH_*, AGENT_*), except BedrockRegion.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// env bindings: viper key → environment variable.
var bindings = map[string]string{
	"db.user":            "user",
	"db.password":        "password",
	"db.host":            "host",
	"db.port":            "port",
	"db.name":            "dbname",
	"db.sslmode":         "sslmode",
	"ssh.enabled":        "DB_SSH_ENABLED",
	"ssh.host":           "DB_SSH_HOST",
	"ssh.port":           "DB_SSH_PORT",
	"ssh.user":           "DB_SSH_USER",
	"ssh.key_path":       "DB_SSH_KEY_PATH",
	"ssh.key_passphrase": "DB_SSH_KEY_PASSPHRASE",
	"ssh.known_hosts":    "DB_SSH_KNOWN_HOSTS",
	"agent.runtime":      "AGENT_RUNTIME",
	"agent.model_id":     "AGENT_MODEL_ID",
	"agent.region":       "BedrockRegion",
	"agent.instructions": "AGENT_INSTRUCTIONS_FILE",
	"agent.call_delay":   "AGENT_CALL_DELAY",
	"agent.anthropic":    "ANTHROPIC_API_KEY",
	"agent.max_turns":    "AGENT_MAX_TURNS",
	"agent.aws.profile":  "AGENT_AWS_PROFILE",
	"agent.aws.key_id":   "AGENT_AWS_ACCESS_KEY_ID",
	"agent.aws.secret":   "AGENT_AWS_SECRET_ACCESS_KEY",
	"agent.aws.token":    "AGENT_AWS_SESSION_TOKEN",
	"log.level":          "LOG_LEVEL",
	"handler.mode":       "HANDLER_MODE",
}

// Settings is everything the process needs, read once at startup.
type Settings struct {
	DB          Config
	Agent       AgentConfig
	LogLevel    string
	HandlerMode string
}

// NewViper returns a Viper instance with defaults and env bindings applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("db.port", DefaultPort)
	v.SetDefault("ssh.port", 22)
	v.SetDefault("agent.runtime", DefaultRuntime)
	v.SetDefault("agent.model_id", DefaultModelID)
	v.SetDefault("agent.call_delay", DefaultCallDelay)
	v.SetDefault("agent.max_turns", DefaultMaxTurns)
	v.SetDefault("log.level", "info")
	v.SetDefault("handler.mode", "websocket")

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
	v.AutomaticEnv()
	return v
}

// Load reads the settings from the process environment.
func Load() (*Settings, error) {
	return FromViper(NewViper())
}

// FromViper builds Settings from an already populated Viper instance.
func FromViper(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DB: Config{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Database: v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
			SSH: SSHConfig{
				Enabled:        v.GetBool("ssh.enabled"),
				Host:           v.GetString("ssh.host"),
				Port:           v.GetInt("ssh.port"),
				User:           v.GetString("ssh.user"),
				KeyPath:        v.GetString("ssh.key_path"),
				KeyPassphrase:  v.GetString("ssh.key_passphrase"),
				KnownHostsFile: v.GetString("ssh.known_hosts"),
			},
		},
		Agent: AgentConfig{
			Runtime:          v.GetString("agent.runtime"),
			ModelID:          v.GetString("agent.model_id"),
			RegionOverride:   v.GetString("agent.region"),
			InstructionsFile: v.GetString("agent.instructions"),
			CallDelay:        v.GetDuration("agent.call_delay"),
			AnthropicAPIKey:  v.GetString("agent.anthropic"),
			MaxTurns:         v.GetInt("agent.max_turns"),

			AWSProfile:         v.GetString("agent.aws.profile"),
			AWSAccessKeyID:     v.GetString("agent.aws.key_id"),
			AWSSecretAccessKey: v.GetString("agent.aws.secret"),
			AWSSessionToken:    v.GetString("agent.aws.token"),
		},
		LogLevel:    v.GetString("log.level"),
		HandlerMode: v.GetString("handler.mode"),
	}

	if s.DB.SSH.Enabled && s.DB.SSH.Host == "" {
		return nil, fmt.Errorf("ssh tunnel enabled but DB_SSH_HOST is empty")
	}
	switch s.HandlerMode {
	case "websocket", "http":
	default:
		return nil, fmt.Errorf("unknown handler mode %q (want websocket or http)", s.HandlerMode)
	}
	return s, nil
}
