package cfg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type ViperLoader struct {
	v                     *viper.Viper
	path                  string
	mu                    sync.RWMutex
	cfg                   *Config
	configChangeCallbacks []func(*Config)
}

// NewViperLoader reads path when given, otherwise searches mode.yaml in
// cfg/yaml and the XDG config directory. A missing file is not an error.
func NewViperLoader(path string) (*ViperLoader, error) {
	return &ViperLoader{
		v:                     viper.New(),
		path:                  path,
		configChangeCallbacks: make([]func(*Config), 0),
	}, nil
}

func (yl *ViperLoader) Load() (*Config, error) {
	if err := yl.loadConfig(); err != nil {
		return nil, err
	}

	yl.mu.RLock()
	defer yl.mu.RUnlock()
	return yl.cfg, nil
}

// ConfigFileUsed returns the file the configuration was read from, if any.
func (yl *ViperLoader) ConfigFileUsed() string {
	return yl.v.ConfigFileUsed()
}

// Watch reloads the configuration whenever the file changes and hands the
// new value to callback. It reports false when no file is being used.
func (yl *ViperLoader) Watch(callback func(*Config)) bool {
	if yl.v.ConfigFileUsed() == "" {
		return false
	}
	yl.RegisterConfigChangeCallback(callback)
	yl.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		fmt.Printf("[INFO][CONFIG] Config file changed: %s\n", e.Name)
		if errReload := yl.reloadConfig(); errReload != nil {
			fmt.Printf("[ERROR][CONFIG] Failed to reload config: %v\n", errReload)
		}
	})
	yl.v.WatchConfig()
	return true
}

func (yl *ViperLoader) RegisterConfigChangeCallback(callback func(*Config)) {
	yl.mu.Lock()
	yl.configChangeCallbacks = append(yl.configChangeCallbacks, callback)
	yl.mu.Unlock()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dsq-participants")
	v.SetDefault("app.version", "dev")

	v.SetDefault("github_api.api_url", "https://api.github.com")
	v.SetDefault("github_api.requests_per_second", 5)
	v.SetDefault("github_api.per_page", 100)
	v.SetDefault("github_api.timeout_sec", 30)

	v.SetDefault("upstream.owner", "RaphyStoll")
	v.SetDefault("upstream.repo", "devSideQuests")
	v.SetDefault("upstream.quests_dir", "quests")

	v.SetDefault("quest.topic", "devsidequests")
	v.SetDefault("quest.prefix", "dsq")
	v.SetDefault("quest.completion_threshold_days", 7)

	v.SetDefault("language.recent_days", 180)
	v.SetDefault("language.annotate_above", 15)
	v.SetDefault("language.bio_fallback", false)
	v.SetDefault("language.original_weight", 3)
	v.SetDefault("language.recency_weight", 2)

	v.SetDefault("participants.extra", []string{})

	v.SetDefault("files.cache", "cache.json")
	v.SetDefault("files.output", "PARTICIPANTS.md")
}

func (yl *ViperLoader) loadConfig() error {
	v := yl.v
	setDefaults(v)

	v.SetEnvPrefix("DSQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("github_api.access_token", "DSQ_GITHUB_API_ACCESS_TOKEN", "GITHUB_TOKEN"); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to bind token env: %w", err)
	}

	if yl.path != "" {
		v.SetConfigFile(yl.path)
	} else {
		v.AddConfigPath("cfg/yaml")
		v.AddConfigPath(filepath.Join(xdg.ConfigHome, "dsq-participants"))
		v.SetConfigName("mode")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if yl.path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("[ERROR][CONFIG] failed to read config file: %w", err)
		}
	}

	// Unmarshal into the config
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg
	yl.mu.Unlock()

	return nil
}

func (yl *ViperLoader) reloadConfig() error {
	cfg := &Config{}
	if err := yl.v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("[ERROR][CONFIG] failed to unmarshal config during reload: %w", err)
	}

	yl.mu.Lock()
	yl.cfg = cfg

	// Notify all registered callbacks
	callbacks := make([]func(*Config), len(yl.configChangeCallbacks))
	copy(callbacks, yl.configChangeCallbacks)
	yl.mu.Unlock()
	for _, callback := range callbacks {
		callback(cfg)
	}

	fmt.Println("[INFO][CONFIG] Configuration reloaded successfully")
	return nil
}
