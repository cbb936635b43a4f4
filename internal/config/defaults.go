package config

const (
	defaultConfigPath    = "~/.config/aqmsnotify/config.toml"
	defaultDataDir       = "~/shakemap_profiles/default/data"
	defaultLogDir        = "~/.local/share/aqmsnotify/logs"
	defaultLockDir       = "~/.local/share/aqmsnotify/locks"
	defaultHistoryPath   = "~/.local/share/aqmsnotify/history.db"
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultLockTimeout   = 30
	dataDirEnv           = "AQMSNOTIFY_DATA_DIR"
	maxCommandTimeout    = 24 * 60 * 60
	maxLockTimeoutSecond = 60 * 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			LockDir: defaultLockDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Runner: Runner{
			LockTimeout: defaultLockTimeout,
		},
		History: History{
			Path: defaultHistoryPath,
		},
		Notify: map[string]Action{},
	}
}
