package config

// Config holds the application configuration.
type Config struct {
	LibraryPath string   `yaml:"libraryPath" validate:"required"`
	Telegram    Telegram `yaml:"telegram"`
	Logger      Logger   `yaml:"logger"`
	Server      Server   `yaml:"server"`
	Database    Database `yaml:"database"`
	Import      Import   `yaml:"import"`
	Artwork     Artwork  `yaml:"artwork"`
	Jobs        Jobs     `yaml:"jobs"`
}

type Jobs struct {
	Log      bool          `yaml:"log"`
	LogPath  string        `yaml:"log_path"`
	Webhooks WebhookConfig `yaml:"webhooks"`
}

type WebhookConfig struct {
	Enabled  bool     `yaml:"enabled"`
	JobTypes []string `yaml:"job_types"`
	Command  string   `yaml:"command"`
}

type Import struct {
	Extensions       []string `yaml:"extensions"`
	Workers          int      `yaml:"workers"`
	AutoStartWatcher bool     `yaml:"auto_start_watcher"`
	WatchDebounceMs  int      `yaml:"watch_debounce_ms"`
}

// Database holds the configuration for the database
type Database struct {
	Path string `yaml:"path" validate:"required"`
}

// Server holds the configuration for the Fiber server Config
type Server struct {
	PrintRoutes bool   `yaml:"show_routes"`
	Port        uint32 `yaml:"port"`
}

// Logger holds the configuration for the app logging
type Logger struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`
}

type Telegram struct {
	Enabled      bool     `yaml:"enabled"`
	Token        string   `yaml:"token"`
	AllowedUsers []string `yaml:"allowedUsers"`
	BotHandle    string   `yaml:"bot_handle"`
}

// Artwork holds configuration for album art handling
type Artwork struct {
	Enabled bool `yaml:"enabled"`
	MaxSize int  `yaml:"max_size"`
	Quality int  `yaml:"quality"`
}
