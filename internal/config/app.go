package config

// App holds process settings for the front ends (bot, CLI extras). Render
// options live in Options/Config.
type App struct {
	BotToken      string `yaml:"bot_token"`
	TempDir       string `yaml:"temp_dir"`
	FontDir       string `yaml:"font_dir"`
	FontCache     string `yaml:"font_cache"`
	PresetFile    string `yaml:"preset_file"`
	MaxFileSize   int64  `yaml:"max_file_size"`
	// MaxCanvasSize and MaxFontSize bound what a chat may request, in px.
	MaxCanvasSize int64  `yaml:"max_canvas_size"`
	MaxFontSize   int64  `yaml:"max_font_size"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
	LogMaxSize    int64  `yaml:"log_max_size"`
}

// Limits is the option bound applied to chat requests.
func (a *App) Limits() Limits {
	return Limits{MaxCanvasSize: float64(a.MaxCanvasSize), MaxFontSize: float64(a.MaxFontSize)}
}
