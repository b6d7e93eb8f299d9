package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server   ServerConfig   `toml:"server"`
	Data     DataConfig     `toml:"data"`
	Business BusinessConfig `toml:"business"`
	Store    StoreConfig    `toml:"store"`
	Insight  InsightConfig  `toml:"insight"`
	Redis    RedisConfig    `toml:"redis"`
	Logging  LoggingConfig  `toml:"logging"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// BusinessConfig 业务配置
type BusinessConfig struct {
	BonusPercentage float64 `toml:"bonus_percentage"`
	ExchangeRate    float64 `toml:"exchange_rate"`
	HistoryCapacity int     `toml:"history_capacity"`
	DateLayout      string  `toml:"date_layout"`
}

// StoreConfig 历史记录持久化配置；backend: json / sqlite / postgres
type StoreConfig struct {
	Backend     string `toml:"backend"`
	PostgresDSN string `toml:"postgres_dsn"`
}

// InsightConfig 分析点评生成配置
type InsightConfig struct {
	Enabled          bool   `toml:"enabled"`
	GeminiAPIKey     string `toml:"gemini_api_key"`
	GeminiModel      string `toml:"gemini_model"`
	OpenAIAPIKey     string `toml:"openai_api_key"`
	OpenAIModel      string `toml:"openai_model"`
	MaxOutputTokens  int    `toml:"max_output_tokens"`
	TimeoutSeconds   int    `toml:"timeout_seconds"`
	FailureThreshold int    `toml:"failure_threshold"`
	ResetSeconds     int    `toml:"reset_seconds"`
}

// RedisConfig 点评缓存配置；Addr 为空时不启用
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20261,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Business: BusinessConfig{
			BonusPercentage: 10,
			ExchangeRate:    25000,
			HistoryCapacity: 10,
			DateLayout:      "02/01/2006",
		},
		Store: StoreConfig{
			Backend: "sqlite",
		},
		Insight: InsightConfig{
			Enabled:          true,
			GeminiModel:      "gemini-2.5-flash",
			OpenAIModel:      "gpt-4o-mini",
			MaxOutputTokens:  600,
			TimeoutSeconds:   30,
			FailureThreshold: 3,
			ResetSeconds:     60,
		},
		Redis: RedisConfig{
			TTLMinutes: 24 * 60,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrDot() string {
	exeDir, err := GetExeDir()
	if err != nil || exeDir == "" {
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir := exeDirOrDot()

	// .env 不存在时忽略
	_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	_ = godotenv.Load()

	return LoadConfigFrom(filepath.Join(exeDir, "config.toml"))
}

// LoadConfigFrom 从指定路径加载配置，文件不存在时使用默认配置；环境变量最后覆盖
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, info, err
		}
	} else {
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	}

	applyEnvOverrides(config)
	return config, info, nil
}

// LoadConfig 从 config.toml 加载配置
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// 环境变量覆盖（密钥 / 路径）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("RL_GEMINI_API_KEY"); v != "" {
		config.Insight.GeminiAPIKey = v
	}
	if v := os.Getenv("RL_OPENAI_API_KEY"); v != "" {
		config.Insight.OpenAIAPIKey = v
	}
	if v := os.Getenv("RL_POSTGRES_DSN"); v != "" {
		config.Store.PostgresDSN = v
		config.Store.Backend = "postgres"
	}
	if v := os.Getenv("RL_REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
	if v := os.Getenv("RL_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("RL_DATA_DIR"); v != "" {
		config.Data.DataDir = v
	}
	if v := os.Getenv("RL_INSIGHT_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Insight.Enabled = b
		}
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(exeDirOrDot(), "config.toml"), data, 0644)
}

// ResolveDataDir 数据目录绝对路径（相对路径以可执行文件目录为基准）
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrDot(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		if err := os.MkdirAll(filepath.Join(dataDir, subdir), 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// GetDataPath 获取数据文件路径
func GetDataPath(config *AppConfig, subdir, filename string) string {
	return filepath.Join(ResolveDataDir(config), subdir, filename)
}
