package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀，如 LIVESTATS_SERVER_PORT
const EnvPrefix = "LIVESTATS"

// FileName 配置文件名（位于可执行文件同目录）
const FileName = "config.toml"

// AppConfig 应用配置
type AppConfig struct {
	Server     ServerConfig     `toml:"server"`
	Data       DataConfig       `toml:"data"`
	Processing ProcessingConfig `toml:"processing"`
	Log        LogConfig        `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" validate:"min=1,max=65535"`
	DevMode bool `toml:"dev_mode" split_words:"true"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir" split_words:"true" validate:"required"`
}

// ProcessingConfig 文件处理配置
type ProcessingConfig struct {
	Mode        string   `toml:"mode" validate:"oneof=formula value"`
	TimeZone    string   `toml:"time_zone" split_words:"true" validate:"required"`
	ProbeRows   int      `toml:"probe_rows" split_words:"true" validate:"min=1,max=1000"`
	MaxUploadMB int      `toml:"max_upload_mb" split_words:"true" validate:"min=1"`
	Timeout     Duration `toml:"timeout"`
	Workers     int      `toml:"workers" validate:"min=1,max=64"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=json console"`
}

// Duration 支持 "90s" / "2m" 文本的时长
type Duration struct {
	time.Duration
}

// UnmarshalText 供 go-toml 与 envconfig 解析
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	d.Duration = v
	return nil
}

// MarshalText 写回配置文件时使用
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FileFound     bool
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
		Processing: ProcessingConfig{
			Mode:        "formula",
			TimeZone:    "Asia/Jakarta",
			ProbeRows:   10,
			MaxUploadMB: 50,
			Timeout:     Duration{2 * time.Minute},
			Workers:     4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
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

// LoadConfigWithInfo 从可执行文件同目录的 config.toml 加载配置
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return LoadFile(filepath.Join(exeDir, FileName))
}

// LoadFile 加载指定配置文件：默认值 → 文件 → 环境变量，最后校验
//
// 文件不存在时只使用默认值与环境变量。
func LoadFile(path string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{Path: path}
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, info, fmt.Errorf("read %s: %w", path, err)
	}

	// 环境变量覆盖（未设置的变量保持原值）
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, info, fmt.Errorf("load config from env: %w", err)
	}
	if os.Getenv(EnvPrefix+"_SERVER_PORT") != "" {
		info.PortSpecified = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, info, err
	}
	return cfg, info, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate 校验配置取值范围
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config validation failed: %s (%s=%v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Processing.Timeout.Duration < 0 {
		return fmt.Errorf("config validation failed: processing.timeout must not be negative")
	}
	return nil
}

// MaxUploadBytes 上传大小上限（字节）
func (c *AppConfig) MaxUploadBytes() int64 {
	return int64(c.Processing.MaxUploadMB) << 20
}

// EnsureDataDir 确保数据目录存在，返回绝对路径
//
// 相对路径以可执行文件所在目录为基准。
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"outputs"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}

// DatabasePath 处理日志数据库文件路径
func DatabasePath(dataDir string) string {
	return filepath.Join(dataDir, "livestats.db")
}
