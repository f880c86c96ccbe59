// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	DataStore  DataStoreConfig  `mapstructure:"datastore"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Tika       TikaConfig       `mapstructure:"tika"`
	MinIO      MinIOConfig      `mapstructure:"minio"`
	Transcript TranscriptConfig `mapstructure:"transcript"`
	Session    SessionConfig    `mapstructure:"session"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// AuthConfig 存储访问门禁相关的配置。
// Password 为空时完全关闭门禁；以 "$2" 开头时按 bcrypt 哈希比对。
type AuthConfig struct {
	Password string `mapstructure:"password"`
}

// DataStoreConfig 存储外部数据存储 REST API 的配置。
type DataStoreConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Table   string `mapstructure:"table"`
}

// LLMConfig 存储生成式语言模型相关的配置。
type LLMConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
}

// TikaConfig 存储 Tika 服务器相关的配置。
type TikaConfig struct {
	ServerURL string `mapstructure:"server_url"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	BucketName      string `mapstructure:"bucket_name"`
	RootPrefix      string `mapstructure:"root_prefix"`
}

// CloudConfigured 判断云端文档后端所需的配置是否齐备。
// 后端选择策略是配置的纯函数：桶与凭证齐备则走云端，否则走本地。
func (c MinIOConfig) CloudConfigured() bool {
	return c.Endpoint != "" && c.AccessKeyID != "" && c.SecretAccessKey != "" && c.BucketName != ""
}

// TranscriptConfig 存储本地转写文稿目录的配置。
type TranscriptConfig struct {
	LocalDir string `mapstructure:"local_dir"`
}

// SessionConfig 存储会话存储后端的配置。
// Backend 取值 "memory"（默认）或 "redis"。
type SessionConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
// 环境变量可覆盖同名配置项（如 LLM_API_KEY、AUTH_PASSWORD），用于注入密钥。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
