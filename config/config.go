package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8888")
	v.SetDefault("server.node_id", 1)
	v.SetDefault("store.backend", "mysql")
	v.SetDefault("store.timeout", "3s")
	v.SetDefault("mysql.charset", "utf8mb4")
	v.SetDefault("minio.bucket", "vidtube")
	v.SetDefault("jwt.timeout", "24h")
	v.SetDefault("sentinel.toggle_qps", 200)
	v.SetDefault("history.max_items", 100)
}

// Init 按多个候选路径查找 config.yml，环境变量 VIDTUBE_* 优先
func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("config.yml")

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}
	for _, path := range configPaths {
		v.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Debugf("Added config path: %s (absolute: %s)", path, absPath)
	}
	if err := read(v); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Warnf("config file not found, using defaults and env: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
			return
		}
	} else {
		logrus.Infof("Successfully read config file: %s", v.ConfigFileUsed())
	}
	fill(v)
}

// Load 读取指定文件，测试和命令行 -config 使用
func Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := read(v); err != nil {
		return err
	}
	fill(v)
	return nil
}

func read(v *viper.Viper) error {
	setDefaults(v)
	v.SetEnvPrefix("VIDTUBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v.ReadInConfig()
}

// 手动从viper获取配置值
func fill(v *viper.Viper) {
	ConfigInfo.Server.Addr = v.GetString("server.addr")
	ConfigInfo.Server.PprofAddr = v.GetString("server.pprof_addr")
	ConfigInfo.Server.NodeID = v.GetInt64("server.node_id")

	ConfigInfo.Store.Backend = v.GetString("store.backend")
	ConfigInfo.Store.Timeout = v.GetString("store.timeout")

	ConfigInfo.Mysql.Addr = v.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = v.GetString("mysql.database")
	ConfigInfo.Mysql.Username = v.GetString("mysql.username")
	ConfigInfo.Mysql.Password = v.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = v.GetString("mysql.charset")

	ConfigInfo.Redis.Addr = v.GetString("redis.addr")
	ConfigInfo.Redis.Password = v.GetString("redis.password")

	ConfigInfo.RabbitMq.Addr = v.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = v.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = v.GetString("rabbitmq.password")

	ConfigInfo.Minio.Endpoint = v.GetString("minio.endpoint")
	ConfigInfo.Minio.AccessKey = v.GetString("minio.access_key")
	ConfigInfo.Minio.SecretKey = v.GetString("minio.secret_key")
	ConfigInfo.Minio.Bucket = v.GetString("minio.bucket")
	ConfigInfo.Minio.UseSSL = v.GetBool("minio.use_ssl")

	ConfigInfo.Elastic.Addr = v.GetString("elastic.addr")

	ConfigInfo.Jwt.Secret = v.GetString("jwt.secret")
	ConfigInfo.Jwt.Timeout = v.GetString("jwt.timeout")

	ConfigInfo.Sentinel.ToggleQPS = v.GetFloat64("sentinel.toggle_qps")
	ConfigInfo.History.MaxItems = v.GetInt("history.max_items")

	logrus.Infof("Config loaded - store: %s, MySQL: %s:%s@%s/%s",
		ConfigInfo.Store.Backend, ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
}

// StoreTimeout 解析失败时使用默认值
func StoreTimeout(def time.Duration) time.Duration {
	return parseDuration(ConfigInfo.Store.Timeout, def)
}

func JwtTimeout(def time.Duration) time.Duration {
	return parseDuration(ConfigInfo.Jwt.Timeout, def)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
