package config

type config struct {
	Server   server   `yaml:"server" mapstructure:"server"`
	Store    store    `yaml:"store" mapstructure:"store"`
	Mysql    mysql    `yaml:"mysql" mapstructure:"mysql"`
	Redis    redis    `yaml:"redis" mapstructure:"redis"`
	RabbitMq rabbitmq `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Minio    minio    `yaml:"minio" mapstructure:"minio"`
	Elastic  elastic  `yaml:"elastic" mapstructure:"elastic"`
	Jwt      jwt      `yaml:"jwt" mapstructure:"jwt"`
	Sentinel sentinel `yaml:"sentinel" mapstructure:"sentinel"`
	History  history  `yaml:"history" mapstructure:"history"`
}

type server struct {
	Addr      string `yaml:"addr"`
	PprofAddr string `yaml:"pprof_addr" mapstructure:"pprof_addr"`
	NodeID    int64  `yaml:"node_id" mapstructure:"node_id"`
}

type store struct {
	Backend string `yaml:"backend"` // mysql 或 memory
	Timeout string `yaml:"timeout"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type minio struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl" mapstructure:"use_ssl"`
}

type elastic struct {
	Addr string `yaml:"addr"`
}

type jwt struct {
	Secret  string `yaml:"secret"`
	Timeout string `yaml:"timeout"`
}

type sentinel struct {
	ToggleQPS float64 `yaml:"toggle_qps" mapstructure:"toggle_qps"`
}

type history struct {
	MaxItems int `yaml:"max_items" mapstructure:"max_items"`
}
