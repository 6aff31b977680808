package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type Rotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate Rotate
}

type JWT struct {
	Secret            string
	Issuer            string
	AccessTokenTTLMin int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	Username           string
	Password           string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Session selects where session slots live: memory, file or redis.
type Session struct {
	Backend string
	Dir     string
	TTLMin  int
}

type Auth struct {
	AdminUsername     string
	AdminPasscodeHash string
}

type Forum struct {
	SeedDemo          bool
	ViewRefreshMs     int
	MaxViewBump       int
	DirectoryCacheSec int
}

type Config struct {
	App     App
	Log     Log
	JWT     JWT
	DB      DB
	Redis   Redis `mapstructure:"redis"`
	Session Session
	Auth    Auth
	Forum   Forum
}

const DefaultPath = "./configs/config.local.yaml"

// Load reads the config or exits the process.
func Load(path string) *Config {
	c, err := Read(path)
	if err != nil {
		log.Fatalf("read config: %v", err)
	}
	return c
}

func Read(path string) (*Config, error) {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = DefaultPath
		}
	}
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "lottery-forum")
	v.SetDefault("app.env", "local")
	v.SetDefault("app.http.host", "0.0.0.0")
	v.SetDefault("app.http.port", 8080)
	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 10)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("app.admin.host", "127.0.0.1")
	v.SetDefault("app.admin.port", 8081)
	v.SetDefault("log.level", "info")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.issuer", "lottery-forum")
	v.SetDefault("jwt.accesstokenttlmin", 24*60)
	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.dsn", "file:forum.db?_busy_timeout=5000")
	v.SetDefault("db.automigrate", true)
	v.SetDefault("db.loglevel", "warn")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.dir", "./data/sessions")
	v.SetDefault("auth.adminusername", "admin")
	v.SetDefault("forum.seeddemo", true)
	v.SetDefault("forum.viewrefreshms", 2000)
	v.SetDefault("forum.maxviewbump", 2)
	v.SetDefault("forum.directorycachesec", 30)
}
