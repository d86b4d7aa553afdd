package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig `yaml:"system" json:"system"`
	Web      WebConfig `yaml:"web" json:"web"`
	Database DBConfig  `yaml:"database" json:"database"`
	Logger   LogConfig `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

func (c *AppConfig) GetDataDir() string {
	return filepath.Join(c.System.Workdir, "data")
}

func (c *AppConfig) initDirs() {
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "logs"), 0755)
	_ = os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0755)
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "SmartPOS",
		Location: "Asia/Ho_Chi_Minh",
		Workdir:  "/var/smartpos",
		Debug:    true,
	},
	Web: WebConfig{
		Host:   "0.0.0.0",
		Port:   1890,
		Secret: "9b6de5cc-smartpos-0338-f081-smartpos-secret",
	},
	Database: DBConfig{
		Type:     "sqlite",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "smartpos",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/smartpos/smartpos.log",
	},
}

func setEnvValue(name string, f func(v string)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue)
	}
}

func setEnvBoolValue(name string, f func(v bool)) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		f(evalue == "true" || evalue == "1" || evalue == "on")
	}
}

// LoadConfig loads the YAML configuration file and applies environment
// variable overrides. A missing file falls back to DefaultAppConfig.
func LoadConfig(cfile string) *AppConfig {
	appcfg := DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			appcfg = new(AppConfig)
			if err := yaml.Unmarshal(data, appcfg); err != nil {
				panic(err)
			}
		}
	}

	setEnvValue("SMARTPOS_SYSTEM_WORKDIR", func(v string) { appcfg.System.Workdir = v })
	setEnvValue("SMARTPOS_SYSTEM_LOCATION", func(v string) { appcfg.System.Location = v })
	setEnvBoolValue("SMARTPOS_SYSTEM_DEBUG", func(v bool) { appcfg.System.Debug = v })

	setEnvValue("SMARTPOS_WEB_HOST", func(v string) { appcfg.Web.Host = v })
	setEnvValue("SMARTPOS_WEB_SECRET", func(v string) { appcfg.Web.Secret = v })

	setEnvValue("SMARTPOS_DB_TYPE", func(v string) { appcfg.Database.Type = v })
	setEnvValue("SMARTPOS_DB_HOST", func(v string) { appcfg.Database.Host = v })
	setEnvValue("SMARTPOS_DB_NAME", func(v string) { appcfg.Database.Name = v })
	setEnvValue("SMARTPOS_DB_USER", func(v string) { appcfg.Database.User = v })
	setEnvValue("SMARTPOS_DB_PWD", func(v string) { appcfg.Database.Passwd = v })

	appcfg.initDirs()
	return appcfg
}
