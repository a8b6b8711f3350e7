package main

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/BurntSushi/toml"

	"github.com/quiclb/quiclb-go/pkg/mapper"
	"github.com/quiclb/quiclb-go/pkg/quiclb"
)

// tomlConfig describes the TOML-configuration.
type tomlConfig struct {
	Codec     codecConf
	Mapper    mapperConf
	Logging   logConf
	Profiling profilingConf
}

// codecConf describes the Codec-configuration block.
type codecConf struct {
	// Configuration is the compact descriptor handed out by the load
	// balancer operator, e.g. "0Y10S8-31-0123..10".
	Configuration string
}

// mapperConf describes the Mapper-configuration block.
type mapperConf struct {
	Listen string
}

// logConf describes the Logging-configuration block.
type logConf struct {
	Level        string
	ReportCaller bool `toml:"report-caller"`
	Format       string
}

// profilingConf describes the Profiling-configuration block.
type profilingConf struct {
	Enable bool
}

// parseConfiguration reads the TOML file and creates the codec Context and
// the mapper Service.
func parseConfiguration(filename string) (ctx *quiclb.Context, service *mapper.Service, listen string, profiling bool, err error) {
	var conf tomlConfig
	if _, err = toml.DecodeFile(filename, &conf); err != nil {
		return
	}

	// Logging
	if conf.Logging.Level != "" {
		if lvl, lvlErr := log.ParseLevel(conf.Logging.Level); lvlErr != nil {
			log.WithFields(log.Fields{
				"level":    conf.Logging.Level,
				"error":    lvlErr,
				"provided": "panic,fatal,error,warn,info,debug,trace",
			}).Warn("Failed to set log level. Please select one of the provided ones")
		} else {
			log.SetLevel(lvl)
		}
	}

	log.SetReportCaller(conf.Logging.ReportCaller)

	switch conf.Logging.Format {
	case "", "text":
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})

	case "json":
		log.SetFormatter(&log.JSONFormatter{
			TimestampFormat: time.RFC3339Nano,
		})

	default:
		log.Warn("Unknown logging format")
	}

	// Codec
	if conf.Codec.Configuration == "" {
		err = fmt.Errorf("codec.configuration is empty")
		return
	}

	lbConf, confErr := quiclb.ParseConfig(conf.Codec.Configuration)
	if confErr != nil {
		err = confErr
		return
	}

	if ctx, err = quiclb.NewContext(lbConf); err != nil {
		return
	}

	// Mapper
	if conf.Mapper.Listen == "" {
		err = fmt.Errorf("mapper.listen is empty")
		return
	}

	service = mapper.NewService(ctx)
	listen = conf.Mapper.Listen
	profiling = conf.Profiling.Enable

	return
}
