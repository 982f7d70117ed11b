package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"sdnctl/controller"
	"sdnctl/shell"
	"sdnctl/trafficgen"
)

// Config struct to hold configuration from toml file
type SimulatorConfig struct {
	Metrics   MetricsConfig   `toml:"metrics"`
	Generator GeneratorConfig `toml:"generator"`
}

type MetricsConfig struct {
	Listen          string `toml:"listen"`
	IntervalSeconds int    `toml:"interval_seconds"`
}

type GeneratorConfig struct {
	MaxWorkers   int     `toml:"max_workers"`
	CriticalRate float64 `toml:"critical_rate"`
	Seed         int64   `toml:"seed"`
}

func loadConfig(path string) (*SimulatorConfig, error) {
	var config SimulatorConfig
	if _, err := toml.DecodeFile(path, &config); err != nil {
		if os.IsNotExist(err) {
			log.Warningf("Config file %s not found, using defaults.", path)
		} else {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}
	if config.Metrics.IntervalSeconds <= 0 {
		config.Metrics.IntervalSeconds = 10
	}
	if config.Generator.MaxWorkers <= 0 {
		config.Generator.MaxWorkers = trafficgen.DefaultConfig().MaxWorkers
	}
	if config.Generator.CriticalRate <= 0 {
		config.Generator.CriticalRate = trafficgen.DefaultConfig().CriticalRate
	}
	return &config, nil
}

// log init
func init() {
	logDir := "./logs"
	os.MkdirAll(logDir, 0755)

	// Configure log rotation with lumberjack
	fileLogger := &lumberjack.Logger{
		Filename:   logDir + "/sdnctl.log",
		MaxSize:    100,  // MB
		MaxBackups: 7,    // Keep 7 old log files
		MaxAge:     30,   // Days
		Compress:   true, // Compress old log files
	}

	// Output to both file and stdout
	multiWriter := io.MultiWriter(os.Stdout, fileLogger)
	log.SetOutput(multiWriter)

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	log.SetLevel(log.InfoLevel)
}

func main() {
	cfg, err := loadConfig("sdnctl_config.toml")
	if err != nil {
		log.Fatalf("loading configuration failed, err:%v", err)
		return
	}

	ctrl := controller.New()

	genCfg := trafficgen.DefaultConfig()
	genCfg.MaxWorkers = cfg.Generator.MaxWorkers
	genCfg.CriticalRate = cfg.Generator.CriticalRate
	genCfg.Seed = cfg.Generator.Seed
	gen, err := trafficgen.New(ctrl, genCfg)
	if err != nil {
		log.Fatalf("creating traffic generator failed, err:%v", err)
		return
	}
	defer gen.Close()

	if cfg.Metrics.Listen != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			log.Infof("metrics listening on %s", cfg.Metrics.Listen)
			if err := http.ListenAndServe(cfg.Metrics.Listen, nil); err != nil {
				log.Warnf("metrics server stopped, err:%v", err)
			}
		}()
		go func() {
			ticker := time.NewTicker(time.Duration(cfg.Metrics.IntervalSeconds) * time.Second)
			defer ticker.Stop()
			for range ticker.C {
				ctrl.PublishMetrics()
			}
		}()
	}

	log.Infof("sdnctl init success")
	if err := shell.New(ctrl, gen, os.Stdin, os.Stdout).Run(); err != nil {
		log.Warnf("shell exited, err:%v", err)
	}
}
