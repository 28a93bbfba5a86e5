package main

import (
	"context"

	"github.com/s-min-sys/billsplitbe/internal/config"
	"github.com/s-min-sys/billsplitbe/internal/server"
	"github.com/sgostarter/i/l"
	"github.com/sgostarter/libconfig"
	"github.com/sgostarter/liblogrus"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

func main() {
	logger := l.NewWrapper(liblogrus.NewLogrusEx(logrus.New()))
	logger.GetLogger().SetLevel(l.LevelDebug)

	var cfg config.Config
	_, _ = libconfig.Load("config.yaml", &cfg)

	if cfg.Listen == "" {
		cfg.Listen = ":9601"
	}

	if cfg.DataRoot == "" {
		cfg.DataRoot = "data"
	}

	if cfg.AccountConfig.TokenSignKey == "" {
		cfg.AccountConfig.TokenSignKey = "billsplit"
	}

	if cfg.AccountConfig.PasswordHashIterCount <= 0 {
		cfg.AccountConfig.PasswordHashIterCount = 100
	}

	d, _ := yaml.Marshal(cfg)
	logger.Debug(string(d))

	server.NewServer(context.Background(), nil, &cfg, logger).Wait()
}
