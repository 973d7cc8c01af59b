package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/podium-coach/podium/cli"
	cfg "github.com/podium-coach/podium/config"
)

func main() {
	_ = godotenv.Load()

	conf, err := cfg.Load()
	if err != nil {
		logrus.Fatal(err)
	}

	log := logrus.New()
	if lvl, err := logrus.ParseLevel(conf.App.LogLvl); err == nil {
		log.SetLevel(lvl)
	}

	root := cli.NewRootCmd(&cli.Dependencies{Config: conf, Log: log})
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
