package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"telreport/cmd"
	"telreport/config"
	"telreport/logger"
)

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(config.ConfigPath)

	if err := viper.MergeInConfig(); err != nil {
		logger.GlobalLogger.Warn("No config.yaml file found (see config-example.yaml), relying on flags, environment and defaults", "err", err)
	}

	if err := godotenv.Load(config.ConfigPath + ".env"); err != nil {
		logger.GlobalLogger.Warn("No .env file found (see .env-example), relying on the process environment", "err", err)
	}

	viper.AutomaticEnv()
}

func main() {
	initConfig()

	err := cmd.RootCmd.Execute()
	if err != nil {
		logger.GlobalLogger.Error("Error executing command", "err", err)
	}

	logger.CloseAll()

	if err != nil {
		os.Exit(1)
	}
}
