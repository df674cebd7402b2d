package main

import (
	"os"

	"disaster_response/internal/cli"
)

// @title        Disaster Response Risk Service
// @version      1.0
// @description  Classifies wildfire sensor readings into risk tiers, logs them and raises alerts.
// @BasePath     /

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
