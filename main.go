// @title ArchTutor Backend API
// @version 1.0
// @description Backend for a computer-architecture course assistant: chat, exams and learning games.

// @contact.name API Support

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /

package main

import (
	"flag"
	"log"

	"archtutor_backend/internal/app"
	"archtutor_backend/internal/config"
	"archtutor_backend/pkg/configwatcher"
	"archtutor_backend/pkg/logger"
)

func main() {
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	watch := flag.Bool("watch-config", false, "reload config on file change")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watch {
		go configwatcher.WatchConfig(*configDir+"/config.yaml", application.ApplyConfig)
	}

	application.Run()
}
