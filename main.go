// @title StudyMate 推荐服务 API
// @version 1.0
// @description StudyMate 个性化学习推荐服务

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"log"
	"studymate_backend/internal/app"
	"studymate_backend/internal/config"
	"studymate_backend/pkg/configwatcher"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)

	// 监听配置文件，打分权重可热更新
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
