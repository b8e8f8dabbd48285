package database

import (
	"fmt"
	"log"
	"studymate_backend/internal/config"
	"studymate_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	Seed(db)

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.StudentAccount{},
		&model.Theme{},
		&model.LearningSession{},
		&model.RecommendationLog{},
	)
}

func Seed(db *gorm.DB) {
	// 默认学习主题（目录为空时插入，租户 1 为默认租户）
	var count int64
	db.Model(&model.Theme{}).Count(&count)
	if count == 0 {
		defaultThemes := []model.Theme{
			{TenantID: 1, Title: "分数与小数", Description: "分数、小数及其互相转换", Difficulty: model.DifficultyBeginner, Status: model.ThemeActive},
			{TenantID: 1, Title: "四则运算", Description: "加减乘除与运算顺序", Difficulty: model.DifficultyBeginner, Status: model.ThemeActive},
			{TenantID: 1, Title: "代数基础", Description: "变量、表达式与一元一次方程", Difficulty: model.DifficultyIntermediate, Status: model.ThemeActive},
			{TenantID: 1, Title: "几何图形", Description: "平面图形的周长与面积", Difficulty: model.DifficultyIntermediate, Status: model.ThemeActive},
			{TenantID: 1, Title: "函数与图像", Description: "函数概念与坐标系中的图像", Difficulty: model.DifficultyAdvanced, Status: model.ThemeActive},
			{TenantID: 1, Title: "概率统计", Description: "数据的收集、整理与概率初步", Difficulty: model.DifficultyAdvanced, Status: model.ThemeActive},
		}
		for _, theme := range defaultThemes {
			db.Create(&theme)
		}
	}
}
