// 手动触发全量完整性巡检脚本
//
// 巡检已集成到主应用的教师接口（POST /api/integrity/sweep，按课程触发）。
// 此脚本用于手动全量回填，例如首次部署或导入历史会话数据后。
//
// 用法: go run scripts/backfill_sweep.go -days 30

package main

import (
	"flag"
	"learnguard_backend/internal/config"
	"learnguard_backend/internal/repository"
	"learnguard_backend/internal/service"
	"learnguard_backend/pkg/database"
	"learnguard_backend/pkg/logger"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

func main() {
	days := flag.Int("days", 30, "回溯天数")
	flag.Parse()

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}
	if cfg.Engine.SweepWorkers <= 0 {
		cfg.Engine.SweepWorkers = 8
	}
	if cfg.Engine.CacheTTLMinutes <= 0 {
		cfg.Engine.CacheTTLMinutes = 30
	}

	logger.InitLogger(&cfg)
	defer logger.Log.Sync()

	// 巡检脚本只读写既有表，不做迁移
	db, err := database.InitDB(&cfg.Database, false)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("初始化 Redis 失败: %v", err)
	}

	courseRepo := repository.NewCourseRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	contentRepo := repository.NewContentRepository(db)
	integrity := service.NewIntegrityService(sessionRepo, contentRepo, &cfg, rdb)

	since := time.Now().AddDate(0, 0, -*days)
	page := 1
	swept, flagged := 0, 0
	for {
		courses, _, err := courseRepo.List(page, 100)
		if err != nil {
			log.Fatalf("读取课程列表失败: %v", err)
		}
		if len(courses) == 0 {
			break
		}
		for _, course := range courses {
			result, err := integrity.SweepCourse(course.ID, since)
			if err != nil {
				log.Printf("课程 %d 巡检失败: %v", course.ID, err)
				continue
			}
			swept += result.Scored
			flagged += result.Flagged
		}
		page++
	}

	log.Printf("全量巡检完成: 评分会话 %d，标记可疑 %d", swept, flagged)
}
