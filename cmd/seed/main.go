package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/shiftsense-dev/shiftsense/backend/internal/config"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
	"github.com/shiftsense-dev/shiftsense/backend/internal/repository"
	"github.com/shiftsense-dev/shiftsense/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 往数据库中写入一个演示 org：一个门店、一个岗位、一批随机员工
// 和工作日的需求模板，方便本地启动后立刻生成并求解排班表。
func main() {
	var employeeCount int
	var required int

	flag.IntVar(&employeeCount, "n", 12, "要插入的随机员工数量")
	flag.IntVar(&required, "required", 2, "工作日每个班次的需求人数")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法加载配置文件", "error", err)
		os.Exit(1)
	}

	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	// 如果演示 org 已存在则不重复写入
	if _, err := repo.ResolveOrgRef(cfg.Seed.OrgSlug); err == nil {
		logger.Info("演示组织已存在，跳过", "slug", cfg.Seed.OrgSlug)
		return
	}

	org := &domain.Organization{
		Name:     "演示门店",
		Slug:     cfg.Seed.OrgSlug,
		Timezone: "Asia/Shanghai",
	}
	if err := repo.CreateOrganization(org); err != nil {
		logger.Error("无法创建演示组织", "error", err)
		return
	}

	location := &domain.Location{OrgID: org.ID, Name: "一号门店"}
	if err := repo.CreateLocation(location); err != nil {
		logger.Error("无法创建门店", "error", err)
		return
	}

	role := &domain.Role{OrgID: org.ID, Name: "店员"}
	if err := repo.CreateRole(role); err != nil {
		logger.Error("无法创建岗位", "error", err)
		return
	}

	for seq := 1; seq <= employeeCount; seq++ {
		e := utils.GenerateRandomEmployee(org.ID, role.ID, seq)
		if err := repo.CreateEmployee(e); err != nil {
			logger.Error("无法创建员工", "error", err, "code", e.Code)
			return
		}
		for i := range e.Availabilities {
			if err := repo.CreateAvailability(e.ID, &e.Availabilities[i]); err != nil {
				logger.Error("无法创建可用时段", "error", err, "code", e.Code)
				return
			}
		}
	}

	// 工作日 09:00-17:00
	for weekday := int32(1); weekday <= 5; weekday++ {
		t := &domain.ShiftDemandTemplate{
			LocationID: location.ID,
			RoleID:     role.ID,
			Weekday:    weekday,
			StartTime:  "09:00",
			EndTime:    "17:00",
			Required:   int32(required),
		}
		if err := repo.CreateDemandTemplate(t); err != nil {
			logger.Error("无法创建需求模板", "error", err, "weekday", weekday)
			return
		}
	}

	// 周末的需求随机生成
	for _, weekday := range []int32{0, 6} {
		t := utils.GenerateRandomDemandTemplate(location.ID, role.ID, weekday)
		if err := repo.CreateDemandTemplate(t); err != nil {
			logger.Error("无法创建需求模板", "error", err, "weekday", weekday)
			return
		}
	}

	logger.Info("演示数据写入完成", "org", org.Slug, "employees", employeeCount)
}
