package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/config"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/seed"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机员工, 2: 插入随机科室, 3: 插入随机病人, 4: 插入随机物资, 5: 插入真实员工数据)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的员工数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				staff, err := utils.GenerateRandomStaff(cfg.Seed.Staff.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机员工", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateStaff(staff); err != nil {
					slog.Error("无法插入员工", slog.String("error", err.Error()))
					continue
				}

				// 顺带为新员工插入每周的上班时段
				for _, timing := range utils.GenerateRandomShiftTimings(staff.ID) {
					if err := repo.CreateShiftTiming(timing); err != nil {
						slog.Error("无法插入上班时段", slog.String("error", err.Error()))
					}
				}

				cnt--
			}

			slog.Info("插入员工成功", slog.Int("count", n-cnt))
		}
	case 2:
		if n <= 0 {
			slog.Error("请输入合法的科室数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				room := utils.GenerateRandomRoom(int32(101 + i))
				if err := repo.CreateRoom(room); err != nil {
					slog.Error("无法插入科室", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入科室成功", slog.Int("count", n-cnt))
		}
	case 3:
		if n <= 0 {
			slog.Error("请输入合法的病人数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				patient := utils.GenerateRandomPatient()
				if err := repo.CreatePatient(patient); err != nil {
					slog.Error("无法插入病人", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入病人成功", slog.Int("count", n-cnt))
		}
	case 4:
		if n <= 0 {
			slog.Error("请输入合法的物资数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				item := utils.GenerateRandomInventoryItem()
				if err := repo.CreateInventoryItem(item); err != nil {
					slog.Error("无法插入物资", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入物资成功", slog.Int("count", n-cnt))
		}
	case 5:
		seed.SeedRealData(repo)
	default:
		slog.Error("指定的操作非法")
	}
}
