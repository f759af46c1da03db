package seed

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/repository"
)

// 表头中带 "-" 的列是上班时段，单元格内容是该时段适用的星期几（如 "1, 3, 5"）
var shiftHeaderMap = map[string]struct {
	StartTime string
	EndTime   string
}{
	"08：00-12：00": {StartTime: "08:00:00", EndTime: "12:00:00"},
	"12：00-18：00": {StartTime: "12:00:00", EndTime: "18:00:00"},
	"18：00-22：00": {StartTime: "18:00:00", EndTime: "22:00:00"},
}

// SeedRealData 从 csv 中导入真实的员工名单及其每周固定上班时段
func SeedRealData(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/staff.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	headers, err := reader.Read()
	if err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	shiftHeaderArray := []string{}
	infoHeaderArray := []string{}
	for _, header := range headers {
		if strings.Contains(header, "-") {
			// 表示这列是某个上班时段
			shiftHeaderArray = append(shiftHeaderArray, header)
		} else {
			// 表示这个是信息列
			infoHeaderArray = append(infoHeaderArray, header)
		}
	}

	if len(shiftHeaderArray) == 0 || len(infoHeaderArray) == 0 {
		slog.Error("没有找到时段列或信息列")
		return
	}
	for _, header := range shiftHeaderArray {
		if _, ok := shiftHeaderMap[header]; !ok {
			slog.Error("未知的时段列", "header", header)
			return
		}
	}

	// 读取数据
	var records []map[string]string
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		record := make(map[string]string)
		for i, value := range row {
			record[headers[i]] = value
		}
		records = append(records, record)
	}

	// 插入员工及其上班时段到数据库中
	for _, record := range records {
		// 先尝试获取员工
		username := record["工号"]
		if username == "" {
			slog.Error("没有找到工号", "record", record)
			continue
		}

		staff, err := r.GetStaffByUsername(username)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				// 表示该员工不在数据库中，需要新建并插入
				staff = &domain.Staff{
					Username:     username,
					PasswordHash: "$2a$10$aUTaWl3vmXuQFocBkb9Qx.YJPAzNoaAcj2VC5tI45l1Roh24meCgO", // hospital@test8403
					FullName:     record["姓名"],
					Email:        record["邮箱"],
					Role:         domain.Role(record["角色"]),
				}

				if err := r.CreateStaff(staff); err != nil {
					slog.Error("插入员工失败", "error", err)
					continue
				}
			default:
				slog.Error("获取员工失败", "error", err)
				continue
			}
		}

		// 插入上班时段
		for _, shiftHeader := range shiftHeaderArray {
			window := shiftHeaderMap[shiftHeader]

			for _, day := range strings.Split(record[shiftHeader], ", ") {
				if day == "" {
					continue
				}

				dayInt, err := strconv.Atoi(day)
				if err != nil {
					slog.Error("转换天数失败", "day", day)
					continue
				}

				timing := &domain.ShiftTiming{
					StaffID:     staff.ID,
					Day:         int32(dayInt),
					StartTime:   window.StartTime,
					EndTime:     window.EndTime,
					IsAvailable: true,
				}

				if err := r.CreateShiftTiming(timing); err != nil {
					slog.Error("插入上班时段失败", "error", err)
					continue
				}
			}
		}
	}

	slog.Info("插入数据完成")
}
