package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mozillazg/go-pinyin"
	"github.com/shiftsense-dev/shiftsense/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

// GenerateCodeFromChineseName 用姓名拼音生成员工工号，再补一个序号保证唯一
func GenerateCodeFromChineseName(chineseName string, seq int) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	return fmt.Sprintf("%s%03d", strings.ToUpper(strings.Join(pinyinArray, "")), seq)
}

var employmentTypes = []domain.EmploymentType{
	domain.EmploymentFullTime,
	domain.EmploymentPartTime,
	domain.EmploymentCasual,
}

// GenerateRandomEmployee 生成一个随机员工，工作日默认全天可用
func GenerateRandomEmployee(orgID, roleID int64, seq int) *domain.Employee {
	fullName := GenerateRandomChineseName()
	nameRunes := []rune(fullName)

	e := &domain.Employee{
		OrgID:          orgID,
		RoleID:         roleID,
		Code:           GenerateCodeFromChineseName(fullName, seq),
		FirstName:      string(nameRunes[1:]),
		LastName:       string(nameRunes[:1]),
		EmploymentType: employmentTypes[rand.Intn(len(employmentTypes))],
		HourlyCost:     20 + float64(rand.Intn(200))/10, // 20.0 ~ 39.9
		MaxWeeklyHours: int32(rand.Intn(4)*8 + 16),      // 16 / 24 / 32 / 40
	}

	for weekday := int32(1); weekday <= 5; weekday++ {
		e.Availabilities = append(e.Availabilities, domain.Availability{
			Weekday:   weekday,
			StartTime: "08:00",
			EndTime:   "22:00",
		})
	}

	return e
}

// GenerateRandomDemandTemplate 生成某个星期几的随机需求模板
func GenerateRandomDemandTemplate(locationID, roleID int64, weekday int32) *domain.ShiftDemandTemplate {
	startHour := rand.Intn(12) + 6 // 06:00 ~ 17:00 开始
	duration := rand.Intn(6) + 3   // 3 ~ 8 小时

	return &domain.ShiftDemandTemplate{
		LocationID: locationID,
		RoleID:     roleID,
		Weekday:    weekday,
		StartTime:  fmt.Sprintf("%02d:00", startHour),
		EndTime:    fmt.Sprintf("%02d:00", startHour+duration),
		Required:   int32(rand.Intn(3) + 1),
	}
}
