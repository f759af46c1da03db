package utils

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/hospital-ops/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
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

var roles = []domain.Role{
	domain.RoleDoctor,
	domain.RoleNurse,
	domain.RoleTechnician,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomStaff(password string, emailDomainName string) (*domain.Staff, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	staff := &domain.Staff{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return staff, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

func GenerateRandomID(letterLength int, digitLength int) string {
	random_id := make([]rune, letterLength+digitLength)
	for i := range random_id {
		if i < letterLength {
			random_id[i] = letters[rand.Intn(len(letters))]
		} else {
			random_id[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(random_id)
}

// 为某个员工生成一周中随机几天的固定上班时段
func GenerateRandomShiftTimings(staffID int64) []*domain.ShiftTiming {
	days := []int32{1, 2, 3, 4, 5, 6, 7}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(4) + 3 // 每周上 3~6 天班
	timings := make([]*domain.ShiftTiming, 0, n)

	for _, day := range days[:n] {
		startHour := rand.Intn(8) + 6  // 6~13 点上班
		shiftHours := rand.Intn(6) + 4 // 每班 4~9 小时

		timings = append(timings, &domain.ShiftTiming{
			StaffID:     staffID,
			Day:         day,
			StartTime:   fmt.Sprintf("%02d:00:00", startHour),
			EndTime:     fmt.Sprintf("%02d:00:00", startHour+shiftHours),
			IsAvailable: true,
		})
	}

	return timings
}

// 生成一条随机的请假记录，可能落在过去、当前或未来
func GenerateRandomLeave(staffID int64) *domain.Leave {
	offsetDays := rand.Intn(30) - 15
	start := time.Now().AddDate(0, 0, offsetDays)
	length := rand.Intn(5) + 1

	return &domain.Leave{
		StaffID:   staffID,
		StartDate: start,
		EndDate:   start.AddDate(0, 0, length-1),
	}
}

var roomTypes = []string{"诊室", "手术室", "病房", "检验室"}

func GenerateRandomRoom(number int32) *domain.Room {
	roomType := roomTypes[rand.Intn(len(roomTypes))]

	return &domain.Room{
		Number: number,
		Name:   fmt.Sprintf("%s%d", roomType, number),
		Type:   roomType,
		Status: domain.RoomStatusVacant,
	}
}

var bloodGroups = []string{"A", "B", "AB", "O"}
var genders = []string{"男", "女"}

func GenerateRandomPatient() *domain.Patient {
	birthYear := rand.Intn(80) + 1940

	return &domain.Patient{
		FullName:   GenerateRandomChineseName(),
		Gender:     genders[rand.Intn(len(genders))],
		BirthDate:  time.Date(birthYear, time.Month(rand.Intn(12)+1), rand.Intn(28)+1, 0, 0, 0, 0, time.UTC),
		Contact:    "1" + GenerateRandomID(0, 10),
		BloodGroup: bloodGroups[rand.Intn(len(bloodGroups))],
	}
}

var inventoryKinds = []domain.InventoryKind{
	domain.InventoryKindMedicine,
	domain.InventoryKindEquipment,
	domain.InventoryKindBlood,
}

func GenerateRandomInventoryItem() *domain.InventoryItem {
	kind := inventoryKinds[rand.Intn(len(inventoryKinds))]

	return &domain.InventoryItem{
		Kind:         kind,
		Name:         string(kind) + GenerateRandomID(2, 4),
		Manufacturer: "厂商" + GenerateRandomID(3, 2),
		Quantity:     int32(rand.Intn(500) + 10),
	}
}
