package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"

	"github.com/diancan-dev/waimai/backend/internal/availability"
	"github.com/diancan-dev/waimai/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
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

var roles = []domain.Role{
	domain.RoleCustomer,
	domain.RoleMerchant,
	domain.RoleCourier,
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

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Phone:        GenerateRandomPhone(),
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomPhone() string {
	phone := "1" + string(digits[rand.Intn(6)+3])
	for i := 0; i < 9; i++ {
		phone += string(digits[rand.Intn(len(digits))])
	}
	return phone
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

var merchantNamePrefixes = []string{
	"老王", "阿姨", "川香", "粤味", "湘里", "金牌", "巷口", "半岛", "福记", "好味",
}
var merchantNameSuffixes = []string{
	"烧腊店", "快餐店", "面馆", "粥铺", "炸鸡店", "奶茶店", "饺子馆", "大排档", "小炒店", "甜品屋",
}

func GenerateRandomMerchantName() string {
	return merchantNamePrefixes[rand.Intn(len(merchantNamePrefixes))] +
		merchantNameSuffixes[rand.Intn(len(merchantNameSuffixes))]
}

// GenerateRandomSchedule 生成一份随机但合法的周营业时间表
// 大约四分之一的天会被随机设为休息
func GenerateRandomSchedule() domain.WeeklySchedule {
	openHour := rand.Intn(4) + 7   // 7~10 点开门
	closeHour := rand.Intn(5) + 19 // 19~23 点关门

	schedule := availability.SetUniform(
		fmt.Sprintf("%02d:00", openHour),
		fmt.Sprintf("%02d:00", closeHour),
	)

	for _, key := range domain.DayKeys {
		if rand.Intn(4) == 0 {
			rule := schedule[key]
			rule.IsClosed = true
			schedule[key] = rule
		}
	}

	return schedule
}

// GenerateRandomMerchant 生成一个随机商家，坐标落在广州城区附近
func GenerateRandomMerchant(ownerID int64) *domain.Merchant {
	return &domain.Merchant{
		OwnerID:     ownerID,
		Name:        GenerateRandomMerchantName(),
		Description: "商家简介" + GenerateRandomPassword(8),
		Address:     fmt.Sprintf("新港西路 %d 号", rand.Intn(500)+1),
		Latitude:    23.0 + rand.Float64()*0.2,
		Longitude:   113.2 + rand.Float64()*0.2,
		Phone:       GenerateRandomPhone(),
		Schedule:    GenerateRandomSchedule(),
	}
}

var menuCategoryNames = []string{"招牌", "主食", "小吃", "饮品", "套餐", "夜宵"}
var menuItemNames = []string{
	"叉烧饭", "白切鸡饭", "牛腩面", "云吞面", "艇仔粥", "炒河粉",
	"椒盐鸡翼", "柠檬茶", "烧鹅饭", "豉油鸡饭", "猪脚饭", "煲仔饭",
}

// GenerateRandomMenu 为商家生成随机的菜单分类和菜品
func GenerateRandomMenu(merchantID int64) []*domain.MenuCategory {
	categoryNum := rand.Intn(3) + 2
	categories := make([]*domain.MenuCategory, 0, categoryNum)

	for i := 0; i < categoryNum; i++ {
		category := &domain.MenuCategory{
			MerchantID: merchantID,
			Name:       menuCategoryNames[i%len(menuCategoryNames)],
			SortOrder:  int32(i),
		}

		itemNum := rand.Intn(4) + 2
		for j := 0; j < itemNum; j++ {
			item := domain.MenuItem{
				Name:        menuItemNames[rand.Intn(len(menuItemNames))],
				Description: "菜品简介" + GenerateRandomPassword(6),
				Price:       int64(rand.Intn(4000) + 800), // 8~48 元
				IsAvailable: true,
			}
			if rand.Intn(2) == 0 {
				item.Options = []domain.ItemOption{
					{Name: "大份", ExtraPrice: 300},
					{Name: "加辣", ExtraPrice: 0},
				}
			}
			category.Items = append(category.Items, item)
		}

		categories = append(categories, category)
	}

	return categories
}
