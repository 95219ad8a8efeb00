package user

import (
	"regexp"
	"unicode"
)

// 用户名：3-20 位字母数字下划线；邮箱：宽松格式检查，不做投递验证
var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	msgUsernameInvalid = "Username must be 3-20 characters of letters, numbers or underscores"
	msgEmailInvalid    = "Email does not appear to be valid"
	msgPasswordWeak    = "Password must be at least 8 characters and contain a letter and a number or symbol"
)

// validNewPassword 密码强度：长度 >= 8，至少一个字母，至少一个非字母字符
func validNewPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	hasLetter, hasOther := false, false
	for _, r := range pw {
		if unicode.IsLetter(r) {
			hasLetter = true
		} else {
			hasOther = true
		}
	}
	return hasLetter && hasOther
}

// validateNewUser 注册校验，收集全部违规字段后一次返回
func validateNewUser(req createRequest) []string {
	var errs []string
	if !usernameRegex.MatchString(req.Username) {
		errs = append(errs, msgUsernameInvalid)
	}
	if !validNewPassword(req.Password) {
		errs = append(errs, msgPasswordWeak)
	}
	if !emailRegex.MatchString(req.Email) {
		errs = append(errs, msgEmailInvalid)
	}
	return errs
}

// validateUserUpdate 更新校验，仅校验请求携带的字段
func validateUserUpdate(req updateRequest) []string {
	var errs []string
	if req.Username != nil && !usernameRegex.MatchString(*req.Username) {
		errs = append(errs, msgUsernameInvalid)
	}
	if req.Password != nil && !validNewPassword(*req.Password) {
		errs = append(errs, msgPasswordWeak)
	}
	if req.Email != nil && !emailRegex.MatchString(*req.Email) {
		errs = append(errs, msgEmailInvalid)
	}
	return errs
}
