package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"staffhub/internal/model"
	"staffhub/pkg/daterange"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验引擎注册自定义标签，重复调用安全
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		// 错误中的字段名使用 json/form 标签
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, key := range []string{"json", "form"} {
				name := strings.Split(f.Tag.Get(key), ",")[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})

		_ = v.RegisterValidation("date_ymd", validateDate)
		_ = v.RegisterValidation("project_status", validateProjectStatus)
		_ = v.RegisterValidation("user_role", validateRole)
		_ = v.RegisterValidation("experience_level", validateExperienceLevel)
		_ = v.RegisterValidation("availability_status", validateAvailability)
	})
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(daterange.Layout, fl.Field().String())
	return err == nil
}

func validateProjectStatus(fl validator.FieldLevel) bool {
	return model.ValidProjectStatus(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := model.ParseRole(fl.Field().String())
	return ok
}

func validateExperienceLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.ExperienceJunior, model.ExperienceMid, model.ExperienceSenior:
		return true
	}
	return false
}

func validateAvailability(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case model.AvailabilityAvailable, model.AvailabilityAssigned, model.AvailabilityOnLeave:
		return true
	}
	return false
}

// DescribeBindError 将绑定错误转为 (字段, 说明)，非字段级错误的字段为空
func DescribeBindError(err error) (string, string) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "", "请求体格式错误"
	}

	fe := ve[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field, fmt.Sprintf("%s是必填字段", field)
	case "min":
		return field, fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "max":
		return field, fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "gte":
		return field, fmt.Sprintf("%s不能小于%s", field, fe.Param())
	case "lte":
		return field, fmt.Sprintf("%s不能大于%s", field, fe.Param())
	case "email":
		return field, fmt.Sprintf("%s必须是有效的邮箱地址", field)
	case "uuid":
		return field, fmt.Sprintf("%s必须是有效的 UUID", field)
	case "date_ymd":
		return field, fmt.Sprintf("%s必须是 YYYY-MM-DD 格式的日期", field)
	case "project_status":
		return field, fmt.Sprintf("%s必须是 %s / %s / %s 之一", field,
			model.ProjectStatusPlanned, model.ProjectStatusInProgress, model.ProjectStatusCompleted)
	case "user_role":
		return field, fmt.Sprintf("%s必须是 engineer / manager / admin 之一", field)
	default:
		return field, fmt.Sprintf("%s校验失败: %s", field, fe.Tag())
	}
}
