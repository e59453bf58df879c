package trip

import (
	"strings"
	"time"

	"github.com/Motolog/Motolog/internal/common/validation"
)

// CreateInput 新建行程入参。校验先于任何派生计算和外部调用。
type CreateInput struct {
	UserID             string    `json:"userId" validate:"required"`
	Owner              string    `json:"owner" validate:"required"`
	VehicleID          string    `json:"vehicleId" validate:"required"`
	Brand              string    `json:"brand" validate:"required"`
	Model              string    `json:"model" validate:"required"`
	Color              string    `json:"color"`
	RegistrationNumber string    `json:"registrationNumber"`
	VehicleImage       string    `json:"vehicleImage"`
	StartLocation      string    `json:"startLocation" validate:"required"`
	EndLocation        string    `json:"endLocation" validate:"required"`
	StartTime          time.Time `json:"startTime"`
	EndTime            time.Time `json:"endTime"`
	TripImages         []string  `json:"tripImages"`
	Description        string    `json:"description"`
	Rating             *int      `json:"rating" validate:"omitempty,min=1,max=5"`
}

// UpdateInput 编辑行程入参：nil 字段表示“未提交、保持不变”。
// 端点约定：改了哪个端点就必须提交哪个端点；未提交的端点按存量值处理。
type UpdateInput struct {
	StartLocation *string    `json:"startLocation"`
	EndLocation   *string    `json:"endLocation"`
	StartTime     *time.Time `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	TripImages    []string   `json:"tripImages"`
	Description   *string    `json:"description"`
	Rating        *int       `json:"rating" validate:"omitempty,min=1,max=5"`
}

func (in *CreateInput) validate() error {
	verr := validation.Struct(in)
	if in.StartTime.IsZero() {
		verr.Add("startTime")
	}
	if in.EndTime.IsZero() {
		verr.Add("endTime")
	}
	if !in.StartTime.IsZero() && !in.EndTime.IsZero() && !in.EndTime.After(in.StartTime) {
		verr.Add("endTime")
	}
	return verr.OrNil()
}

// validateAgainst 用存量行程补齐未提交字段后校验时间区间。
func (in *UpdateInput) validateAgainst(current *Trip) error {
	verr := validation.Struct(in)

	start := current.StartTime
	if in.StartTime != nil {
		start = *in.StartTime
	}
	end := current.EndTime
	if in.EndTime != nil {
		end = *in.EndTime
	}
	if !end.After(start) {
		verr.Add("endTime")
	}
	if in.StartLocation != nil && strings.TrimSpace(*in.StartLocation) == "" {
		verr.Add("startLocation")
	}
	if in.EndLocation != nil && strings.TrimSpace(*in.EndLocation) == "" {
		verr.Add("endLocation")
	}
	return verr.OrNil()
}

// filterImageURLs 过滤掉空白的图片地址。
func filterImageURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			out = append(out, u)
		}
	}
	return out
}
