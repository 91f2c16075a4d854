package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	DonorKeyPrefix       = "donor:%d"
	DonorPhoneKeyPrefix  = "donor:phone:%s"
	StudentKeyPrefix     = "student:%d"
	ApplicationKeyPrefix = "application:%d"
	SettingKeyPrefix     = "setting:%s"
	PublicStudentsKey    = "public:students"
	DashboardReportKey   = "report:dashboard"
)

const (
	DonorTTL          = 5 * time.Minute
	StudentTTL        = 5 * time.Minute
	ApplicationTTL    = 2 * time.Minute
	SettingTTL        = 10 * time.Minute
	PublicStudentsTTL = 2 * time.Minute
	ReportTTL         = 1 * time.Minute
)

func DonorKey(donorID uint) string {
	return fmt.Sprintf(DonorKeyPrefix, donorID)
}

func DonorPhoneKey(phone string) string {
	return fmt.Sprintf(DonorPhoneKeyPrefix, phone)
}

func StudentKey(studentID uint) string {
	return fmt.Sprintf(StudentKeyPrefix, studentID)
}

func ApplicationKey(applicationID uint) string {
	return fmt.Sprintf(ApplicationKeyPrefix, applicationID)
}

func SettingKey(key string) string {
	return fmt.Sprintf(SettingKeyPrefix, key)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateDonor(ctx context.Context, donorID uint, phone string) {
	Invalidate(ctx, DonorKey(donorID))
	if phone != "" {
		Invalidate(ctx, DonorPhoneKey(phone))
	}
}

func InvalidateStudent(ctx context.Context, studentID uint) {
	Invalidate(ctx, StudentKey(studentID))
	Invalidate(ctx, PublicStudentsKey)
}

func InvalidateApplication(ctx context.Context, applicationID uint) {
	Invalidate(ctx, ApplicationKey(applicationID))
}

func InvalidateSetting(ctx context.Context, key string) {
	Invalidate(ctx, SettingKey(key))
}

func InvalidateReports(ctx context.Context) {
	Invalidate(ctx, DashboardReportKey)
}
