package migration

import (
	"github.com/mediblog/mediblog-backend/internal/domain"
	"gorm.io/gorm"
)

// Run creates all tables via AutoMigrate and seeds reference data.
// Safe to run multiple times (AutoMigrate is idempotent).
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Post{},
		&domain.UserRole{},
		&domain.Category{},
		&domain.PostCategory{},
	); err != nil {
		return err
	}

	if err := createRoleFunction(db); err != nil {
		return err
	}

	return seedCategories(db)
}

// createRoleFunction installs the get_user_role database function, the
// preferred role-resolution path. Only MySQL gets it; other dialects
// (sqlite in tests) rely on the resolver's table-query fallback.
func createRoleFunction(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}
	if err := db.Exec("DROP FUNCTION IF EXISTS get_user_role").Error; err != nil {
		return err
	}
	return db.Exec(`CREATE FUNCTION get_user_role(uid VARCHAR(36))
		RETURNS VARCHAR(20) READS SQL DATA
		RETURN (SELECT role FROM user_roles WHERE user_id = uid ORDER BY created_at DESC LIMIT 1)`).Error
}

// seedCategories inserts the default topic list when the table is empty
func seedCategories(db *gorm.DB) error {
	var count int64
	db.Model(&domain.Category{}).Count(&count)
	if count > 0 {
		return nil
	}

	strPtr := func(s string) *string { return &s }

	categories := []domain.Category{
		{Name: "General Health", Slug: "general-health", Description: strPtr("Everyday health and wellbeing")},
		{Name: "Nutrition", Slug: "nutrition", Description: strPtr("Diet, supplements and healthy eating")},
		{Name: "Mental Health", Slug: "mental-health", Description: strPtr("Mental wellbeing and stress management")},
		{Name: "Preventive Care", Slug: "preventive-care", Description: strPtr("Screenings, vaccinations and prevention")},
		{Name: "Chronic Conditions", Slug: "chronic-conditions", Description: strPtr("Living with long-term conditions")},
	}
	return db.Create(&categories).Error
}
