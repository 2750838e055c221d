package site

import "gorm.io/gorm"

// FindOwned loads a site only if it belongs to userID.
func FindOwned(db *gorm.DB, id, userID string) (Site, error) {
	var s Site
	err := db.Where("id = ? AND user_id = ?", id, userID).First(&s).Error
	return s, err
}

func ListForUser(db *gorm.DB, userID string) ([]Site, error) {
	out := []Site{}
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func CountForUser(db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.Model(&Site{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}
