package feedback

import (
	"time"

	"gorm.io/gorm"
)

// ownedSiteIDs is a subquery selecting the ids of an account's sites.
func ownedSiteIDs(db *gorm.DB, userID string) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).Table("sites").Select("id").Where("user_id = ?", userID)
}

// CountForOwnerSince counts feedback across all of the account's sites created at or after since.
func CountForOwnerSince(db *gorm.DB, userID string, since time.Time) (int64, error) {
	var n int64
	err := db.Model(&Feedback{}).
		Where("site_id IN (?) AND created_at >= ?", ownedSiteIDs(db, userID), since).
		Count(&n).Error
	return n, err
}

// FindOwned loads one feedback entry if it belongs to one of the account's sites.
func FindOwned(db *gorm.DB, id, userID string) (Feedback, error) {
	var f Feedback
	err := db.Where("id = ? AND site_id IN (?)", id, ownedSiteIDs(db, userID)).First(&f).Error
	return f, err
}

func ListForSite(db *gorm.DB, siteID string) ([]Feedback, error) {
	items := []Feedback{}
	err := db.Where("site_id = ?", siteID).Order("created_at DESC").Find(&items).Error
	return items, err
}
