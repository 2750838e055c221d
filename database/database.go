package database

import (
	"fmt"
	"time"

	"quickfeedback/internal/domain/billing"
	"quickfeedback/internal/domain/feedback"
	"quickfeedback/internal/domain/site"
	"quickfeedback/internal/domain/users"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDB opens the PostgreSQL pool and installs it as DB.
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	DB = db
	return db, nil
}

// Models lists every persisted domain model.
func Models() []interface{} {
	return []interface{}{
		&users.User{},
		&users.VerificationToken{},
		&site.Site{},
		&feedback.Feedback{},
		&billing.Subscription{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// SupportsRowLocks reports whether SELECT ... FOR UPDATE is available on db.
func SupportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}

// LockUser loads the account row, holding a row lock until tx ends where the
// dialect supports it. Writers that count-then-insert against plan limits take
// this lock first so concurrent requests for one account run one at a time.
func LockUser(tx *gorm.DB, id string) (users.User, error) {
	var u users.User
	q := tx
	if SupportsRowLocks(tx) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.First(&u, "id = ?", id).Error
	return u, err
}
