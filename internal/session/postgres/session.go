package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/satriadw/hrm-portal/internal/session"
)

// sessionModel is the gorm mapping of a persisted session.
type sessionModel struct {
	ID                string `gorm:"primaryKey"`
	UserID            int64
	Username          string
	DisplayName       string
	EmployeeID        *int64
	Role              string
	Status            string
	EncryptedAPIToken string
	CreatedAt         time.Time
}

func (sessionModel) TableName() string {
	return "sessions"
}

// SessionRepository implements session.Repository using GORM.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) session.Repository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, p *session.Persisted) error {
	return r.db.WithContext(ctx).Create(&sessionModel{
		ID:                p.ID,
		UserID:            p.UserID,
		Username:          p.Username,
		DisplayName:       p.DisplayName,
		EmployeeID:        p.EmployeeID,
		Role:              p.Role,
		Status:            p.Status,
		EncryptedAPIToken: p.EncryptedAPIToken,
		CreatedAt:         p.CreatedAt,
	}).Error
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&sessionModel{}).Error
}

func (r *SessionRepository) LoadAll(ctx context.Context) ([]*session.Persisted, error) {
	var models []sessionModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}

	persisted := make([]*session.Persisted, 0, len(models))
	for _, m := range models {
		persisted = append(persisted, &session.Persisted{
			ID:                m.ID,
			UserID:            m.UserID,
			Username:          m.Username,
			DisplayName:       m.DisplayName,
			EmployeeID:        m.EmployeeID,
			Role:              m.Role,
			Status:            m.Status,
			EncryptedAPIToken: m.EncryptedAPIToken,
			CreatedAt:         m.CreatedAt,
		})
	}
	return persisted, nil
}

// Migrate creates the sessions table for test databases; production schemas
// come from the goose migrations under db/migrations.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&sessionModel{})
}
