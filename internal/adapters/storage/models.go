package storage

import "time"

// RepoModel is the GORM model for repos table
type RepoModel struct {
	CreatedAt      time.Time
	Initialized    bool   `gorm:"not null;default:false"`
	ShadowIsDirty  bool   `gorm:"not null;default:false"`
	ShadowRepoRoot string `gorm:"not null;default:''"`
	SourceRepoRoot string `gorm:"primaryKey"`
	SyncClock      string `gorm:"not null;default:''"`
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (RepoModel) TableName() string { return "repos" }

// ShadowRootModel maps a shadow subtree root to the source revision it was broken off from
type ShadowRootModel struct {
	CreatedAt      time.Time
	ShadowHash     string `gorm:"primaryKey"`
	SourceHash     string `gorm:"not null"`
	SourceRepoRoot string `gorm:"primaryKey;index:idx_shadow_roots_repo"`
}

// TableName specifies the table name for GORM
func (ShadowRootModel) TableName() string { return "shadow_roots" }
