package models

import "time"

// Follow is a directed edge in the follow graph: UserFollowing follows
// UserBeingFollowed. The pair is the primary key, so the same edge cannot
// exist twice.
type Follow struct {
	UserBeingFollowedID uint      `gorm:"primaryKey;autoIncrement:false" json:"user_being_followed_id"`
	UserFollowingID     uint      `gorm:"primaryKey;autoIncrement:false" json:"user_following_id"`
	CreatedAt           time.Time `json:"created_at"`

	// Relationships
	UserBeingFollowed User `gorm:"foreignKey:UserBeingFollowedID" json:"user_being_followed,omitempty"`
	UserFollowing     User `gorm:"foreignKey:UserFollowingID" json:"user_following,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
