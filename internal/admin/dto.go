package admin

import (
	"github.com/angelmondragon/babydeals-backend/internal/moderation"
	"github.com/angelmondragon/babydeals-backend/internal/users"
	"github.com/angelmondragon/babydeals-backend/pkg/enums"
)

const recentPendingLimit = 5

// Dashboard is the console landing summary.
type Dashboard struct {
	TotalOffers    int64                  `json:"total_offers"`
	PendingOffers  int64                  `json:"pending_offers"`
	TotalVendors   int64                  `json:"total_vendors"`
	PaidAds        int64                  `json:"paid_ads"`
	TotalUsers     int64                  `json:"total_users"`
	UnreadMessages int64                  `json:"unread_messages"`
	RecentPending  []moderation.QueueItem `json:"recent_pending"`
}

// UserPage is a page of accounts.
type UserPage struct {
	Items      []users.AccountRow `json:"items"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// ChangeRoleInput moves an account between mother and vendor.
type ChangeRoleInput struct {
	Role enums.ProfileRole `json:"role" validate:"required,oneof=mother vendor"`
}

// SuspendInput sets the vendor suspension flag.
type SuspendInput struct {
	Suspended *bool `json:"suspended" validate:"required"`
}
