package domain

import "time"

// Organization 是整个系统的租户根，所有查询都以 org 为范围
type Organization struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"createdAt"`
}

type Location struct {
	ID    int64  `json:"id"`
	OrgID int64  `json:"orgID"`
	Name  string `json:"name"`
}

type Role struct {
	ID    int64  `json:"id"`
	OrgID int64  `json:"orgID"`
	Name  string `json:"name"`
}
