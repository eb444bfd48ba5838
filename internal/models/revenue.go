package models

// Revenue is a precomputed monthly total. It is never derived from invoices.
type Revenue struct {
	Month   string `gorm:"type:varchar(4);primaryKey" json:"month"`
	Revenue int64  `gorm:"not null" json:"revenue"`
}

func (Revenue) TableName() string {
	return "revenue"
}
