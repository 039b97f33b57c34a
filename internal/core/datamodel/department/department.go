package department

type Department struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"column:name;uniqueIndex;not null"`
}

func (Department) TableName() string {
	return "departments"
}
