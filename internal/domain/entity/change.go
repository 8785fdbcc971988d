package entity

import (
	"time"
)

// Change — аудит-запись об одной публичной отправке формы.
// В исходной схеме запись не ссылалась ни на форму, ни на ответ;
// здесь добавлены FK, чтобы запись была атрибутируемой (см. DESIGN.md).
type Change struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FormID     uint      `gorm:"not null;index" json:"form_id"`
	ResponseID uint      `gorm:"not null;index" json:"response_id"`
	ChangeDate time.Time `gorm:"type:date;not null;index" json:"change_date"`
}

// TableName определяет имя таблицы для GORM
func (Change) TableName() string {
	return "changes"
}
