package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Допустимые цветовые темы формы
const (
	ThemeBlue   = "blue"
	ThemeRed    = "red"
	ThemeGreen  = "green"
	ThemePurple = "purple"
	ThemeOrange = "orange"
	ThemeTeal   = "teal"
	ThemePink   = "pink"
	ThemeIndigo = "indigo"
	ThemeCustom = "custom"
)

// Themes перечисляет все допустимые значения theme_color
var Themes = []string{
	ThemeBlue, ThemeRed, ThemeGreen, ThemePurple,
	ThemeOrange, ThemeTeal, ThemePink, ThemeIndigo, ThemeCustom,
}

// IsValidTheme проверяет, допустимо ли значение темы
func IsValidTheme(theme string) bool {
	for _, t := range Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Form представляет форму-опрос, принадлежащую одному пользователю.
// Публичный доступ к форме идёт по UUID, внутренний числовой ID наружу не отдается.
type Form struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	UUID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"uuid"`
	UserID      uint      `gorm:"not null;index" json:"-"`
	User        *User     `gorm:"foreignKey:UserID" json:"-"`
	Title       string    `gorm:"size:255;not null;default:'Untitled Form'" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	IsPublished            bool `gorm:"not null;default:false" json:"is_published"`
	AllowMultipleResponses bool `gorm:"not null;default:true" json:"allow_multiple_responses"`
	CollectEmail           bool `gorm:"not null;default:false" json:"collect_email"`
	SendEmailNotifications bool `gorm:"not null;default:true" json:"send_email_notifications"`

	// Окно приёма ответов. Отсутствующая граница означает "без ограничения".
	OpenDate  *time.Time `json:"open_date,omitempty"`
	CloseDate *time.Time `json:"close_date,omitempty"`

	ThemeColor  string `gorm:"size:20;not null;default:'blue'" json:"theme_color"`
	CustomColor string `gorm:"size:7;default:''" json:"custom_color,omitempty"` // hex-код, только для theme_color=custom

	Questions []Question `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	Responses []Response `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Form) TableName() string {
	return "forms"
}

// BeforeCreate генерирует UUID формы, если он не задан
func (f *Form) BeforeCreate(tx *gorm.DB) error {
	if f.UUID == uuid.Nil {
		f.UUID = uuid.New()
	}
	return nil
}

// IsOpen возвращает true, если текущее время попадает в окно [open_date, close_date].
// Отсутствующая граница не ограничивает окно с соответствующей стороны.
func (f *Form) IsOpen() bool {
	return f.IsOpenAt(time.Now())
}

// IsOpenAt проверяет окно приёма ответов для произвольного момента времени
func (f *Form) IsOpenAt(now time.Time) bool {
	if f.OpenDate != nil && now.Before(*f.OpenDate) {
		return false
	}
	if f.CloseDate != nil && now.After(*f.CloseDate) {
		return false
	}
	return true
}

// AcceptsResponses возвращает true, если форма опубликована и открыта
func (f *Form) AcceptsResponses() bool {
	return f.IsPublished && f.IsOpen()
}
