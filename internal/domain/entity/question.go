package entity

import (
	"time"
)

// Типы вопросов. Закрытое множество из десяти значений.
const (
	QuestionTypeShortText          = "short_text"
	QuestionTypeLongText           = "long_text"
	QuestionTypeMultipleChoice     = "multiple_choice"
	QuestionTypeCheckboxes         = "checkboxes"
	QuestionTypeDropdown           = "dropdown"
	QuestionTypeLinearScale        = "linear_scale"
	QuestionTypeMultipleChoiceGrid = "multiple_choice_grid"
	QuestionTypeDate               = "date"
	QuestionTypeTime               = "time"
	QuestionTypeFileUpload         = "file_upload"
)

// Дефолтные границы шкалы для linear_scale
const (
	DefaultScaleMin = 1
	DefaultScaleMax = 5
)

// Question представляет один вопрос формы
type Question struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FormID   uint   `gorm:"not null;index" json:"-"`
	Text     string `gorm:"type:text;not null" json:"text"`
	HelpText string `gorm:"type:text" json:"help_text,omitempty"`
	Type     string `gorm:"column:question_type;size:30;not null" json:"question_type"`

	IsRequired bool `gorm:"not null;default:true" json:"is_required"`
	Order      int  `gorm:"column:display_order;not null;default:0" json:"order"`

	// Поля шкалы. Имеют смысл только для linear_scale.
	ScaleMin      *int   `json:"scale_min,omitempty"`
	ScaleMax      *int   `json:"scale_max,omitempty"`
	ScaleMinLabel string `gorm:"size:100;default:''" json:"scale_min_label,omitempty"`
	ScaleMaxLabel string `gorm:"size:100;default:''" json:"scale_max_label,omitempty"`

	Options []Option `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// ScaleBounds возвращает границы шкалы с фолбэком на [1,5].
// Перевёрнутые или отсутствующие границы молча заменяются дефолтом.
func (q *Question) ScaleBounds() (int, int) {
	min, max := DefaultScaleMin, DefaultScaleMax
	if q.ScaleMin != nil {
		min = *q.ScaleMin
	}
	if q.ScaleMax != nil {
		max = *q.ScaleMax
	}
	if min >= max {
		return DefaultScaleMin, DefaultScaleMax
	}
	return min, max
}

// FindOption возвращает опцию вопроса по ID или nil, если опция не принадлежит вопросу
func (q *Question) FindOption(optionID uint) *Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// Option представляет один вариант ответа для choice-типов вопросов
type Option struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	QuestionID uint   `gorm:"not null;index" json:"-"`
	Text       string `gorm:"size:500;not null" json:"text"`
	Order      int    `gorm:"column:display_order;not null;default:0" json:"order"`
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}
