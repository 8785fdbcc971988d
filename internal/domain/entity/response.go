package entity

import (
	"strings"
	"time"
)

// Response представляет одну отправку формы респондентом.
// Создается анонимно; доступ на чтение есть только у владельца формы.
type Response struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FormID      uint      `gorm:"not null;index" json:"-"`
	SubmittedAt time.Time `gorm:"not null;index" json:"submitted_at"`

	// Опциональная идентификация респондента
	RespondentName  string `gorm:"size:255;default:''" json:"respondent_name,omitempty"`
	RespondentEmail string `gorm:"size:255;default:''" json:"respondent_email,omitempty"`

	// Метаданные запроса для аудита и анти-абьюза
	IPAddress string `gorm:"size:45;default:''" json:"-"`
	UserAgent string `gorm:"type:text" json:"-"`

	Answers []Answer `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"answers,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (Response) TableName() string {
	return "responses"
}

// Answer представляет ответ на один вопрос в рамках одной отправки.
// Содержательным является ровно одно из трёх: текст, выбранные опции или файл.
type Answer struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ResponseID uint `gorm:"not null;index" json:"-"`
	QuestionID uint `gorm:"not null;index" json:"question_id"`

	AnswerText      string   `gorm:"type:text;default:''" json:"answer_text,omitempty"`
	SelectedOptions []Option `gorm:"many2many:answer_selected_options" json:"selected_options,omitempty"`
	FileUpload      string   `gorm:"size:500;default:''" json:"file_upload,omitempty"` // путь к сохранённому файлу
}

// TableName определяет имя таблицы для GORM
func (Answer) TableName() string {
	return "answers"
}

// DisplayAnswer возвращает человекочитаемое представление ответа
func (a *Answer) DisplayAnswer() string {
	if len(a.SelectedOptions) > 0 {
		texts := make([]string, len(a.SelectedOptions))
		for i, opt := range a.SelectedOptions {
			texts[i] = opt.Text
		}
		return strings.Join(texts, ", ")
	}
	if a.FileUpload != "" {
		return "File: " + a.FileUpload
	}
	if a.AnswerText != "" {
		return a.AnswerText
	}
	return "No answer"
}
