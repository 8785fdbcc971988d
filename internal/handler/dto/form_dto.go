package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/internal/domain/repository"
	"github.com/yourusername/forms-api/internal/service/formengine"
)

// OptionResponse представляет опцию вопроса в формате для ответа клиенту
type OptionResponse struct {
	ID    uint   `json:"id"`
	Text  string `json:"text"`
	Order int    `json:"order"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID            uint             `json:"id"`
	Text          string           `json:"text"`
	HelpText      string           `json:"help_text,omitempty"`
	Type          string           `json:"question_type"`
	IsRequired    bool             `json:"is_required"`
	Order         int              `json:"order"`
	ScaleMin      *int             `json:"scale_min,omitempty"`
	ScaleMax      *int             `json:"scale_max,omitempty"`
	ScaleMinLabel string           `json:"scale_min_label,omitempty"`
	ScaleMaxLabel string           `json:"scale_max_label,omitempty"`
	Options       []OptionResponse `json:"options,omitempty"`
}

// FormResponse представляет форму в формате для ответа клиенту
type FormResponse struct {
	UUID                   uuid.UUID          `json:"uuid"`
	Title                  string             `json:"title"`
	Description            string             `json:"description,omitempty"`
	IsPublished            bool               `json:"is_published"`
	AllowMultipleResponses bool               `json:"allow_multiple_responses"`
	CollectEmail           bool               `json:"collect_email"`
	SendEmailNotifications bool               `json:"send_email_notifications"`
	OpenDate               *time.Time         `json:"open_date,omitempty"`
	CloseDate              *time.Time         `json:"close_date,omitempty"`
	ThemeColor             string             `json:"theme_color"`
	CustomColor            string             `json:"custom_color,omitempty"`
	Questions              []QuestionResponse `json:"questions,omitempty"`
	ResponseCount          *int64             `json:"response_count,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// DashboardResponse представляет дашборд владельца: формы и сводная статистика
type DashboardResponse struct {
	Forms   []*FormResponse            `json:"forms"`
	Total   int64                      `json:"total"`
	Page    int                        `json:"page"`
	PerPage int                        `json:"per_page"`
	Stats   *repository.DashboardStats `json:"stats,omitempty"`
}

// PublicFormResponse представляет форму глазами респондента:
// синтезированные поля вместо сырых вопросов
type PublicFormResponse struct {
	UUID         uuid.UUID          `json:"uuid"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	ThemeColor   string             `json:"theme_color"`
	CustomColor  string             `json:"custom_color,omitempty"`
	CollectEmail bool               `json:"collect_email"`
	IsOpen       bool               `json:"is_open"`
	Fields       []formengine.Field `json:"fields"`
}

// AnswerResponse представляет один ответ в отправке
type AnswerResponse struct {
	QuestionID uint   `json:"question_id"`
	Display    string `json:"display"`
	FileUpload string `json:"file_upload,omitempty"`
}

// SubmissionResponse представляет одну отправку формы для владельца
type SubmissionResponse struct {
	ID              uint             `json:"id"`
	SubmittedAt     time.Time        `json:"submitted_at"`
	RespondentName  string           `json:"respondent_name,omitempty"`
	RespondentEmail string           `json:"respondent_email,omitempty"`
	Answers         []AnswerResponse `json:"answers,omitempty"`
}

// PaginatedSubmissionsResponse представляет пагинированный список отправок
type PaginatedSubmissionsResponse struct {
	Responses []*SubmissionResponse `json:"responses"`
	Total     int64                 `json:"total"`
	Page      int                   `json:"page"`
	PerPage   int                   `json:"per_page"`
}

// NewOptionResponse создает DTO для опции
func NewOptionResponse(o *entity.Option) OptionResponse {
	return OptionResponse{
		ID:    o.ID,
		Text:  o.Text,
		Order: o.Order,
	}
}

// NewQuestionResponse создает DTO для вопроса
func NewQuestionResponse(q *entity.Question) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i := range q.Options {
		options[i] = NewOptionResponse(&q.Options[i])
	}
	if len(options) == 0 {
		options = nil
	}
	return QuestionResponse{
		ID:            q.ID,
		Text:          q.Text,
		HelpText:      q.HelpText,
		Type:          q.Type,
		IsRequired:    q.IsRequired,
		Order:         q.Order,
		ScaleMin:      q.ScaleMin,
		ScaleMax:      q.ScaleMax,
		ScaleMinLabel: q.ScaleMinLabel,
		ScaleMaxLabel: q.ScaleMaxLabel,
		Options:       options,
	}
}

// NewFormResponse создает DTO для формы
func NewFormResponse(form *entity.Form, includeQuestions bool) *FormResponse {
	if form == nil {
		return nil
	}

	var questions []QuestionResponse
	if includeQuestions {
		questions = make([]QuestionResponse, len(form.Questions))
		for i := range form.Questions {
			questions[i] = NewQuestionResponse(&form.Questions[i])
		}
	}

	return &FormResponse{
		UUID:                   form.UUID,
		Title:                  form.Title,
		Description:            form.Description,
		IsPublished:            form.IsPublished,
		AllowMultipleResponses: form.AllowMultipleResponses,
		CollectEmail:           form.CollectEmail,
		SendEmailNotifications: form.SendEmailNotifications,
		OpenDate:               form.OpenDate,
		CloseDate:              form.CloseDate,
		ThemeColor:             form.ThemeColor,
		CustomColor:            form.CustomColor,
		Questions:              questions,
		CreatedAt:              form.CreatedAt,
		UpdatedAt:              form.UpdatedAt,
	}
}

// NewDashboardResponse создает DTO дашборда из форм с количеством ответов
func NewDashboardResponse(forms []repository.FormWithCount, total int64, page, perPage int, stats *repository.DashboardStats) *DashboardResponse {
	list := make([]*FormResponse, len(forms))
	for i := range forms {
		item := NewFormResponse(&forms[i].Form, false)
		count := forms[i].ResponseCount
		item.ResponseCount = &count
		list[i] = item
	}
	return &DashboardResponse{
		Forms:   list,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Stats:   stats,
	}
}

// NewSubmissionResponse создает DTO одной отправки
func NewSubmissionResponse(r *entity.Response) *SubmissionResponse {
	if r == nil {
		return nil
	}
	answers := make([]AnswerResponse, len(r.Answers))
	for i := range r.Answers {
		answers[i] = AnswerResponse{
			QuestionID: r.Answers[i].QuestionID,
			Display:    r.Answers[i].DisplayAnswer(),
			FileUpload: r.Answers[i].FileUpload,
		}
	}
	if len(answers) == 0 {
		answers = nil
	}
	return &SubmissionResponse{
		ID:              r.ID,
		SubmittedAt:     r.SubmittedAt,
		RespondentName:  r.RespondentName,
		RespondentEmail: r.RespondentEmail,
		Answers:         answers,
	}
}

// NewPaginatedSubmissionsResponse создает DTO пагинированного списка отправок
func NewPaginatedSubmissionsResponse(responses []entity.Response, total int64, page, perPage int) *PaginatedSubmissionsResponse {
	list := make([]*SubmissionResponse, len(responses))
	for i := range responses {
		list[i] = NewSubmissionResponse(&responses[i])
	}
	return &PaginatedSubmissionsResponse{
		Responses: list,
		Total:     total,
		Page:      page,
		PerPage:   perPage,
	}
}
