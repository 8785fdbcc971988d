package formengine

import (
	"strconv"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// Подпись placeholder-опции для dropdown
const dropdownPlaceholder = "--- Select ---"

// Choice — одна выбираемая пара (значение, подпись) поля
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field — описание одного элемента ввода публичной формы.
// Рендеринг выполняет фронтенд; здесь только структура.
type Field struct {
	ID         string   `json:"id"` // question_<id>
	QuestionID uint     `json:"question_id"`
	Label      string   `json:"label"`
	HelpText   string   `json:"help_text,omitempty"`
	Type       string   `json:"type"`
	Control    string   `json:"control"`
	Required   bool     `json:"required"`
	Multiple   bool     `json:"multiple,omitempty"`
	Choices    []Choice `json:"choices,omitempty"`

	// Подписи концов шкалы, только для linear_scale. Советующий текст,
	// не выбираемые значения.
	ScaleMinLabel string `json:"scale_min_label,omitempty"`
	ScaleMaxLabel string `json:"scale_max_label,omitempty"`
}

// BuildFields синтезирует по одному полю на вопрос.
// Чистая функция: читает вопросы и опции, ничего не пишет и не падает —
// некорректные границы шкалы молча заменяются дефолтом [1,5].
func BuildFields(questions []entity.Question) []Field {
	fields := make([]Field, 0, len(questions))
	for i := range questions {
		fields = append(fields, buildField(&questions[i]))
	}
	return fields
}

func buildField(q *entity.Question) Field {
	spec := specFor(q.Type)

	field := Field{
		ID:         FieldID(q.ID),
		QuestionID: q.ID,
		Label:      q.Text,
		HelpText:   q.HelpText,
		Type:       q.Type,
		Control:    spec.control,
		Required:   q.IsRequired,
		Multiple:   spec.kind == valueMultiOption,
	}

	switch {
	case spec.hasOptions:
		choices := make([]Choice, 0, len(q.Options)+1)
		if q.Type == entity.QuestionTypeDropdown {
			// Псевдо-опция "ещё не выбрано"; пустое значение не декодируется в ответ
			choices = append(choices, Choice{Value: "", Label: dropdownPlaceholder})
		}
		for _, opt := range q.Options {
			choices = append(choices, Choice{
				Value: strconv.FormatUint(uint64(opt.ID), 10),
				Label: opt.Text,
			})
		}
		field.Choices = choices

	case spec.isScale:
		min, max := q.ScaleBounds()
		choices := make([]Choice, 0, max-min+1)
		for i := min; i <= max; i++ {
			v := strconv.Itoa(i)
			choices = append(choices, Choice{Value: v, Label: v})
		}
		field.Choices = choices
		field.ScaleMinLabel = q.ScaleMinLabel
		field.ScaleMaxLabel = q.ScaleMaxLabel
	}

	return field
}
