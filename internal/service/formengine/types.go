// Package formengine содержит динамическую логику формы: построение полей
// по вопросам, разбор отправленных значений и агрегацию ответов.
// Все три операции управляются одним реестром типов вопросов,
// чтобы ветвления не расходились между собой.
package formengine

import (
	"fmt"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// valueKind определяет, как тип вопроса обрабатывает отправленное значение
type valueKind int

const (
	valueText valueKind = iota
	valueSingleOption
	valueMultiOption
	valueFile
)

// Элементы управления, которые фронтенд рендерит для поля
const (
	ControlText     = "text"
	ControlTextarea = "textarea"
	ControlRadio    = "radio"
	ControlCheckbox = "checkbox"
	ControlSelect   = "select"
	ControlScale    = "scale"
	ControlDate     = "date"
	ControlTime     = "time"
	ControlFile     = "file"
)

// typeSpec описывает поведение одного типа вопроса во всех трёх операциях
type typeSpec struct {
	control    string
	kind       valueKind
	hasOptions bool // опции берутся из question.Options
	isScale    bool // опции синтезируются из диапазона шкалы
}

// registry — единственный источник истины по типам вопросов.
// multiple_choice_grid намеренно получает multi-select семантику
// (см. DESIGN.md): строки сетки схемой не моделируются, сетка
// вырождается в набор отмечаемых опций.
var registry = map[string]typeSpec{
	entity.QuestionTypeShortText:          {control: ControlText, kind: valueText},
	entity.QuestionTypeLongText:           {control: ControlTextarea, kind: valueText},
	entity.QuestionTypeMultipleChoice:     {control: ControlRadio, kind: valueSingleOption, hasOptions: true},
	entity.QuestionTypeCheckboxes:         {control: ControlCheckbox, kind: valueMultiOption, hasOptions: true},
	entity.QuestionTypeDropdown:           {control: ControlSelect, kind: valueSingleOption, hasOptions: true},
	entity.QuestionTypeLinearScale:        {control: ControlScale, kind: valueText, isScale: true},
	entity.QuestionTypeMultipleChoiceGrid: {control: ControlCheckbox, kind: valueMultiOption, hasOptions: true},
	entity.QuestionTypeDate:               {control: ControlDate, kind: valueText},
	entity.QuestionTypeTime:               {control: ControlTime, kind: valueText},
	entity.QuestionTypeFileUpload:         {control: ControlFile, kind: valueFile},
}

// IsValidQuestionType проверяет, входит ли тип в закрытое множество
func IsValidQuestionType(questionType string) bool {
	_, ok := registry[questionType]
	return ok
}

// HasOptions возвращает true для choice-типов, хранящих опции в БД
func HasOptions(questionType string) bool {
	return registry[questionType].hasOptions
}

// specFor возвращает спецификацию типа; неизвестный тип трактуется как short_text,
// чтобы некорректная запись в БД не ломала публичную форму
func specFor(questionType string) typeSpec {
	if spec, ok := registry[questionType]; ok {
		return spec
	}
	return registry[entity.QuestionTypeShortText]
}

// FieldID возвращает стабильный идентификатор поля для вопроса.
// По нему отправленное значение связывается со своим вопросом.
func FieldID(questionID uint) string {
	return fmt.Sprintf("question_%d", questionID)
}
