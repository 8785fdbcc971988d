package formengine

import (
	"strconv"
	"strings"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// Submission — отправленные значения, ключованные идентификаторами полей.
// Files содержит пути уже сохранённых файлов (сохранение выполняет вызывающий).
type Submission struct {
	Values map[string][]string
	Files  map[string]string
}

// first возвращает первое отправленное значение поля
func (s *Submission) first(fieldID string) (string, bool) {
	vals, ok := s.Values[fieldID]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Decode восстанавливает ноль или один ответ на каждый вопрос.
// Обязательность вопроса здесь только советующая: отсутствие значения
// для required-вопроса не является ошибкой, ответ просто не создается.
// Невалидные ID опций молча пропускаются на уровне отдельного вопроса.
// Функция чистая: ответы не персистятся, это делает вызывающий в транзакции.
func Decode(questions []entity.Question, sub Submission) []entity.Answer {
	answers := make([]entity.Answer, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		if answer, ok := decodeOne(q, sub); ok {
			answers = append(answers, answer)
		}
	}

	return answers
}

func decodeOne(q *entity.Question, sub Submission) (entity.Answer, bool) {
	fieldID := FieldID(q.ID)
	spec := specFor(q.Type)

	switch spec.kind {
	case valueSingleOption:
		raw, ok := sub.first(fieldID)
		if !ok || raw == "" {
			return entity.Answer{}, false
		}
		opt := resolveOption(q, raw)
		if opt == nil {
			// ID не принадлежит вопросу — ответ не создается, отправка продолжается
			return entity.Answer{}, false
		}
		return entity.Answer{
			QuestionID:      q.ID,
			SelectedOptions: []entity.Option{*opt},
		}, true

	case valueMultiOption:
		selected := make([]entity.Option, 0, len(sub.Values[fieldID]))
		for _, raw := range sub.Values[fieldID] {
			if opt := resolveOption(q, raw); opt != nil {
				selected = append(selected, *opt)
			}
		}
		if len(selected) == 0 {
			return entity.Answer{}, false
		}
		return entity.Answer{
			QuestionID:      q.ID,
			SelectedOptions: selected,
		}, true

	case valueFile:
		path, ok := sub.Files[fieldID]
		if !ok || path == "" {
			return entity.Answer{}, false
		}
		return entity.Answer{
			QuestionID: q.ID,
			FileUpload: path,
		}, true

	default: // valueText: short_text, long_text, date, time, linear_scale
		raw, ok := sub.first(fieldID)
		if !ok {
			return entity.Answer{}, false
		}
		text := strings.TrimSpace(raw)
		if text == "" {
			return entity.Answer{}, false
		}
		return entity.Answer{
			QuestionID: q.ID,
			AnswerText: text,
		}, true
	}
}

// resolveOption переводит отправленное значение в опцию вопроса.
// Возвращает nil для нечисловых значений и чужих ID.
func resolveOption(q *entity.Question, raw string) *entity.Option {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	return q.FindOption(uint(id))
}
