package formengine

import (
	"strconv"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

// TextSampleLimit — сколько текстовых ответов попадает в выборку агрегата
const TextSampleLimit = 10

// Виды агрегатов для рендеринга
const (
	AggregateChart = "chart"
	AggregateText  = "text"
)

// QuestionAggregate — агрегат по одному вопросу.
// Только сырые счётчики и выборки, без процентов и нормализации.
type QuestionAggregate struct {
	QuestionID uint             `json:"question_id"`
	Question   string           `json:"question"`
	Kind       string           `json:"type"`
	Counts     map[string]int64 `json:"data,omitempty"`
	Answers    []string         `json:"answers,omitempty"`
}

// AnswerSource — операции чтения, нужные табулятору.
// Реализуется repository.ResponseRepository.
type AnswerSource interface {
	CountAnswersByOption(optionID uint) (int64, error)
	CountAnswersByText(questionID uint, text string) (int64, error)
	GetTextAnswers(questionID uint, limit int) ([]string, error)
}

// Tabulate строит по одному агрегату на вопрос. Только чтение, идемпотентно;
// вопрос без ответов дает нулевые счётчики либо пустую выборку.
// Ответ с несколькими выбранными опциями учитывается в каждом счётчике.
func Tabulate(questions []entity.Question, src AnswerSource) ([]QuestionAggregate, error) {
	aggregates := make([]QuestionAggregate, 0, len(questions))

	for i := range questions {
		q := &questions[i]
		agg, err := tabulateOne(q, src)
		if err != nil {
			return nil, err
		}
		aggregates = append(aggregates, agg)
	}

	return aggregates, nil
}

func tabulateOne(q *entity.Question, src AnswerSource) (QuestionAggregate, error) {
	spec := specFor(q.Type)

	switch {
	case spec.hasOptions:
		counts := make(map[string]int64, len(q.Options))
		for _, opt := range q.Options {
			count, err := src.CountAnswersByOption(opt.ID)
			if err != nil {
				return QuestionAggregate{}, err
			}
			counts[opt.Text] = count
		}
		return QuestionAggregate{
			QuestionID: q.ID,
			Question:   q.Text,
			Kind:       AggregateChart,
			Counts:     counts,
		}, nil

	case spec.isScale:
		min, max := q.ScaleBounds()
		counts := make(map[string]int64, max-min+1)
		for i := min; i <= max; i++ {
			key := strconv.Itoa(i)
			count, err := src.CountAnswersByText(q.ID, key)
			if err != nil {
				return QuestionAggregate{}, err
			}
			counts[key] = count
		}
		return QuestionAggregate{
			QuestionID: q.ID,
			Question:   q.Text,
			Kind:       AggregateChart,
			Counts:     counts,
		}, nil

	default:
		texts, err := src.GetTextAnswers(q.ID, TextSampleLimit)
		if err != nil {
			return QuestionAggregate{}, err
		}
		if texts == nil {
			texts = []string{}
		}
		return QuestionAggregate{
			QuestionID: q.ID,
			Question:   q.Text,
			Kind:       AggregateText,
			Answers:    texts,
		}, nil
	}
}
