package formengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/forms-api/internal/domain/entity"
)

func intPtr(v int) *int { return &v }

func TestBuildFields_ShortText(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{ID: 7, Text: "Ваше имя?", Type: entity.QuestionTypeShortText, IsRequired: true, HelpText: "Полное имя"},
	}

	// Act
	fields := BuildFields(questions)

	// Assert
	require.Len(t, fields, 1)
	assert.Equal(t, "question_7", fields[0].ID, "идентификатор поля должен быть стабильным")
	assert.Equal(t, "Ваше имя?", fields[0].Label)
	assert.Equal(t, "Полное имя", fields[0].HelpText)
	assert.Equal(t, ControlText, fields[0].Control)
	assert.True(t, fields[0].Required)
	assert.Empty(t, fields[0].Choices)
}

func TestBuildFields_LongTextUsesTextarea(t *testing.T) {
	fields := BuildFields([]entity.Question{{ID: 1, Type: entity.QuestionTypeLongText}})
	require.Len(t, fields, 1)
	assert.Equal(t, ControlTextarea, fields[0].Control)
}

func TestBuildFields_MultipleChoice(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{
			ID:   3,
			Text: "Любимый цвет?",
			Type: entity.QuestionTypeMultipleChoice,
			Options: []entity.Option{
				{ID: 30, Text: "Красный"},
				{ID: 31, Text: "Синий"},
			},
		},
	}

	// Act
	fields := BuildFields(questions)

	// Assert
	require.Len(t, fields, 1)
	assert.Equal(t, ControlRadio, fields[0].Control)
	assert.False(t, fields[0].Multiple)
	require.Len(t, fields[0].Choices, 2)
	assert.Equal(t, Choice{Value: "30", Label: "Красный"}, fields[0].Choices[0])
	assert.Equal(t, Choice{Value: "31", Label: "Синий"}, fields[0].Choices[1])
}

func TestBuildFields_DropdownInjectsPlaceholder(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{
			ID:      4,
			Type:    entity.QuestionTypeDropdown,
			Options: []entity.Option{{ID: 40, Text: "Да"}},
		},
	}

	// Act
	fields := BuildFields(questions)

	// Assert: первой идет псевдо-опция с пустым значением
	require.Len(t, fields, 1)
	require.Len(t, fields[0].Choices, 2)
	assert.Equal(t, "", fields[0].Choices[0].Value, "placeholder должен иметь пустое значение")
	assert.Equal(t, "--- Select ---", fields[0].Choices[0].Label)
	assert.Equal(t, "40", fields[0].Choices[1].Value)
}

func TestBuildFields_CheckboxesIsMultiple(t *testing.T) {
	fields := BuildFields([]entity.Question{{
		ID:      5,
		Type:    entity.QuestionTypeCheckboxes,
		Options: []entity.Option{{ID: 50, Text: "A"}},
	}})
	require.Len(t, fields, 1)
	assert.Equal(t, ControlCheckbox, fields[0].Control)
	assert.True(t, fields[0].Multiple)
}

func TestBuildFields_LinearScaleDefaultBounds(t *testing.T) {
	// Arrange: границы не заданы — должен использоваться дефолт [1,5]
	questions := []entity.Question{
		{ID: 6, Type: entity.QuestionTypeLinearScale, ScaleMinLabel: "Плохо", ScaleMaxLabel: "Отлично"},
	}

	// Act
	fields := BuildFields(questions)

	// Assert
	require.Len(t, fields, 1)
	require.Len(t, fields[0].Choices, 5, "шкала по умолчанию предлагает ровно {1..5}")
	for i, choice := range fields[0].Choices {
		expected := []string{"1", "2", "3", "4", "5"}[i]
		assert.Equal(t, expected, choice.Value)
		assert.Equal(t, expected, choice.Label)
	}
	assert.Equal(t, "Плохо", fields[0].ScaleMinLabel)
	assert.Equal(t, "Отлично", fields[0].ScaleMaxLabel)
}

func TestBuildFields_LinearScaleExplicitBounds(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{ID: 6, Type: entity.QuestionTypeLinearScale, ScaleMin: intPtr(1), ScaleMax: intPtr(5)},
	}

	// Act
	fields := BuildFields(questions)

	// Assert
	require.Len(t, fields, 1)
	values := make([]string, 0, len(fields[0].Choices))
	for _, c := range fields[0].Choices {
		values = append(values, c.Value)
	}
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, values)
}

func TestBuildFields_MalformedScaleFallsBack(t *testing.T) {
	// Arrange: перевёрнутые границы — ошибок не возникает, fallback на [1,5]
	questions := []entity.Question{
		{ID: 6, Type: entity.QuestionTypeLinearScale, ScaleMin: intPtr(9), ScaleMax: intPtr(2)},
	}

	// Act
	fields := BuildFields(questions)

	// Assert
	require.Len(t, fields, 1)
	assert.Len(t, fields[0].Choices, 5)
}

func TestBuildFields_FileUpload(t *testing.T) {
	fields := BuildFields([]entity.Question{{ID: 8, Type: entity.QuestionTypeFileUpload}})
	require.Len(t, fields, 1)
	assert.Equal(t, ControlFile, fields[0].Control)
}

func TestBuildFields_GridIsMultiSelect(t *testing.T) {
	// multiple_choice_grid трактуется как multi-select (см. DESIGN.md)
	fields := BuildFields([]entity.Question{{
		ID:      9,
		Type:    entity.QuestionTypeMultipleChoiceGrid,
		Options: []entity.Option{{ID: 90, Text: "Строка 1"}},
	}})
	require.Len(t, fields, 1)
	assert.True(t, fields[0].Multiple)
	assert.Equal(t, ControlCheckbox, fields[0].Control)
}

func TestBuildFields_PreservesQuestionOrder(t *testing.T) {
	// Arrange
	questions := []entity.Question{
		{ID: 2, Type: entity.QuestionTypeShortText},
		{ID: 1, Type: entity.QuestionTypeDate},
		{ID: 3, Type: entity.QuestionTypeTime},
	}

	// Act
	fields := BuildFields(questions)

	// Assert: порядок полей повторяет порядок вопросов
	require.Len(t, fields, 3)
	assert.Equal(t, "question_2", fields[0].ID)
	assert.Equal(t, "question_1", fields[1].ID)
	assert.Equal(t, "question_3", fields[2].ID)
	assert.Equal(t, ControlDate, fields[1].Control)
	assert.Equal(t, ControlTime, fields[2].Control)
}
