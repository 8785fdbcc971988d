// Команда seed наполняет базу демонстрационными данными:
// пользователь demo, форма со всеми типами вопросов и несколько отправок.
package main

import (
	"errors"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/forms-api/internal/config"
	"github.com/yourusername/forms-api/internal/domain/entity"
	"github.com/yourusername/forms-api/pkg/database"
)

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demo12345"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	if err := seed(db); err != nil {
		log.Printf("Seeding failed: %v", err)
		os.Exit(1)
	}

	log.Printf("Демо-данные созданы. Вход: %s / %s", demoEmail, demoPassword)
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var existing entity.User
		err := tx.Where("email = ?", demoEmail).First(&existing).Error
		if err == nil {
			log.Printf("Пользователь %s уже существует, сидинг пропущен", demoEmail)
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := &entity.User{
			Username:  "demo",
			Email:     demoEmail,
			Password:  demoPassword, // хешируется в BeforeSave
			FirstName: "Demo",
			LastName:  "User",
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		form := demoForm(user.ID)
		if err := tx.Create(form).Error; err != nil {
			return err
		}

		return seedResponses(tx, form)
	})
}

// demoForm строит опубликованную форму, покрывающую все типы вопросов
func demoForm(userID uint) *entity.Form {
	required := true
	optional := false
	scaleMin := 1
	scaleMax := 10

	return &entity.Form{
		UserID:                 userID,
		Title:                  "Customer Feedback Survey",
		Description:            "Help us improve by answering a few questions.",
		IsPublished:            true,
		AllowMultipleResponses: true,
		SendEmailNotifications: false,
		ThemeColor:             entity.ThemeTeal,
		Questions: []entity.Question{
			{
				Text:       "What is your name?",
				Type:       entity.QuestionTypeShortText,
				IsRequired: required,
				Order:      0,
			},
			{
				Text:       "Tell us about your experience",
				HelpText:   "A few sentences are enough.",
				Type:       entity.QuestionTypeLongText,
				IsRequired: optional,
				Order:      1,
			},
			{
				Text:       "How did you hear about us?",
				Type:       entity.QuestionTypeMultipleChoice,
				IsRequired: required,
				Order:      2,
				Options: []entity.Option{
					{Text: "Search engine", Order: 0},
					{Text: "Social media", Order: 1},
					{Text: "A friend", Order: 2},
				},
			},
			{
				Text:       "Which features do you use?",
				Type:       entity.QuestionTypeCheckboxes,
				IsRequired: optional,
				Order:      3,
				Options: []entity.Option{
					{Text: "Forms", Order: 0},
					{Text: "Analytics", Order: 1},
					{Text: "Exports", Order: 2},
				},
			},
			{
				Text:       "Your country",
				Type:       entity.QuestionTypeDropdown,
				IsRequired: optional,
				Order:      4,
				Options: []entity.Option{
					{Text: "Kazakhstan", Order: 0},
					{Text: "Germany", Order: 1},
					{Text: "Other", Order: 2},
				},
			},
			{
				Text:          "How likely are you to recommend us?",
				Type:          entity.QuestionTypeLinearScale,
				IsRequired:    required,
				Order:         5,
				ScaleMin:      &scaleMin,
				ScaleMax:      &scaleMax,
				ScaleMinLabel: "Not likely",
				ScaleMaxLabel: "Very likely",
			},
			{
				Text:       "Rate the following aspects",
				Type:       entity.QuestionTypeMultipleChoiceGrid,
				IsRequired: optional,
				Order:      6,
				Options: []entity.Option{
					{Text: "Speed", Order: 0},
					{Text: "Design", Order: 1},
					{Text: "Support", Order: 2},
				},
			},
			{
				Text:       "When did you first use the product?",
				Type:       entity.QuestionTypeDate,
				IsRequired: optional,
				Order:      7,
			},
			{
				Text:       "What time of day do you usually use it?",
				Type:       entity.QuestionTypeTime,
				IsRequired: optional,
				Order:      8,
			},
			{
				Text:       "Attach a screenshot (optional)",
				Type:       entity.QuestionTypeFileUpload,
				IsRequired: optional,
				Order:      9,
			},
		},
	}
}

// seedResponses создает несколько отправок с ответами и аудит-записями
func seedResponses(tx *gorm.DB, form *entity.Form) error {
	byOrder := make(map[int]*entity.Question, len(form.Questions))
	for i := range form.Questions {
		byOrder[form.Questions[i].Order] = &form.Questions[i]
	}

	samples := []struct {
		name    string
		text    string
		scale   string
		option  int // индекс опции вопроса "How did you hear about us?"
		daysAgo int
	}{
		{"Alice", "Great product, very easy to use.", "9", 0, 3},
		{"Bob", "Works fine, but exports could be faster.", "7", 1, 2},
		{"Carol", "", "10", 2, 1},
	}

	for _, s := range samples {
		submittedAt := time.Now().AddDate(0, 0, -s.daysAgo)
		response := &entity.Response{
			FormID:         form.ID,
			SubmittedAt:    submittedAt,
			RespondentName: s.name,
			IPAddress:      "127.0.0.1",
		}
		if err := tx.Create(response).Error; err != nil {
			return err
		}

		answers := []entity.Answer{
			{ResponseID: response.ID, QuestionID: byOrder[0].ID, AnswerText: s.name},
			{ResponseID: response.ID, QuestionID: byOrder[5].ID, AnswerText: s.scale},
			{
				ResponseID:      response.ID,
				QuestionID:      byOrder[2].ID,
				SelectedOptions: []entity.Option{byOrder[2].Options[s.option]},
			},
		}
		if s.text != "" {
			answers = append(answers, entity.Answer{
				ResponseID: response.ID,
				QuestionID: byOrder[1].ID,
				AnswerText: s.text,
			})
		}
		for i := range answers {
			if err := tx.Create(&answers[i]).Error; err != nil {
				return err
			}
		}

		change := &entity.Change{
			FormID:     form.ID,
			ResponseID: response.ID,
			ChangeDate: submittedAt.Truncate(24 * time.Hour),
		}
		if err := tx.Create(change).Error; err != nil {
			return err
		}
	}

	return nil
}
