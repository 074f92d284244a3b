package repository

import "context"

// Repositories - набор репозиториев, привязанных к одному соединению или транзакции
type Repositories struct {
	Surveys   SurveyRepository
	Questions QuestionRepository
	Options   OptionRepository
	Answers   AnswerRepository
}

// UnitOfWork выполняет fn в одной транзакции.
// Ошибка из fn (или отмена ctx) откатывает все изменения; повторов нет.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos Repositories) error) error
}
