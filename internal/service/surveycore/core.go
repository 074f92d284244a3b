package surveycore

import (
	"go.uber.org/zap"

	"github.com/yourusername/survey-api/internal/domain/repository"
)

// Core собирает компоненты согласованности над репозиториями одной транзакции
type Core struct {
	Guard   *Guard
	Options *OptionRegistry
	States  QuestionStateMachine
	Ledger  *ScoreLedger
	Gate    *CompletionGate
}

// New создает Core. Вызывается внутри UnitOfWork.Do для каждой транзакции.
func New(repos repository.Repositories, logger *zap.Logger) *Core {
	guard := NewGuard()
	return &Core{
		Guard:   guard,
		Options: NewOptionRegistry(repos.Options),
		Ledger:  NewScoreLedger(repos.Surveys, logger),
		Gate:    NewCompletionGate(guard, repos.Surveys, repos.Questions),
	}
}
