package surveycore

import (
	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

// Action - вид изменения, которое проверяет Guard
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionComplete Action = "complete"
	ActionRead     Action = "read"
	ActionExport   Action = "export"
)

// TargetKind - тип сущности, над которой выполняется действие
type TargetKind string

const (
	TargetSurvey   TargetKind = "survey"
	TargetQuestion TargetKind = "question"
	TargetOption   TargetKind = "option"
	TargetAnswer   TargetKind = "answer"
)

// Target описывает цель проверки. OwnerID не используется для создания.
type Target struct {
	Kind    TargetKind
	OwnerID uint
}

// NewTarget возвращает цель без владельца (для создания и завершения)
func NewTarget(kind TargetKind) Target {
	return Target{Kind: kind}
}

func SurveyTarget(s *entity.Survey) Target {
	return Target{Kind: TargetSurvey, OwnerID: s.OwnerID}
}

func QuestionTarget(q *entity.Question) Target {
	return Target{Kind: TargetQuestion, OwnerID: q.OwnerID}
}

// OptionTarget - у вариантов нет своего владельца: изменение варианта
// проверяется как изменение родительского вопроса
func OptionTarget(parent *entity.Question) Target {
	return Target{Kind: TargetOption, OwnerID: parent.OwnerID}
}

func AnswerTarget(a *entity.Answer) Target {
	return Target{Kind: TargetAnswer, OwnerID: a.OwnerID}
}

// Guard - чистый предикат над ролью и владением. Не имеет побочных эффектов.
type Guard struct{}

// NewGuard создает Guard
func NewGuard() *Guard {
	return &Guard{}
}

// Authorize возвращает ErrUnauthorized при неподходящей роли
// и ErrForbidden, если актор не владеет целью.
func (g *Guard) Authorize(actor entity.Actor, action Action, target Target) error {
	switch target.Kind {
	case TargetSurvey:
		switch action {
		case ActionCreate:
			return requireRole(actor, entity.RoleInstructor, "only instructors can create surveys")
		case ActionUpdate, ActionDelete:
			return requireOwner(actor, target, "only the survey owner can modify it")
		case ActionComplete:
			return requireRole(actor, entity.RoleRespondent, "only respondents can complete surveys")
		case ActionExport:
			return requireOwner(actor, target, "only the survey owner can export results")
		}
	case TargetQuestion:
		switch action {
		case ActionCreate:
			return requireRole(actor, entity.RoleInstructor, "only instructors can create questions")
		case ActionUpdate, ActionDelete:
			return requireOwner(actor, target, "only the question owner can modify it")
		}
	case TargetOption:
		switch action {
		case ActionCreate, ActionUpdate, ActionDelete:
			if err := requireRole(actor, entity.RoleInstructor, "only instructors can manage options"); err != nil {
				return err
			}
			return requireOwner(actor, target, "only the question owner can manage its options")
		}
	case TargetAnswer:
		switch action {
		case ActionCreate:
			return requireRole(actor, entity.RoleRespondent, "only respondents can answer questions")
		case ActionUpdate, ActionDelete:
			return requireOwner(actor, target, "only the answer owner can modify it")
		case ActionRead:
			return requireOwner(actor, target, "only the answer owner can read it")
		}
	}
	return apperrors.Newf(apperrors.ErrForbidden, "action %s is not permitted on %s", action, target.Kind)
}

func requireRole(actor entity.Actor, role entity.Role, reason string) error {
	if actor.Role != role {
		return apperrors.New(apperrors.ErrUnauthorized, reason)
	}
	return nil
}

func requireOwner(actor entity.Actor, target Target, reason string) error {
	if actor.ID == 0 || actor.ID != target.OwnerID {
		return apperrors.New(apperrors.ErrForbidden, reason)
	}
	return nil
}
