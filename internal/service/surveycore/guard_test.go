package surveycore

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/survey-api/internal/domain/entity"
	apperrors "github.com/yourusername/survey-api/internal/pkg/errors"
)

var (
	instructor      = entity.Actor{ID: 1, Role: entity.RoleInstructor}
	otherInstructor = entity.Actor{ID: 2, Role: entity.RoleInstructor}
	respondent      = entity.Actor{ID: 10, Role: entity.RoleRespondent}
	otherRespondent = entity.Actor{ID: 11, Role: entity.RoleRespondent}
)

func TestGuard_Authorize(t *testing.T) {
	guard := NewGuard()
	ownQuestion := &entity.Question{ID: 5, OwnerID: instructor.ID}
	ownAnswer := &entity.Answer{ID: 7, OwnerID: respondent.ID}
	ownSurvey := &entity.Survey{ID: 3, OwnerID: instructor.ID}

	tests := []struct {
		name    string
		actor   entity.Actor
		action  Action
		target  Target
		wantErr error
	}{
		{"instructor creates survey", instructor, ActionCreate, NewTarget(TargetSurvey), nil},
		{"respondent creates survey", respondent, ActionCreate, NewTarget(TargetSurvey), apperrors.ErrUnauthorized},
		{"owner updates survey", instructor, ActionUpdate, SurveyTarget(ownSurvey), nil},
		{"non-owner deletes survey", otherInstructor, ActionDelete, SurveyTarget(ownSurvey), apperrors.ErrForbidden},
		{"respondent completes survey", respondent, ActionComplete, NewTarget(TargetSurvey), nil},
		{"instructor completes survey", instructor, ActionComplete, NewTarget(TargetSurvey), apperrors.ErrUnauthorized},

		{"instructor creates question", instructor, ActionCreate, NewTarget(TargetQuestion), nil},
		{"respondent creates question", respondent, ActionCreate, NewTarget(TargetQuestion), apperrors.ErrUnauthorized},
		{"owner deletes question", instructor, ActionDelete, QuestionTarget(ownQuestion), nil},
		{"non-owner updates question", otherInstructor, ActionUpdate, QuestionTarget(ownQuestion), apperrors.ErrForbidden},

		{"question owner creates option", instructor, ActionCreate, OptionTarget(ownQuestion), nil},
		{"respondent creates option", respondent, ActionCreate, OptionTarget(ownQuestion), apperrors.ErrUnauthorized},
		{"other instructor creates option", otherInstructor, ActionCreate, OptionTarget(ownQuestion), apperrors.ErrForbidden},
		{"question owner deletes option", instructor, ActionDelete, OptionTarget(ownQuestion), nil},

		{"respondent creates answer", respondent, ActionCreate, NewTarget(TargetAnswer), nil},
		{"instructor creates answer", instructor, ActionCreate, NewTarget(TargetAnswer), apperrors.ErrUnauthorized},
		{"owner updates answer", respondent, ActionUpdate, AnswerTarget(ownAnswer), nil},
		{"non-owner updates answer", otherRespondent, ActionUpdate, AnswerTarget(ownAnswer), apperrors.ErrForbidden},
		{"non-owner deletes answer", otherRespondent, ActionDelete, AnswerTarget(ownAnswer), apperrors.ErrForbidden},
		{"owner reads answer", respondent, ActionRead, AnswerTarget(ownAnswer), nil},
		{"instructor reads answer", instructor, ActionRead, AnswerTarget(ownAnswer), apperrors.ErrForbidden},

		{"owner exports survey", instructor, ActionExport, SurveyTarget(ownSurvey), nil},
		{"non-owner exports survey", otherInstructor, ActionExport, SurveyTarget(ownSurvey), apperrors.ErrForbidden},

		{"unknown action", respondent, ActionComplete, AnswerTarget(ownAnswer), apperrors.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := guard.Authorize(tt.actor, tt.action, tt.target)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGuard_ZeroActorNeverOwns(t *testing.T) {
	// Цель без владельца (OwnerID=0) не должна совпадать с анонимным актором
	err := NewGuard().Authorize(entity.Actor{}, ActionDelete, Target{Kind: TargetAnswer})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
