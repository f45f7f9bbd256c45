package mapper

import (
	"pairprep-be/internal/entity"
	"pairprep-be/internal/model"
)

type SessionMapper struct {
	userMapper *UserMapper
}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{
		userMapper: NewUserMapper(),
	}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:            s.Id,
		Problem:       s.Problem,
		Difficulty:    entity.Difficulty(s.Difficulty),
		HostId:        s.HostId,
		Host:          m.userMapper.ToEntity(s.Host),
		ParticipantId: s.ParticipantId,
		Participant:   m.userMapper.ToEntity(s.Participant),
		Status:        entity.SessionStatus(s.Status),
		CallId:        s.CallId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:            s.Id,
		Problem:       s.Problem,
		Difficulty:    string(s.Difficulty),
		HostId:        s.HostId,
		ParticipantId: s.ParticipantId,
		Status:        string(s.Status),
		CallId:        s.CallId,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
