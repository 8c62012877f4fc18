package flow

import "context"

// StateRepository defines the database operations for flow state.
type StateRepository interface {
	SaveFlowState(ctx context.Context, state *UserState) error
	LoadFlowState(ctx context.Context, userID int64) (*UserState, error)
	DeleteFlowState(ctx context.Context, userID int64) error
	FlowStateExists(ctx context.Context, userID int64) (bool, error)
}

// RepositoryStateStorage adapts the database repository to StateStorage.
type RepositoryStateStorage struct {
	repo StateRepository
}

func NewRepositoryStateStorage(repo StateRepository) *RepositoryStateStorage {
	return &RepositoryStateStorage{repo: repo}
}

func (s *RepositoryStateStorage) Save(ctx context.Context, state *UserState) error {
	return s.repo.SaveFlowState(ctx, state)
}

func (s *RepositoryStateStorage) Load(ctx context.Context, userID int64) (*UserState, error) {
	return s.repo.LoadFlowState(ctx, userID)
}

func (s *RepositoryStateStorage) Delete(ctx context.Context, userID int64) error {
	return s.repo.DeleteFlowState(ctx, userID)
}

func (s *RepositoryStateStorage) Exists(ctx context.Context, userID int64) (bool, error) {
	return s.repo.FlowStateExists(ctx, userID)
}
