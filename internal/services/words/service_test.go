package words

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/drawhive/drawhive/internal/dependencies/mocks"
	"github.com/drawhive/drawhive/internal/model"
	"github.com/drawhive/drawhive/internal/storage/memory"
	"github.com/drawhive/drawhive/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	random  *mocks.MockRandom
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.random = mocks.NewMockRandom()
	s.service = New(s.storage, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestSampleBeforeLoadFails() {
	_, err := s.service.Sample(3)
	s.ErrorIs(err, model.ErrWordsNotLoaded)
}

func (s *ServiceSuite) TestSampleReturnsDistinctWords() {
	s.service.LoadWords([]string{"apple", "tree", "house", "river"})
	// Always pick index 0 - distinctness must come from pool removal
	s.random.QueueIntn(0, 0, 0)

	sampled, err := s.service.Sample(3)
	s.Require().NoError(err)
	s.Equal([]string{"apple", "tree", "house"}, sampled)
}

func (s *ServiceSuite) TestSampleClampsToPoolSize() {
	s.service.LoadWords([]string{"apple", "tree"})
	s.random.QueueIntn(0, 0)

	sampled, err := s.service.Sample(5)
	s.Require().NoError(err)
	s.Len(sampled, 2)
}

func (s *ServiceSuite) TestLoadFromStorage() {
	_ = s.storage.SaveWordList(s.ctx, []string{"apple", "tree"})

	err := s.service.LoadFromStorage(s.ctx)
	s.Require().NoError(err)
	s.True(s.service.IsLoaded())
	s.Equal(2, s.service.WordCount())
}

func (s *ServiceSuite) TestLoadFromStorageEmpty() {
	err := s.service.LoadFromStorage(s.ctx)
	s.ErrorIs(err, model.ErrWordsNotLoaded)
	s.False(s.service.IsLoaded())
}
