package testutils_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-gameplay/internal/testutils"
)

type SequenceRollerTestSuite struct {
	suite.Suite
}

func TestSequenceRollerSuite(t *testing.T) {
	suite.Run(t, new(SequenceRollerTestSuite))
}

func (s *SequenceRollerTestSuite) TestRollsInOrderThenRepeatsLast() {
	roller := testutils.NewSequenceRoller(3, 25, 0)

	got, err := roller.RollN(5, 20)
	s.Require().NoError(err)
	s.Equal([]int{3, 20, 1, 1, 1}, got)
	s.Equal(5, roller.Calls())
}

func (s *SequenceRollerTestSuite) TestSetErrFailsRollsUntilCleared() {
	roller := testutils.NewSequenceRoller(4)
	failure := fmt.Errorf("entropy unavailable")

	roller.SetErr(failure)
	_, err := roller.Roll(6)
	s.ErrorIs(err, failure)
	s.Equal(0, roller.Calls())

	roller.SetErr(nil)
	v, err := roller.Roll(6)
	s.Require().NoError(err)
	s.Equal(4, v)
}

func (s *SequenceRollerTestSuite) TestSetErrWhileRolling() {
	roller := testutils.NewSequenceRoller(2)
	failure := fmt.Errorf("entropy unavailable")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, _ = roller.Roll(6)
			}
		}()
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				roller.SetErr(failure)
			} else {
				roller.SetErr(nil)
			}
		}(i)
	}
	wg.Wait()

	roller.SetErr(nil)
	v, err := roller.Roll(6)
	s.Require().NoError(err)
	s.Equal(2, v)
}
