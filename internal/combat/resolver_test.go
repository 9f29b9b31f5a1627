package combat_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-gameplay/internal/combat"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
	"github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock"
	mockclock "github.com/KirkDiggler/rpg-gameplay/internal/pkg/clock/mock"
	"github.com/KirkDiggler/rpg-gameplay/internal/testutils"
)

type ResolverTestSuite struct {
	suite.Suite
	clock  *clock.Manual
	roller *testutils.SequenceRoller
	subj   *combat.Resolver
	start  time.Time
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverTestSuite))
}

func (s *ResolverTestSuite) SetupTest() {
	s.start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.clock = clock.NewManual(s.start)
	s.roller = testutils.NewSequenceRoller()

	resolver, err := combat.NewResolver(&combat.Config{
		Clock:  s.clock,
		Roller: s.roller,
	})
	s.Require().NoError(err)
	s.subj = resolver
}

func (s *ResolverTestSuite) roll(unit float64) {
	s.roller = testutils.NewSequenceRoller(testutils.UnitRoll(unit, combat.RollResolution))
	resolver, err := combat.NewResolver(&combat.Config{Clock: s.clock, Roller: s.roller})
	s.Require().NoError(err)
	s.subj = resolver
}

func (s *ResolverTestSuite) defense() *combat.DefenseBehavior {
	return &combat.DefenseBehavior{
		BlockChance:   0.5,
		BlockCooldown: 500 * time.Millisecond,
		StaminaCost:   10,
	}
}

func (s *ResolverTestSuite) TestNewResolverValidation() {
	_, err := combat.NewResolver(nil)
	s.True(errors.IsInvalidArgument(err))

	_, err = combat.NewResolver(&combat.Config{})
	s.Require().Error(err)
	s.Contains(err.Error(), "Clock: is required")
	s.Contains(err.Error(), "Roller: is required")
}

func (s *ResolverTestSuite) TestBlockDuringCooldown() {
	def := s.defense()
	lastBlock := s.clock.Now()
	def.LastBlock = lastBlock
	s.clock.Advance(100 * time.Millisecond)
	s.roll(0)

	damage, stamina := s.subj.TryBlock(def, 10.0, 100.0)

	s.Equal(float32(10), damage)
	s.Equal(float32(0), stamina)
	s.Equal(lastBlock, def.LastBlock)
	s.Equal(0, s.roller.Calls(), "no roll is drawn while on cooldown")
}

func (s *ResolverTestSuite) TestInsufficientStaminaIgnoresRoll() {
	for _, unit := range []float64{0, 0.25, 0.999} {
		s.Run(fmt.Sprintf("roll %.3f", unit), func() {
			s.roll(unit)
			def := s.defense()

			result := s.subj.Resolve(def, 12, 5)

			s.Equal(combat.OutcomeExhausted, result.Outcome)
			s.Equal(float32(12), result.DamageTaken)
			s.Equal(float32(0), result.StaminaUsed)
			s.True(def.LastBlock.IsZero())
		})
	}
}

func (s *ResolverTestSuite) TestSuccessfulBlockStartsCooldown() {
	def := s.defense()
	s.roll(0.25)

	damage, stamina := s.subj.TryBlock(def, 10, 100)
	s.Equal(float32(0), damage)
	s.Equal(float32(10), stamina)
	s.Equal(s.clock.Now(), def.LastBlock)

	damage, stamina = s.subj.TryBlock(def, 10, 100)
	s.Equal(float32(10), damage, "immediate retry is on cooldown")
	s.Equal(float32(0), stamina)

	s.clock.Advance(500 * time.Millisecond)
	s.True(s.subj.Ready(def))
	damage, _ = s.subj.TryBlock(def, 10, 100)
	s.Equal(float32(0), damage)
}

func (s *ResolverTestSuite) TestRollAtChanceBoundarySucceeds() {
	def := s.defense()
	s.roll(0.5)

	result := s.subj.Resolve(def, 10, 100)
	s.Equal(combat.OutcomeBlocked, result.Outcome)
}

func (s *ResolverTestSuite) TestFailedRollDoesNotResetCooldown() {
	def := s.defense()
	s.roller = testutils.NewSequenceRoller(
		testutils.UnitRoll(0.9, combat.RollResolution),
		testutils.UnitRoll(0.1, combat.RollResolution),
	)
	resolver, err := combat.NewResolver(&combat.Config{Clock: s.clock, Roller: s.roller})
	s.Require().NoError(err)

	result := resolver.Resolve(def, 10, 100)
	s.Equal(combat.OutcomeRollFailed, result.Outcome)
	s.Equal(float32(10), result.DamageTaken)
	s.Equal(float32(0), result.StaminaUsed)
	s.True(def.LastBlock.IsZero())

	result = resolver.Resolve(def, 10, 100)
	s.Equal(combat.OutcomeBlocked, result.Outcome, "eligible again right after a failed roll")
}

func (s *ResolverTestSuite) TestRollerErrorCountsAsMiss() {
	def := s.defense()
	s.roller.SetErr(fmt.Errorf("entropy unavailable"))

	result := s.subj.Resolve(def, 7, 100)
	s.Equal(combat.OutcomeRollFailed, result.Outcome)
	s.Equal(float32(7), result.DamageTaken)
}

func (s *ResolverTestSuite) TestUsesInjectedClock() {
	ctrl := gomock.NewController(s.T())
	mockClock := mockclock.NewMockClock(ctrl)

	resolver, err := combat.NewResolver(&combat.Config{
		Clock:  mockClock,
		Roller: testutils.NewSequenceRoller(1),
	})
	s.Require().NoError(err)

	def := s.defense()
	def.LastBlock = s.start

	mockClock.EXPECT().Now().Return(s.start.Add(time.Second))
	mockClock.EXPECT().Now().Return(s.start.Add(time.Second))

	damage, stamina := resolver.TryBlock(def, 4, 50)
	s.Equal(float32(0), damage)
	s.Equal(float32(10), stamina)
	s.Equal(s.start.Add(time.Second), def.LastBlock)
}

func (s *ResolverTestSuite) TestDefenseValidate() {
	s.NoError(s.defense().Validate())

	bad := &combat.DefenseBehavior{BlockChance: 1.5, BlockCooldown: -time.Second, StaminaCost: -1}
	err := bad.Validate()
	s.Require().Error(err)
	s.Contains(err.Error(), "BlockChance")
	s.Contains(err.Error(), "BlockCooldown")
	s.Contains(err.Error(), "StaminaCost")
}
